// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse implements a sparse matrix with a two-phase life cycle
// (editable coordinate map, then optimised compressed-column storage),
// element assembly with constraint elimination and pluggable direct solver
// backends
package sparse

import (
	"math"
	"sort"
	"sync"

	"github.com/SimenArcon/godyn/dof"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// pos locates one entry (0-based row and column)
type pos struct{ i, j int }

// Matrix is a sparse matrix with 1-based public indices.
//
// A new matrix starts in the editable phase, where entries live in a
// coordinate-keyed map and the pattern may grow freely. The first Solve (or
// an explicit Optimize/InitAssembly) converts the entries to compressed
// sparse column arrays; from then on the pattern is fixed and values may
// only be accumulated into existing entries. Init zeroes the values while
// preserving the pattern in either phase; Resize gives a fresh editable
// matrix; Redim folds the compressed entries back into the map.
//
// Assemble and AssembleRHS serialise internally, so element loops may call
// them from multiple goroutines while computing local matrices in parallel.
type Matrix struct {
	mu   sync.Mutex
	opts Options

	nrow, ncol int

	// editable phase
	editable bool
	elem     map[pos]float64

	// optimised phase (compressed sparse column)
	ap []int     // [ncol+1] column pointers
	ai []int     // [nnz] row indices, ascending within each column
	ax []float64 // [nnz] values

	// solver state
	backend    Backend
	factorised bool
	wrk        []float64
}

// New returns an m by n matrix in the editable phase
func New(m, n int, opts *Options) *Matrix {
	if m < 1 || n < 1 {
		chk.Panic("sparse.New requires positive dimensions. m=%d, n=%d is invalid", m, n)
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Matrix{
		opts:     *opts,
		nrow:     m,
		ncol:     n,
		editable: true,
		elem:     make(map[pos]float64),
	}
}

// sizes and state //////////////////////////////////////////////////////////////////////////////////

// Rows returns the number of rows
func (o *Matrix) Rows() int { return o.nrow }

// Cols returns the number of columns
func (o *Matrix) Cols() int { return o.ncol }

// NNZ returns the number of stored entries
func (o *Matrix) NNZ() int {
	if o.editable {
		return len(o.elem)
	}
	return len(o.ax)
}

// Editable tells whether the matrix is still in the editable phase
func (o *Matrix) Editable() bool { return o.editable }

// entry access /////////////////////////////////////////////////////////////////////////////////////

// At returns the value of entry (i,j), 1-based; absent entries read as zero
func (o *Matrix) At(i, j int) float64 {
	o.bounds(i, j)
	if o.editable {
		return o.elem[pos{i - 1, j - 1}]
	}
	if k := o.find(i-1, j-1); k >= 0 {
		return o.ax[k]
	}
	return 0
}

// Put sets entry (i,j) to v; editable phase only
func (o *Matrix) Put(i, j int, v float64) {
	o.bounds(i, j)
	if !o.editable {
		chk.Panic("Put requires the editable phase; entry (%d,%d) cannot be set after the pattern is fixed", i, j)
	}
	o.elem[pos{i - 1, j - 1}] = v
	o.factorised = false
}

// Touch inserts an explicit zero entry at (i,j) if absent; editable phase
// only. Touching is how callers prime a pattern before Init/Optimize.
func (o *Matrix) Touch(i, j int) {
	o.bounds(i, j)
	if !o.editable {
		chk.Panic("Touch requires the editable phase; entry (%d,%d) cannot be inserted after the pattern is fixed", i, j)
	}
	p := pos{i - 1, j - 1}
	if _, ok := o.elem[p]; !ok {
		o.elem[p] = 0
	}
}

// Add accumulates v into entry (i,j). In the editable phase the entry is
// created if absent; in the optimised phase (i,j) must belong to the fixed
// pattern.
func (o *Matrix) Add(i, j int, v float64) {
	if err := o.AddOpt(i, j, v); err != nil {
		chk.Panic("%v", err)
	}
}

// AddOpt is Add returning an error instead of panicking on pattern
// violations
func (o *Matrix) AddOpt(i, j int, v float64) error {
	o.bounds(i, j)
	o.factorised = false
	if o.editable {
		o.elem[pos{i - 1, j - 1}] += v
		return nil
	}
	if k := o.find(i-1, j-1); k >= 0 {
		o.ax[k] += v
		return nil
	}
	return chk.Err("entry (%d,%d) is outside the fixed pattern", i, j)
}

// life cycle ///////////////////////////////////////////////////////////////////////////////////////

// Resize resets the matrix to a fresh m by n editable state, dropping the
// pattern, the values and any factorisation
func (o *Matrix) Resize(m, n int) {
	if m < 1 || n < 1 {
		chk.Panic("Resize requires positive dimensions. m=%d, n=%d is invalid", m, n)
	}
	o.nrow, o.ncol = m, n
	o.editable = true
	o.elem = make(map[pos]float64)
	o.ap, o.ai, o.ax = nil, nil, nil
	o.freeBackend()
}

// Redim resizes the matrix to m by n preserving entries whose indices
// remain in range; the matrix re-enters the editable phase
func (o *Matrix) Redim(m, n int) error {
	if m < 1 || n < 1 {
		return chk.Err("Redim requires positive dimensions. m=%d, n=%d is invalid", m, n)
	}
	if !o.editable {
		o.toEditable()
	}
	for p := range o.elem {
		if p.i >= m || p.j >= n {
			delete(o.elem, p)
		}
	}
	o.nrow, o.ncol = m, n
	o.freeBackend()
	return nil
}

// Init zeroes all values preserving the sparsity pattern, in whichever
// phase the matrix is in
func (o *Matrix) Init() {
	if o.editable {
		for p := range o.elem {
			o.elem[p] = 0
		}
	} else {
		for k := range o.ax {
			o.ax[k] = 0
		}
	}
	o.factorised = false
}

// Optimize converts the editable entries to compressed sparse column
// storage and fixes the pattern; repeated calls are no-ops
func (o *Matrix) Optimize() {
	if !o.editable {
		return
	}
	keys := make([]pos, 0, len(o.elem))
	for p := range o.elem {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].j != keys[b].j {
			return keys[a].j < keys[b].j
		}
		return keys[a].i < keys[b].i
	})
	o.ap = make([]int, o.ncol+1)
	o.ai = make([]int, len(keys))
	o.ax = make([]float64, len(keys))
	for k, p := range keys {
		o.ap[p.j+1]++
		o.ai[k] = p.i
		o.ax[k] = o.elem[p]
	}
	for j := 0; j < o.ncol; j++ {
		o.ap[j+1] += o.ap[j]
	}
	o.elem = nil
	o.editable = false
}

// InitAssembly precomputes the exact nonzero pattern implied by the element
// connectivity and constraints of the map, resizes the matrix to neq by neq
// and fixes the compressed layout up front, so that repeated assembly
// avoids per-entry map growth
func (o *Matrix) InitAssembly(sam *dof.Map) error {
	neq := sam.Neq()
	if neq < 1 {
		return chk.Err("cannot initialise assembly: the map has no equations (call InitEquations first)")
	}
	o.Resize(neq, neq)
	for e := 1; e <= sam.Nele(); e++ {
		eqs := expandEqs(sam, e)
		for _, r := range eqs {
			for _, c := range eqs {
				o.Touch(r, c)
			}
		}
	}
	o.Optimize()
	return nil
}

// expandEqs returns the set of equations an element couples, with slave
// DOFs replaced by their masters
func expandEqs(sam *dof.Map, eid int) (eqs []int) {
	seen := make(map[int]bool)
	for _, d := range sam.ElemDofs(eid) {
		if c := sam.ConstraintOf(d); c != nil {
			for _, m := range c.Masters {
				if q := sam.Eq(m); !seen[q] {
					seen[q] = true
					eqs = append(eqs, q)
				}
			}
			continue
		}
		if q := sam.Eq(d); !seen[q] {
			seen[q] = true
			eqs = append(eqs, q)
		}
	}
	return
}

// assembly /////////////////////////////////////////////////////////////////////////////////////////

// Assemble scatters a local element matrix through the DOF map into this
// matrix. Entries of constrained DOFs are redistributed to their masters
// weighted by the constraint coefficients; prescribed DOFs (constraints
// with no masters) drop out. Safe for concurrent use.
func (o *Matrix) Assemble(eM [][]float64, sam *dof.Map, eid int) error {
	return o.assemble(eM, sam, nil, eid)
}

// AssembleRHS is Assemble plus the right-hand-side coupling of constraint
// offsets: for each free (or master-redistributed) row r and constrained
// column j, fb[r] receives -k[r][j]*c0(j)
func (o *Matrix) AssembleRHS(eM [][]float64, sam *dof.Map, fb []float64, eid int) error {
	if len(fb) != sam.Neq() {
		return chk.Err("cannot assemble element %d: RHS vector has %d entries but neq=%d", eid, len(fb), sam.Neq())
	}
	return o.assemble(eM, sam, fb, eid)
}

func (o *Matrix) assemble(eM [][]float64, sam *dof.Map, fb []float64, eid int) error {
	dofs := sam.ElemDofs(eid)
	if len(eM) != len(dofs) {
		return chk.Err("cannot assemble element %d: local matrix has %d rows but the element has %d DOFs", eid, len(eM), len(dofs))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, di := range dofs {
		if len(eM[i]) != len(dofs) {
			return chk.Err("cannot assemble element %d: local matrix row %d has %d columns but the element has %d DOFs", eid, i, len(eM[i]), len(dofs))
		}
		rq, rw := o.targets(sam, di)
		if len(rq) == 0 {
			continue
		}
		for j, dj := range dofs {
			k := eM[i][j]
			if k == 0 {
				continue
			}
			cc := sam.ConstraintOf(dj)
			if cc != nil && fb != nil && cc.C0() != 0 {
				for a, r := range rq {
					fb[r-1] -= rw[a] * k * cc.C0()
				}
			}
			cq, cw := o.targets(sam, dj)
			for a, r := range rq {
				for b, c := range cq {
					if err := o.AddOpt(r, c, rw[a]*cw[b]*k); err != nil {
						return chk.Err("cannot assemble element %d:\n%v", eid, err)
					}
				}
			}
		}
	}
	return nil
}

// targets returns the equations receiving contributions of a DOF together
// with the redistribution weights
func (o *Matrix) targets(sam *dof.Map, d int) (eqs []int, w []float64) {
	if c := sam.ConstraintOf(d); c != nil {
		for k, m := range c.Masters {
			eqs = append(eqs, sam.Eq(m))
			w = append(w, c.Coefs[k])
		}
		return
	}
	return []int{sam.Eq(d)}, []float64{1}
}

// matrix algebra ///////////////////////////////////////////////////////////////////////////////////

// each calls f for every stored entry (1-based indices)
func (o *Matrix) each(f func(i, j int, v float64)) {
	if o.editable {
		for p, v := range o.elem {
			f(p.i+1, p.j+1, v)
		}
		return
	}
	for j := 0; j < o.ncol; j++ {
		for k := o.ap[j]; k < o.ap[j+1]; k++ {
			f(o.ai[k]+1, j+1, o.ax[k])
		}
	}
}

// Augment adds the entries of b shifted by (r0,c0), composing block
// systems. In the editable phase the dimensions grow as needed; in the
// optimised phase the shifted block must fit inside the current bounds and
// out-of-pattern entries are an error.
func (o *Matrix) Augment(b *Matrix, r0, c0 int) (err error) {
	if b == o {
		return chk.Err("cannot augment a matrix with itself")
	}
	if r0 < 0 || c0 < 0 {
		return chk.Err("cannot augment with negative offsets. r0=%d, c0=%d is invalid", r0, c0)
	}
	if !o.editable {
		if b.nrow+r0 > o.nrow || b.ncol+c0 > o.ncol {
			return chk.Err("cannot augment: %dx%d block at offset (%d,%d) exceeds the %dx%d bounds", b.nrow, b.ncol, r0, c0, o.nrow, o.ncol)
		}
		b.each(func(i, j int, v float64) {
			if err == nil {
				err = o.AddOpt(i+r0, j+c0, v)
			}
		})
		return
	}
	o.nrow = imax(o.nrow, b.nrow+r0)
	o.ncol = imax(o.ncol, b.ncol+c0)
	b.each(func(i, j int, v float64) {
		o.elem[pos{i + r0 - 1, j + c0 - 1}] += v
	})
	o.factorised = false
	return nil
}

// AddMat adds alpha times another matrix of the same dimensions
func (o *Matrix) AddMat(b *Matrix, alpha float64) (err error) {
	if b.nrow != o.nrow || b.ncol != o.ncol {
		return chk.Err("cannot add %dx%d matrix into %dx%d matrix", b.nrow, b.ncol, o.nrow, o.ncol)
	}
	b.each(func(i, j int, v float64) {
		if err == nil {
			err = o.AddOpt(i, j, alpha*v)
		}
	})
	return
}

// AddDiag adds sigma to every diagonal entry
func (o *Matrix) AddDiag(sigma float64) (err error) {
	n := imin(o.nrow, o.ncol)
	for d := 1; d <= n; d++ {
		if err = o.AddOpt(d, d, sigma); err != nil {
			return
		}
	}
	return
}

// Truncate drops entries with |a[i][j]| < tol * max|diagonal|; editable
// phase only. It returns the number of dropped entries.
func (o *Matrix) Truncate(tol float64) int {
	if !o.editable {
		chk.Panic("Truncate requires the editable phase")
	}
	maxdiag := 0.0
	for p, v := range o.elem {
		if p.i == p.j && math.Abs(v) > maxdiag {
			maxdiag = math.Abs(v)
		}
	}
	if maxdiag == 0 {
		maxdiag = 1
	}
	thr := tol * maxdiag
	ndrop := 0
	for p, v := range o.elem {
		if math.Abs(v) < thr {
			delete(o.elem, p)
			ndrop++
		}
	}
	if ndrop > 0 {
		o.factorised = false
	}
	return ndrop
}

// Multiply computes v = A*u in either phase
func (o *Matrix) Multiply(u, v []float64) error {
	if len(u) != o.ncol || len(v) != o.nrow {
		return chk.Err("cannot multiply: A is %dx%d, u has %d entries and v has %d entries", o.nrow, o.ncol, len(u), len(v))
	}
	for i := range v {
		v[i] = 0
	}
	o.each(func(i, j int, x float64) {
		v[i-1] += x * u[j-1]
	})
	return nil
}

// solving //////////////////////////////////////////////////////////////////////////////////////////

// Solve solves A*x = b in place (b is overwritten with x). With newLHS the
// matrix is (re)optimised and (re)factorised first; without it the existing
// factorisation is reused, which is an error when none exists and is only
// correct if the values did not change since the last factorising solve.
func (o *Matrix) Solve(b []float64, newLHS bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.nrow != o.ncol {
		return chk.Err("Solve requires a square matrix; this one is %dx%d", o.nrow, o.ncol)
	}
	if len(b) != o.nrow {
		return chk.Err("Solve requires len(b)=%d; len(b)=%d is invalid", o.nrow, len(b))
	}
	if newLHS {
		o.Optimize()
		if o.backend == nil {
			bk, err := GetBackend(o.opts.Backend)
			if err != nil {
				return err
			}
			o.backend = bk
		}
		if err := o.backend.Init(o.nrow, o.ap, o.ai, o.ax, &o.opts); err != nil {
			return chk.Err("linear solver initialisation failed:\n%v", err)
		}
		if err := o.backend.Fact(); err != nil {
			return err
		}
		o.factorised = true
	}
	if !o.factorised {
		return chk.Err("no factorisation to reuse; call Solve with newLHS=true first")
	}
	if o.wrk == nil || len(o.wrk) != o.nrow {
		o.wrk = make([]float64, o.nrow)
	}
	if err := o.backend.Solve(o.wrk, b); err != nil {
		return err
	}
	copy(b, o.wrk)
	return nil
}

// Free releases backend resources
func (o *Matrix) Free() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.freeBackend()
}

// printing /////////////////////////////////////////////////////////////////////////////////////////

// SparsityString renders the nonzero pattern with one character per entry
func (o *Matrix) SparsityString() string {
	l := io.Sf("%dx%d nnz=%d\n", o.nrow, o.ncol, o.NNZ())
	for i := 1; i <= o.nrow; i++ {
		for j := 1; j <= o.ncol; j++ {
			if o.At(i, j) != 0 {
				l += "X"
			} else {
				l += "."
			}
		}
		l += "\n"
	}
	return l
}

// String prints the matrix densely (small matrices only)
func (o *Matrix) String() string {
	l := ""
	for i := 1; i <= o.nrow; i++ {
		for j := 1; j <= o.ncol; j++ {
			l += io.Sf("%23.15e ", o.At(i, j))
		}
		l += "\n"
	}
	return l
}

// internals ////////////////////////////////////////////////////////////////////////////////////////

// bounds panics if (i,j) is outside the matrix
func (o *Matrix) bounds(i, j int) {
	if i < 1 || i > o.nrow || j < 1 || j > o.ncol {
		chk.Panic("entry (%d,%d) is outside the %dx%d matrix", i, j, o.nrow, o.ncol)
	}
}

// find returns the compressed position of 0-based (i,j), or -1
func (o *Matrix) find(i, j int) int {
	lo, hi := o.ap[j], o.ap[j+1]
	k := lo + sort.SearchInts(o.ai[lo:hi], i)
	if k < hi && o.ai[k] == i {
		return k
	}
	return -1
}

// toEditable folds the compressed entries back into the editable map
func (o *Matrix) toEditable() {
	o.elem = make(map[pos]float64, len(o.ax))
	for j := 0; j < o.ncol; j++ {
		for k := o.ap[j]; k < o.ap[j+1]; k++ {
			o.elem[pos{o.ai[k], j}] = o.ax[k]
		}
	}
	o.ap, o.ai, o.ax = nil, nil, nil
	o.editable = true
}

func (o *Matrix) freeBackend() {
	if o.backend != nil {
		o.backend.Free()
		o.backend = nil
	}
	o.factorised = false
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
