// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"sync"
	"testing"

	"github.com/SimenArcon/godyn/dof"

	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	bsparse "github.com/james-bowman/sparse"
)

// umf5x5 returns the 5x5 matrix of the UMFPACK user guide
//
//	 2   3   0   0   0
//	 3   0   4   0   6
//	 0  -1  -3   2   0
//	 0   0   1   0   0
//	 0   4   2   0   1
func umf5x5(opts *Options) (m *Matrix) {
	m = New(5, 5, opts)
	m.Put(1, 1, 2)
	m.Put(2, 1, 3)
	m.Put(1, 2, 3)
	m.Put(3, 2, -1)
	m.Put(5, 2, 4)
	m.Put(2, 3, 4)
	m.Put(3, 3, -3)
	m.Put(4, 3, 1)
	m.Put(5, 3, 2)
	m.Put(3, 4, 2)
	m.Put(2, 5, 6)
	m.Put(5, 5, 1)
	return
}

func Test_mat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat01. editable phase")

	m := New(3, 4, nil)
	chk.IntAssert(m.Rows(), 3)
	chk.IntAssert(m.Cols(), 4)
	if !m.Editable() {
		tst.Errorf("a new matrix must be editable\n")
		return
	}

	m.Put(1, 1, 2.0)
	m.Put(3, 4, -1.5)
	m.Add(1, 1, 0.5)
	m.Touch(2, 2)
	chk.IntAssert(m.NNZ(), 3)
	chk.Scalar(tst, "a11", 1e-17, m.At(1, 1), 2.5)
	chk.Scalar(tst, "a34", 1e-17, m.At(3, 4), -1.5)
	chk.Scalar(tst, "a22", 1e-17, m.At(2, 2), 0)
	chk.Scalar(tst, "a12", 1e-17, m.At(1, 2), 0)
	io.Pf("%v", m.SparsityString())

	// out-of-range access must panic
	func() {
		defer func() {
			if recover() == nil {
				tst.Errorf("out-of-range Put should have panicked\n")
			}
		}()
		m.Put(4, 1, 1)
	}()
}

func Test_mat02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat02. optimised phase")

	m := umf5x5(nil)
	m.Optimize()
	if m.Editable() {
		tst.Errorf("matrix must not be editable after Optimize\n")
		return
	}
	chk.Ints(tst, "ap", m.ap, []int{0, 2, 5, 9, 10, 12})
	chk.Ints(tst, "ai", m.ai, []int{0, 1, 0, 2, 4, 1, 2, 3, 4, 2, 1, 4})
	chk.Vector(tst, "ax", 1e-17, m.ax, []float64{2, 3, 3, -1, 4, 4, -3, 1, 2, 2, 6, 1})

	// At and Add work on the fixed pattern
	chk.Scalar(tst, "a32", 1e-17, m.At(3, 2), -1)
	m.Add(3, 2, -1)
	chk.Scalar(tst, "a32", 1e-17, m.At(3, 2), -2)
	if err := m.AddOpt(1, 5, 1); err == nil {
		tst.Errorf("adding outside the fixed pattern should have failed\n")
		return
	}

	// Init zeroes the values preserving the pattern
	m.Init()
	chk.IntAssert(m.NNZ(), 12)
	chk.Scalar(tst, "a11 after Init", 1e-17, m.At(1, 1), 0)
	chk.Scalar(tst, "a32 after Init", 1e-17, m.At(3, 2), 0)
	if err := m.AddOpt(1, 1, 2); err != nil {
		tst.Errorf("pattern must survive Init:\n%v", err)
		return
	}

	// Redim folds back to the editable phase keeping in-range entries
	r := umf5x5(nil)
	r.Optimize()
	if err := r.Redim(3, 3); err != nil {
		tst.Errorf("Redim failed:\n%v", err)
		return
	}
	if !r.Editable() {
		tst.Errorf("matrix must be editable after Redim\n")
		return
	}
	chk.IntAssert(r.NNZ(), 6)
	chk.Scalar(tst, "r33", 1e-17, r.At(3, 3), -3)
	chk.Scalar(tst, "r21", 1e-17, r.At(2, 1), 3)

	// Resize drops everything
	r.Resize(2, 2)
	chk.IntAssert(r.NNZ(), 0)
	chk.IntAssert(r.Rows(), 2)
}

func Test_mat03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat03. algebra")

	// multiply in both phases
	m := umf5x5(nil)
	u := []float64{1, 2, 3, 4, 5}
	v := make([]float64, 5)
	if err := m.Multiply(u, v); err != nil {
		tst.Errorf("Multiply failed:\n%v", err)
		return
	}
	chk.Vector(tst, "A*u (editable)", 1e-15, v, []float64{8, 45, -3, 3, 19})
	m.Optimize()
	if err := m.Multiply(u, v); err != nil {
		tst.Errorf("Multiply failed:\n%v", err)
		return
	}
	chk.Vector(tst, "A*u (optimised)", 1e-15, v, []float64{8, 45, -3, 3, 19})

	// scaled matrix addition
	a := New(2, 2, nil)
	a.Put(1, 1, 1)
	a.Put(2, 2, 1)
	b := New(2, 2, nil)
	b.Put(1, 2, 2)
	b.Put(2, 2, 3)
	if err := a.AddMat(b, 0.5); err != nil {
		tst.Errorf("AddMat failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "a12", 1e-17, a.At(1, 2), 1)
	chk.Scalar(tst, "a22", 1e-17, a.At(2, 2), 2.5)
	a.AddDiag(2)
	chk.Scalar(tst, "a11", 1e-17, a.At(1, 1), 3)

	// augmenting grows an editable matrix
	g := New(1, 1, nil)
	g.Put(1, 1, 7)
	if err := g.Augment(b, 1, 1); err != nil {
		tst.Errorf("Augment failed:\n%v", err)
		return
	}
	chk.IntAssert(g.Rows(), 3)
	chk.IntAssert(g.Cols(), 3)
	chk.Scalar(tst, "g11", 1e-17, g.At(1, 1), 7)
	chk.Scalar(tst, "g23", 1e-17, g.At(2, 3), 2)
	chk.Scalar(tst, "g33", 1e-17, g.At(3, 3), 3)
	if err := g.Augment(g, 0, 0); err == nil {
		tst.Errorf("augmenting a matrix with itself should have failed\n")
		return
	}

	// an optimised matrix cannot grow: a block past the bounds is an error,
	// not a panic, and leaves the values untouched
	h := New(2, 2, nil)
	h.Put(1, 1, 4)
	h.Put(2, 2, 5)
	h.Optimize()
	if err := h.Augment(b, 1, 1); err == nil {
		tst.Errorf("augmenting past the bounds of an optimised matrix should have failed\n")
		return
	}
	chk.Scalar(tst, "h11", 1e-17, h.At(1, 1), 4)
	chk.Scalar(tst, "h22", 1e-17, h.At(2, 2), 5)
	if err := h.Augment(b, -1, 0); err == nil {
		tst.Errorf("augmenting with a negative offset should have failed\n")
		return
	}

	// truncation of small entries
	tr := New(2, 2, nil)
	tr.Put(1, 1, 10)
	tr.Put(2, 2, 8)
	tr.Put(1, 2, 1e-9)
	chk.IntAssert(tr.Truncate(1e-8), 1)
	chk.IntAssert(tr.NNZ(), 2)
}

func Test_mat04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat04. assembly of a rod chain")

	// chain of 9 two-node elements with one DOF per node
	nnod := 10
	sam := dof.NewMap(nnod, 1)
	for n := 1; n < nnod; n++ {
		if _, err := sam.AddElement(n, n+1); err != nil {
			tst.Errorf("AddElement failed:\n%v", err)
			return
		}
	}
	if err := sam.InitEquations(); err != nil {
		tst.Errorf("InitEquations failed:\n%v", err)
		return
	}
	chk.IntAssert(sam.Neq(), nnod)

	// stiffness of element e
	loc := func(e int) [][]float64 {
		k := float64(e)
		return [][]float64{{k, -k}, {-k, k}}
	}

	// assembly with a precomputed pattern
	A := New(1, 1, nil)
	if err := A.InitAssembly(sam); err != nil {
		tst.Errorf("InitAssembly failed:\n%v", err)
		return
	}
	for e := 1; e <= sam.Nele(); e++ {
		if err := A.Assemble(loc(e), sam, e); err != nil {
			tst.Errorf("Assemble failed:\n%v", err)
			return
		}
	}

	// reference assembly with a DOK accumulator
	ref := bsparse.NewDOK(nnod, nnod)
	for e := 1; e <= sam.Nele(); e++ {
		eqs := sam.ElemEqs(e)
		lm := loc(e)
		for i, r := range eqs {
			for j, c := range eqs {
				ref.Set(r-1, c-1, ref.At(r-1, c-1)+lm[i][j])
			}
		}
	}
	for i := 1; i <= nnod; i++ {
		for j := 1; j <= nnod; j++ {
			chk.Scalar(tst, io.Sf("a%d%d", i, j), 1e-15, A.At(i, j), ref.At(i-1, j-1))
		}
	}

	// concurrent assembly must produce the same matrix
	B := New(1, 1, nil)
	if err := B.InitAssembly(sam); err != nil {
		tst.Errorf("InitAssembly failed:\n%v", err)
		return
	}
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()
			for e := first; e <= sam.Nele(); e += 4 {
				B.Assemble(loc(e), sam, e)
			}
		}(w + 1)
	}
	wg.Wait()
	for i := 1; i <= nnod; i++ {
		for j := 1; j <= nnod; j++ {
			chk.Scalar(tst, io.Sf("b%d%d", i, j), 1e-15, B.At(i, j), A.At(i, j))
		}
	}
}

func Test_mat05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat05. assembly with constraint elimination")

	/*  two springs in series; left end fixed, right end driven
	 *
	 *   u1 o--[k=2]--o--[k=3]--o u3 = 1
	 *   (fixed)    u2
	 */
	sam := dof.NewMap(3, 1)
	sam.AddElement(1, 2)
	sam.AddElement(2, 3)
	if err := sam.Prescribe(1, 1, &fun.Zero); err != nil {
		tst.Errorf("Prescribe failed:\n%v", err)
		return
	}
	if err := sam.Prescribe(3, 1, &fun.Cte{C: 1}); err != nil {
		tst.Errorf("Prescribe failed:\n%v", err)
		return
	}
	if err := sam.InitEquations(); err != nil {
		tst.Errorf("InitEquations failed:\n%v", err)
		return
	}
	chk.IntAssert(sam.Neq(), 1)
	sam.UpdateConstraints(0)

	k1 := [][]float64{{2, -2}, {-2, 2}}
	k2 := [][]float64{{3, -3}, {-3, 3}}

	A := New(1, 1, nil)
	if err := A.InitAssembly(sam); err != nil {
		tst.Errorf("InitAssembly failed:\n%v", err)
		return
	}
	fb := make([]float64, sam.Neq())
	if err := A.AssembleRHS(k1, sam, fb, 1); err != nil {
		tst.Errorf("AssembleRHS failed:\n%v", err)
		return
	}
	if err := A.AssembleRHS(k2, sam, fb, 2); err != nil {
		tst.Errorf("AssembleRHS failed:\n%v", err)
		return
	}

	// rows and columns of prescribed DOFs drop out; the driven end loads
	// the right-hand side with -k*c0
	chk.Scalar(tst, "K", 1e-17, A.At(1, 1), 5)
	chk.Vector(tst, "fb", 1e-17, fb, []float64{3})
}
