// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dof maps nodal degrees of freedom onto global equations and
// handles the elimination of prescribed and multi-point constrained DOFs
package dof

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Map holds the assembly map of an analysis: element connectivity, the
// status of each nodal DOF and the numbering of free DOFs into global
// equations.
//
// Public identifiers are 1-based: nodes in [1,nnod], elements in [1,nele],
// DOF components in [1,ndofn], global DOFs in [1,ndof] and equations in
// [1,neq]. Global vectors are stored 0-based: equation i lives at index i-1.
type Map struct {

	// sizes
	nnod  int // number of nodes
	ndofn int // number of DOFs per node
	ndof  int // total number of DOFs == nnod * ndofn
	neq   int // number of equations (free DOFs); set by InitEquations

	// connectivity
	enodes [][]int // [nele] node ids of each element

	// constraints
	cons    []*Constraint // all constraint equations
	dof2con []int         // [ndof] 1-based index into cons; 0 means free DOF

	// derived by InitEquations
	eq       []int   // [ndof] equation number of each DOF; 0 means constrained
	edofs    [][]int // [nele] global DOFs of each element
	numbered bool
}

// NewMap returns a new assembly map for nnod nodes with ndofn DOFs per node
func NewMap(nnod, ndofn int) (o *Map) {
	if nnod < 1 || ndofn < 1 {
		chk.Panic("NewMap requires at least one node and one DOF per node. nnod=%d, ndofn=%d is invalid", nnod, ndofn)
	}
	o = new(Map)
	o.nnod = nnod
	o.ndofn = ndofn
	o.ndof = nnod * ndofn
	o.dof2con = make([]int, o.ndof)
	return
}

// sizes and indexing ///////////////////////////////////////////////////////////////////////////////

// Nnod returns the number of nodes
func (o *Map) Nnod() int { return o.nnod }

// Ndofn returns the number of DOFs per node
func (o *Map) Ndofn() int { return o.ndofn }

// Ndof returns the total number of DOFs
func (o *Map) Ndof() int { return o.ndof }

// Neq returns the number of equations (valid after InitEquations)
func (o *Map) Neq() int { return o.neq }

// Nele returns the number of elements
func (o *Map) Nele() int { return len(o.enodes) }

// DofIndex returns the global DOF (1-based) of component j in [1,ndofn] of
// the given node in [1,nnod]
func (o *Map) DofIndex(node, j int) int {
	if node < 1 || node > o.nnod || j < 1 || j > o.ndofn {
		chk.Panic("DofIndex called with node=%d, j=%d outside [1,%d]x[1,%d]", node, j, o.nnod, o.ndofn)
	}
	return (node-1)*o.ndofn + j
}

// Eq returns the equation number of a global DOF; 0 means the DOF is
// constrained and has no equation
func (o *Map) Eq(dof int) int {
	return o.eq[dof-1]
}

// ConstraintOf returns the constraint acting on a global DOF, or nil if the
// DOF is free
func (o *Map) ConstraintOf(dof int) *Constraint {
	if i := o.dof2con[dof-1]; i > 0 {
		return o.cons[i-1]
	}
	return nil
}

// Constraints returns all constraint equations
func (o *Map) Constraints() []*Constraint { return o.cons }

// model building ///////////////////////////////////////////////////////////////////////////////////

// AddElement registers the connectivity of one element and returns its
// 1-based element id
func (o *Map) AddElement(nodes ...int) (eid int, err error) {
	if o.numbered {
		return 0, chk.Err("cannot add element: equations are already numbered")
	}
	if len(nodes) < 1 {
		return 0, chk.Err("cannot add element without nodes")
	}
	for _, n := range nodes {
		if n < 1 || n > o.nnod {
			return 0, chk.Err("cannot add element: node %d is outside [1,%d]", n, o.nnod)
		}
	}
	o.enodes = append(o.enodes, append([]int(nil), nodes...))
	return len(o.enodes), nil
}

// Prescribe fixes DOF component j of a node to the time history given by fcn
// (use &fun.Zero for homogeneous conditions)
func (o *Map) Prescribe(node, j int, fcn dbf.T) error {
	return o.Constrain(node, j, fcn, nil, nil, nil)
}

// Constrain adds a multi-point constraint equation making DOF component j of
// a node a slave of the given master DOFs:
//
//	u(node,j) = fcn(t) + Σ coefs[k] * u(masterNodes[k], masterIdofs[k])
func (o *Map) Constrain(node, j int, fcn dbf.T, masterNodes, masterIdofs []int, coefs []float64) error {
	if o.numbered {
		return chk.Err("cannot add constraint: equations are already numbered")
	}
	if node < 1 || node > o.nnod || j < 1 || j > o.ndofn {
		return chk.Err("cannot constrain node=%d, j=%d: indices outside [1,%d]x[1,%d]", node, j, o.nnod, o.ndofn)
	}
	if fcn == nil {
		return chk.Err("cannot constrain node=%d, j=%d: offset function must not be nil", node, j)
	}
	if len(masterNodes) != len(masterIdofs) || len(masterNodes) != len(coefs) {
		return chk.Err("cannot constrain node=%d, j=%d: masters and coefficients must have equal lengths (%d, %d, %d)",
			node, j, len(masterNodes), len(masterIdofs), len(coefs))
	}
	slave := o.DofIndex(node, j)
	if o.dof2con[slave-1] > 0 {
		return chk.Err("cannot constrain node=%d, j=%d: DOF %d is already constrained", node, j, slave)
	}
	c := &Constraint{Dof: slave, Fcn: fcn}
	for k, mn := range masterNodes {
		if mn < 1 || mn > o.nnod || masterIdofs[k] < 1 || masterIdofs[k] > o.ndofn {
			return chk.Err("cannot constrain node=%d, j=%d: master (node=%d, j=%d) is out of range", node, j, mn, masterIdofs[k])
		}
		m := o.DofIndex(mn, masterIdofs[k])
		if m == slave {
			return chk.Err("cannot constrain node=%d, j=%d: DOF %d cannot be its own master", node, j, slave)
		}
		c.Masters = append(c.Masters, m)
		c.Coefs = append(c.Coefs, coefs[k])
	}
	o.cons = append(o.cons, c)
	o.dof2con[slave-1] = len(o.cons)
	return nil
}

// InitEquations numbers the free DOFs into global equations 1..neq and
// freezes the map. Masters of constraint equations must be free DOFs.
func (o *Map) InitEquations() error {
	if o.numbered {
		return chk.Err("equations are already numbered")
	}

	// masters must be free
	for _, c := range o.cons {
		for _, m := range c.Masters {
			if o.dof2con[m-1] > 0 {
				return chk.Err("master DOF %d of constrained DOF %d is itself constrained (chained constraints are not supported)", m, c.Dof)
			}
		}
	}

	// number free DOFs in ascending order
	o.eq = make([]int, o.ndof)
	o.neq = 0
	for d := 1; d <= o.ndof; d++ {
		if o.dof2con[d-1] == 0 {
			o.neq++
			o.eq[d-1] = o.neq
		}
	}
	if o.neq == 0 {
		return chk.Err("all %d DOFs are constrained: no equations to solve", o.ndof)
	}

	// element DOF lists
	o.edofs = make([][]int, len(o.enodes))
	for e, nodes := range o.enodes {
		dofs := make([]int, 0, len(nodes)*o.ndofn)
		for _, n := range nodes {
			for j := 1; j <= o.ndofn; j++ {
				dofs = append(dofs, o.DofIndex(n, j))
			}
		}
		o.edofs[e] = dofs
	}
	o.numbered = true
	return nil
}

// UpdateConstraints caches the offset value c0 of every constraint for the
// given time; must be called before assembly whenever t changes
func (o *Map) UpdateConstraints(t float64) {
	for _, c := range o.cons {
		c.update(t)
	}
}

// element queries //////////////////////////////////////////////////////////////////////////////////

// ElemNodes returns the node ids of an element
func (o *Map) ElemNodes(eid int) []int {
	return o.enodes[eid-1]
}

// ElemDofs returns the global DOFs of an element (valid after InitEquations)
func (o *Map) ElemDofs(eid int) []int {
	if !o.numbered {
		chk.Panic("ElemDofs requires numbered equations; call InitEquations first")
	}
	return o.edofs[eid-1]
}

// ElemEqs returns the equation numbers of an element's DOFs; constrained
// DOFs appear as 0
func (o *Map) ElemEqs(eid int) (eqs []int) {
	dofs := o.ElemDofs(eid)
	eqs = make([]int, len(dofs))
	for i, d := range dofs {
		eqs[i] = o.eq[d-1]
	}
	return
}

// NnzUpperBound returns an upper bound for the number of nonzero entries
// produced by assembling all elements, accounting for master redistribution
func (o *Map) NnzUpperBound() (nnz int) {
	for e := 1; e <= len(o.enodes); e++ {
		w := 0
		for _, d := range o.ElemDofs(e) {
			if c := o.ConstraintOf(d); c != nil {
				w += len(c.Masters)
			} else {
				w++
			}
		}
		nnz += w * w
	}
	return
}

// vector assembly //////////////////////////////////////////////////////////////////////////////////

// AssembleDof adds v to the global vector fb at the equation of DOF d,
// redistributing to the masters when d is constrained. A contribution on a
// prescribed DOF (no masters) is dropped.
func (o *Map) AssembleDof(fb []float64, d int, v float64) {
	if c := o.ConstraintOf(d); c != nil {
		for k, m := range c.Masters {
			fb[o.eq[m-1]-1] += c.Coefs[k] * v
		}
		return
	}
	fb[o.eq[d-1]-1] += v
}

// AssembleVector scatters an element vector ev into the global vector fb,
// redistributing entries of constrained DOFs to their masters
func (o *Map) AssembleVector(fb, ev []float64, eid int) {
	for i, d := range o.ElemDofs(eid) {
		o.AssembleDof(fb, d, ev[i])
	}
}

// AssembleNodeVector scatters nodal values (one per DOF component) into the
// global vector fb, redistributing constrained components to their masters
func (o *Map) AssembleNodeVector(fb, vals []float64, node int) {
	for j := 1; j <= o.ndofn; j++ {
		o.AssembleDof(fb, o.DofIndex(node, j), vals[j-1])
	}
}

// ExpandSolution maps an equation-ordered solution x (length neq) onto the
// full DOF-ordered vector u (length ndof), computing constrained DOF values
// from their masters and the cached offsets
func (o *Map) ExpandSolution(u, x []float64) {
	for d := 1; d <= o.ndof; d++ {
		if c := o.ConstraintOf(d); c != nil {
			v := c.c0
			for k, m := range c.Masters {
				v += c.Coefs[k] * x[o.eq[m-1]-1]
			}
			u[d-1] = v
			continue
		}
		u[d-1] = x[o.eq[d-1]-1]
	}
}

// String prints a summary of the map
func (o *Map) String() string {
	l := io.Sf("nnod=%d ndofn=%d ndof=%d neq=%d nele=%d ncons=%d", o.nnod, o.ndofn, o.ndof, o.neq, len(o.enodes), len(o.cons))
	for _, c := range o.cons {
		l += "\n  " + c.String()
	}
	return l
}
