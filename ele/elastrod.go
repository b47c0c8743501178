// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/SimenArcon/godyn/dof"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// ElastRod represents a structural rod (truss member, axial loads only) with
// 2 nodes in the x-y plane, simply implemented with constant stiffness and
// consistent mass matrices; i.e. no numerical integration is needed. Each
// node carries two displacement DOFs, ordered (ux0, uy0, ux1, uy1).
type ElastRod struct {

	// basic data
	eid  int   // element id
	dofs []int // global DOFs: 4 entries

	// parameters and properties
	e float64 // Young's modulus
	a float64 // cross-sectional area
	ρ float64 // density
	l float64 // length of rod

	// vectors and matrices
	t [][]float64 // [2][4] transformation matrix: global system to rod axis
	k [][]float64 // [4][4] element K matrix
	m [][]float64 // [4][4] element M matrix

	// scratchpad
	ua []float64 // [2] local axial displacements
}

// NewElastRod adds a rod over element eid of the assembly map. (xa,ya) and
// (xb,yb) are the coordinates of the two nodes
func NewElastRod(eid int, sam *dof.Map, xa, ya, xb, yb, E, A, rho float64) (o *ElastRod, err error) {
	dofs := sam.ElemDofs(eid)
	if len(dofs) != 4 {
		return nil, chk.Err("rod element %d requires two nodes with two DOFs each (%d DOFs are mapped)", eid, len(dofs))
	}
	if E <= 0 || A <= 0 {
		return nil, chk.Err("rod element %d requires positive E and A (E=%v, A=%v are incorrect)", eid, E, A)
	}
	if rho < 0 {
		return nil, chk.Err("rod element %d requires non-negative density (ρ=%v is incorrect)", eid, rho)
	}

	// geometry
	dx := xb - xa
	dy := yb - ya
	l := math.Sqrt(dx*dx + dy*dy)
	if l < 1e-14 {
		return nil, chk.Err("rod element %d has zero length", eid)
	}

	// new rod
	o = &ElastRod{eid: eid, dofs: dofs, e: E, a: A, ρ: rho, l: l}
	o.t = la.MatAlloc(2, 4)
	o.k = la.MatAlloc(4, 4)
	o.m = la.MatAlloc(4, 4)
	o.ua = make([]float64, 2)

	// global-to-local transformation matrix
	c := dx / l
	s := dy / l
	o.t[0][0] = c
	o.t[0][1] = s
	o.t[1][2] = c
	o.t[1][3] = s

	// K matrix
	α := E * A / l
	o.k[0][0] = +α * c * c
	o.k[0][1] = +α * c * s
	o.k[0][2] = -α * c * c
	o.k[0][3] = -α * c * s
	o.k[1][0] = +α * c * s
	o.k[1][1] = +α * s * s
	o.k[1][2] = -α * c * s
	o.k[1][3] = -α * s * s
	o.k[2][0] = -α * c * c
	o.k[2][1] = -α * c * s
	o.k[2][2] = +α * c * c
	o.k[2][3] = +α * c * s
	o.k[3][0] = -α * c * s
	o.k[3][1] = -α * s * s
	o.k[3][2] = +α * c * s
	o.k[3][3] = +α * s * s

	// M matrix
	β := rho * A * l / 6.0
	o.m[0][0] = 2.0 * β
	o.m[0][2] = 1.0 * β
	o.m[1][1] = 2.0 * β
	o.m[1][3] = 1.0 * β
	o.m[2][0] = 1.0 * β
	o.m[2][2] = 2.0 * β
	o.m[3][1] = 1.0 * β
	o.m[3][3] = 2.0 * β
	return
}

// Id returns the element id
func (o *ElastRod) Id() int { return o.eid }

// Length returns the length of the rod
func (o *ElastRod) Length() float64 { return o.l }

// Matrices computes the local matrices and the static residual at the state
// given by sol
func (o *ElastRod) Matrices(em *ElmMats, sol *Solution, mode Mode) error {
	em.GatherState(o.dofs, sol)
	for i := 0; i < 4; i++ {
		copy(em.A[Mass][i], o.m[i])
		copy(em.A[Stif][i], o.k[i])
		em.B[0][i] = 0
		for j := 0; j < 4; j++ {
			em.B[0][i] -= o.k[i][j] * em.Vec[VecY][j] // -fi
		}
	}
	return nil
}

// CalcSig computes the axial stress for given nodal displacements
func (o *ElastRod) CalcSig(sol *Solution) float64 {
	for i := 0; i < 2; i++ {
		o.ua[i] = 0
		for j, d := range o.dofs {
			o.ua[i] += o.t[i][j] * sol.Y[d-1]
		}
	}
	εa := (o.ua[1] - o.ua[0]) / o.l // axial strain
	return o.e * εa                 // axial stress
}
