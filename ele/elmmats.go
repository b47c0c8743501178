// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/gosl/la"

// Slots of the matrices in ElmMats.A. Elements fill Mass, Stif and Damp; the
// integrator composes the effective Newton matrix into Sys.
const (
	Sys  = iota // composed effective system matrix
	Mass        // mass matrix
	Stif        // stiffness matrix
	Damp        // damping matrix (physical dampers only; Rayleigh damping is composed)
	nmats
)

// Slots of the local state vectors in ElmMats.Vec, gathered by elements from
// the solution before computing matrices.
const (
	VecY = iota // primary variables
	VecV        // first time derivatives
	VecA        // second time derivatives
	nvecs
)

// ElmMats is the workspace holding the local matrices and vectors of one
// element during assembly. One workspace serves many elements in sequence and
// each assembly goroutine owns its own instance.
type ElmMats struct {
	A   [][][]float64 // local matrices; e.g. A[Mass] is the mass matrix
	B   [][]float64   // right-hand side vectors; B[0] is the static residual
	Vec [][]float64   // local state vectors; e.g. Vec[VecV] holds dy/dt
	nu  int           // current local dimension
}

// NewElmMats allocates a workspace with the standard slots
func NewElmMats() (o *ElmMats) {
	o = new(ElmMats)
	o.A = make([][][]float64, nmats)
	o.B = make([][]float64, 1)
	o.Vec = make([][]float64, nvecs)
	return
}

// Nu returns the current local dimension
func (o *ElmMats) Nu() int { return o.nu }

// Resize adjusts all slots to nu×nu matrices and nu-vectors and clears them.
// It does not reallocate when nu is unchanged.
func (o *ElmMats) Resize(nu int) {
	if nu == o.nu {
		o.Zero()
		return
	}
	for k := range o.A {
		o.A[k] = la.MatAlloc(nu, nu)
	}
	for k := range o.B {
		o.B[k] = make([]float64, nu)
	}
	for k := range o.Vec {
		o.Vec[k] = make([]float64, nu)
	}
	o.nu = nu
}

// Zero clears all matrices and vectors
func (o *ElmMats) Zero() {
	for k := range o.A {
		for i := 0; i < o.nu; i++ {
			for j := 0; j < o.nu; j++ {
				o.A[k][i][j] = 0
			}
		}
	}
	for k := range o.B {
		for i := 0; i < o.nu; i++ {
			o.B[k][i] = 0
		}
	}
	for k := range o.Vec {
		for i := 0; i < o.nu; i++ {
			o.Vec[k][i] = 0
		}
	}
}

// GatherState fills the Vec slots with the local values of the given DOFs
// taken from the solution state
func (o *ElmMats) GatherState(dofs []int, sol *Solution) {
	for i, d := range dofs {
		o.Vec[VecY][i] = sol.Y[d-1]
		o.Vec[VecV][i] = sol.Dydt[d-1]
		o.Vec[VecA][i] = sol.D2ydt2[d-1]
	}
}
