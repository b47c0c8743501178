// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the current solution: the primary variables and their time
// derivatives, plus the star variables of the implicit integrators. All
// vectors are in full DOF order; i.e. the value of (one-based) DOF d sits at
// index d-1. Constrained DOFs carry their prescribed or tied values, thus
// elements can gather local states directly, without equation bookkeeping.
type Solution struct {

	// current state
	T      float64   // current time
	Y      []float64 // primary variables
	Dydt   []float64 // dy/dt
	D2ydt2 []float64 // d²y/dt²

	// auxiliary
	Dt  float64   // current time increment
	ΔY  []float64 // total increment of the current step
	Psi []float64 // t1 star vars; e.g. ψ* = β1.y + β2.dydt
	Zet []float64 // t2 star vars; e.g. ζ* = α1.y + α2.v + α3.a
	Chi []float64 // t2 star vars; e.g. χ* = α4.y + α5.v + α6.a

	// problem definition and constants
	Steady bool      // steady simulation: skip inertia terms
	DynCfs *DynCoefs // coefficients for dynamics
}

// NewSolution allocates a solution state for ndof unknowns
func NewSolution(ndof int, steady bool, dc *DynCoefs) (o *Solution) {
	o = new(Solution)
	o.Y = make([]float64, ndof)
	o.Dydt = make([]float64, ndof)
	o.D2ydt2 = make([]float64, ndof)
	o.ΔY = make([]float64, ndof)
	o.Psi = make([]float64, ndof)
	o.Zet = make([]float64, ndof)
	o.Chi = make([]float64, ndof)
	o.Steady = steady
	o.DynCfs = dc
	return
}

// Ndof returns the number of degrees of freedom held by this state
func (o *Solution) Ndof() int { return len(o.Y) }

// Reset clears time and all state vectors
func (o *Solution) Reset() {
	o.T = 0
	o.Dt = 0
	for i := 0; i < len(o.Y); i++ {
		o.Y[i] = 0
		o.Dydt[i] = 0
		o.D2ydt2[i] = 0
		o.ΔY[i] = 0
		o.Psi[i] = 0
		o.Zet[i] = 0
		o.Chi[i] = 0
	}
}

// CopyFrom copies the state of another solution. Both must have been
// allocated with the same number of DOFs.
func (o *Solution) CopyFrom(b *Solution) {
	o.T = b.T
	o.Dt = b.Dt
	copy(o.Y, b.Y)
	copy(o.Dydt, b.Dydt)
	copy(o.D2ydt2, b.D2ydt2)
	copy(o.ΔY, b.ΔY)
	copy(o.Psi, b.Psi)
	copy(o.Zet, b.Zet)
	copy(o.Chi, b.Chi)
}
