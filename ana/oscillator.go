// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ana implements analytical solutions
package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// StepOscillator computes the response of the single mass-spring-dashpot
//
//	m⋅ü + c⋅u̇ + k⋅u = F⋅H(t)      u(0) = u̇(0) = 0
//
// loaded by a force step at t=0. Damping must be subcritical (ζ < 1).
type StepOscillator struct {

	// input
	M float64 // mass
	K float64 // spring stiffness
	C float64 // dashpot coefficient
	F float64 // force amplitude

	// derived
	ωn  float64 // natural frequency
	ωd  float64 // damped frequency
	ζ   float64 // damping ratio
	ust float64 // static displacement F/k
}

// Init initialises the derived quantities
func (o *StepOscillator) Init(m, k, c, F float64) {
	if m < 1e-14 || k < 1e-14 {
		chk.Panic("mass and stiffness must be positive. m=%g, k=%g is invalid", m, k)
	}
	o.M, o.K, o.C, o.F = m, k, c, F
	o.ωn = math.Sqrt(k / m)
	o.ζ = c / (2.0 * math.Sqrt(k*m))
	if o.ζ >= 1 {
		chk.Panic("damping must be subcritical. ζ=%g is invalid", o.ζ)
	}
	o.ωd = o.ωn * math.Sqrt(1.0-o.ζ*o.ζ)
	o.ust = F / k
}

// U returns the displacement at time t
func (o StepOscillator) U(t float64) float64 {
	s, c := math.Sincos(o.ωd * t)
	return o.ust * (1.0 - math.Exp(-o.ζ*o.ωn*t)*(c+o.ζ*o.ωn/o.ωd*s))
}

// V returns the velocity at time t
func (o StepOscillator) V(t float64) float64 {
	return o.ust * o.ωn * o.ωn / o.ωd * math.Exp(-o.ζ*o.ωn*t) * math.Sin(o.ωd*t)
}

// A returns the acceleration at time t, from the balance of forces
func (o StepOscillator) A(t float64) float64 {
	return (o.F - o.C*o.V(t) - o.K*o.U(t)) / o.M
}

// CheckState compares a numerical state at time t against the closed form
func (o StepOscillator) CheckState(tst *testing.T, t, u, v, a, tolu, tolv, tola float64) {
	chk.Scalar(tst, io.Sf("u @ t=%g", t), tolu, u, o.U(t))
	chk.Scalar(tst, io.Sf("v @ t=%g", t), tolv, v, o.V(t))
	chk.Scalar(tst, io.Sf("a @ t=%g", t), tola, a, o.A(t))
}
