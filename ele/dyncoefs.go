// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/SimenArcon/godyn/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// DynCoefs calculates and holds the coefficients of the implicit time
// integrators: the θ-method for first-order (transient) equations and the
// Newmark / HHT / generalised-α family for second-order (dynamic) equations.
//
// The Newmark parameters are encoded as θ1 = γ and θ2 = 2β. The HHT method
// and the generalised-α method reuse the Newmark machinery with derived
// values of θ1 and θ2 plus the averaging parameters αf and αm; plain Newmark
// corresponds to αf = αm = 1.
type DynCoefs struct {

	// input
	θ      float64 // θ-method parameter
	θ1, θ2 float64 // Newmark parameters: θ1=γ, θ2=2β
	hht    bool    // use Hilber-Hughes-Taylor parametrisation
	α      float64 // HHT α parameter
	αf, αm float64 // generalised-α averaging parameters
	rayM   float64 // Rayleigh damping mass-proportional coefficient
	rayK   float64 // Rayleigh damping stiffness-proportional coefficient
	hmin   float64 // minimum time step size

	// derived
	β1, β2                 float64 // transient coefficients
	α1, α2, α3, α4, α5, α6 float64 // dynamic coefficients
	h                      float64 // current time step size
}

// Init initialises the coefficients from the solver data and checks the
// unconditional stability requirement θ2 ≥ θ1 ≥ 1/2
func (o *DynCoefs) Init(dat *inp.SolverData) (err error) {

	// θ-method
	o.θ = dat.Theta
	if o.θ < 1e-5 || o.θ > 1.0 {
		return chk.Err("θ-method requires 1e-5 ≤ θ ≤ 1.0 (θ=%v is incorrect)", o.θ)
	}

	// Rayleigh damping and minimum step size
	o.rayM, o.rayK = dat.RayM, dat.RayK
	o.hmin = utl.Max(dat.DtMin, 1e-14)

	// dynamic coefficients
	switch {

	// generalised-α: derive θ1 and θ2 from the spectral shift α = αf - αm
	case dat.Type == "genalpha":
		o.αm, o.αf = dat.AlpM, dat.AlpF
		if o.αf < 0.5 || o.αf > o.αm {
			return chk.Err("generalised-α method requires 1/2 ≤ αf ≤ αm (αf=%v, αm=%v are incorrect)", o.αf, o.αm)
		}
		α := o.αf - o.αm
		o.θ1 = (1.0 - 2.0*α) / 2.0
		o.θ2 = (1.0 - α) * (1.0 - α) / 2.0

	// HHT: a single α gives the averaging and the Newmark parameters
	case dat.HHT:
		o.hht = true
		o.α = dat.HHTalp
		if o.α < -1.0/3.0 || o.α > 0.0 {
			return chk.Err("HHT method requires -1/3 ≤ α ≤ 0 (α=%v is incorrect)", o.α)
		}
		o.θ1 = (1.0 - 2.0*o.α) / 2.0
		o.θ2 = (1.0 - o.α) * (1.0 - o.α) / 2.0
		o.αf = 1.0 + o.α
		o.αm = 1.0

	// plain Newmark
	default:
		o.θ1, o.θ2 = dat.Theta1, dat.Theta2
		o.αm, o.αf = 1.0, 1.0
	}

	// unconditional stability requirement
	if o.θ1 < 0.5 {
		return chk.Err("θ1 (γ) must not be smaller than 1/2 (θ1=%v is incorrect)", o.θ1)
	}
	if o.θ2 < o.θ1 {
		return chk.Err("θ2 (2β) must not be smaller than θ1 (θ2=%v, θ1=%v are incorrect)", o.θ2, o.θ1)
	}
	return
}

// CalcBoth computes the coefficients of both the θ-method and the Newmark
// method for a new time step size Δt
func (o *DynCoefs) CalcBoth(Δt float64) (err error) {

	// check
	h := Δt
	if h < o.hmin {
		return chk.Err("time step size %g is smaller than the allowed minimum %g", h, o.hmin)
	}

	// θ-method
	o.β1 = 1.0 / (o.θ * h)
	o.β2 = (1.0 - o.θ) / o.θ

	// second-order systems
	o.α1 = 2.0 / (o.θ2 * h * h)
	o.α2 = 2.0 / (o.θ2 * h)
	o.α3 = 1.0/o.θ2 - 1.0
	o.α4 = 2.0 * o.θ1 / (o.θ2 * h)
	o.α5 = 2.0*o.θ1/o.θ2 - 1.0
	o.α6 = (o.θ1/o.θ2 - 1.0) * h
	o.h = h
	return
}

// GetBet1 returns β1 coefficient
func (o *DynCoefs) GetBet1() float64 { return o.β1 }

// GetBet2 returns β2 coefficient
func (o *DynCoefs) GetBet2() float64 { return o.β2 }

// GetAlp1 returns α1 coefficient
func (o *DynCoefs) GetAlp1() float64 { return o.α1 }

// GetAlp2 returns α2 coefficient
func (o *DynCoefs) GetAlp2() float64 { return o.α2 }

// GetAlp3 returns α3 coefficient
func (o *DynCoefs) GetAlp3() float64 { return o.α3 }

// GetAlp4 returns α4 coefficient
func (o *DynCoefs) GetAlp4() float64 { return o.α4 }

// GetAlp5 returns α5 coefficient
func (o *DynCoefs) GetAlp5() float64 { return o.α5 }

// GetAlp6 returns α6 coefficient
func (o *DynCoefs) GetAlp6() float64 { return o.α6 }

// GetAlpF returns the force averaging parameter αf
func (o *DynCoefs) GetAlpF() float64 { return o.αf }

// GetAlpM returns the mass averaging parameter αm
func (o *DynCoefs) GetAlpM() float64 { return o.αm }

// GetRayM returns the Rayleigh damping mass-proportional coefficient
func (o *DynCoefs) GetRayM() float64 { return o.rayM }

// GetRayK returns the Rayleigh damping stiffness-proportional coefficient
func (o *DynCoefs) GetRayK() float64 { return o.rayK }

// Blending tells whether the state used by elements differs from the new
// state; i.e. whether αf or αm are not one
func (o *DynCoefs) Blending() bool {
	return o.αf != 1.0 || o.αm != 1.0
}
