// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the analysis control data read from a JSON file
package inp

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Data holds global analysis data
type Data struct {
	Desc    string `json:"desc"`    // description of analysis
	Encoder string `json:"encoder"` // encoder name for summaries; e.g. "gob" "json"
	Debug   bool   `json:"debug"`   // activate debugging of global matrices
	Stat    bool   `json:"stat"`    // activate statistics
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name      string `json:"name"`      // "splu", "dense" or "umfpack"
	Symmetric bool   `json:"symmetric"` // use symmetric solver
	Verbose   bool   `json:"verbose"`   // verbose?
	Timing    bool   `json:"timing"`    // show timing statistics
	Ordering  string `json:"ordering"`  // ordering scheme; e.g. "amf"
	Scaling   string `json:"scaling"`   // scaling scheme; e.g. "rcit"
}

// SolverData holds time integration and Newton iteration data
type SolverData struct {

	// nonlinear solver
	Type       string  `json:"type"`     // time integrator type: "newmark" or "genalpha"
	NmaxIt     int     `json:"nmaxit"`   // number of max iterations
	Atol       float64 `json:"atol"`     // absolute tolerance
	Rtol       float64 `json:"rtol"`     // relative tolerance
	FbTol      float64 `json:"fbtol"`    // tolerance for convergence on fb
	FbMin      float64 `json:"fbmin"`    // minimum value of fb
	DvgCtrl    bool    `json:"dvgctrl"`  // use divergence control
	NdvgMax    int     `json:"ndvgmax"`  // max number of continued divergence
	CteTg      bool    `json:"ctetg"`    // use constant tangent (modified Newton) during iterations
	CteLHS     bool    `json:"ctelhs"`   // reuse factorised LHS across steps (linear problem, constant Δt)
	ShowR      bool    `json:"showr"`    // show residual
	NumThreads int     `json:"nthreads"` // number of goroutines for the element assembly loop

	// transient analyses
	DtMin float64 `json:"dtmin"` // minimum value of Dt allowed by divergence control
	Theta float64 `json:"theta"` // θ-method coefficient for first-order equations

	// dynamics
	Theta1 float64 `json:"theta1"` // Newmark's method parameter γ
	Theta2 float64 `json:"theta2"` // Newmark's method parameter 2β
	HHT    bool    `json:"hht"`    // use Hilber-Hughes-Taylor method
	HHTalp float64 `json:"hhtalp"` // HHT α parameter
	AlpM   float64 `json:"alpm"`   // generalised-α mass averaging parameter αm
	AlpF   float64 `json:"alpf"`   // generalised-α force averaging parameter αf
	RayM   float64 `json:"raym"`   // Rayleigh damping mass-proportional coefficient
	RayK   float64 `json:"rayk"`   // Rayleigh damping stiffness-proportional coefficient

	// combination of coefficients
	ThCombo1 bool `json:"thcombo1"` // use θ=2/3, θ1=5/6 and θ2=8/9 to avoid oscillations

	// constants
	Eps float64 `json:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 // iterations tolerance
}

// TimeControl holds data for defining the analysis time stepping
type TimeControl struct {
	Tf     float64 `json:"tf"`     // final time
	Dt     float64 `json:"dt"`     // time step size (if constant)
	DtOut  float64 `json:"dtout"`  // time step size for output
	DtFcn  string  `json:"dtfcn"`  // name of function defining time step size
	DtoFcn string  `json:"dtofcn"` // name of function defining output time step size

	// derived
	DtFunc  fun.TimeSpace // time step function
	DtoFunc fun.TimeSpace // output time step function
}

// Config holds all analysis control data
type Config struct {
	Data      Data        `json:"data"`      // global data
	Functions FuncsData   `json:"functions"` // time functions for loads, prescribed values and Δt
	LinSol    LinSolData  `json:"linsol"`    // linear solver data
	Solver    SolverData  `json:"solver"`    // time integration and iteration data
	Control   TimeControl `json:"control"`   // time control
}

// NewConfig returns a configuration with default values, ready for
// programmatic setup (no file involved)
func NewConfig() (o *Config) {
	o = new(Config)
	o.Solver.SetDefault()
	o.LinSol.SetDefault()
	return
}

// ReadConfig reads all analysis control data from a JSON file
func ReadConfig(fnpath string) (o *Config, err error) {

	// new config with default values
	o = NewConfig()

	// read file
	b, err := io.ReadFile(fnpath)
	if err != nil {
		return nil, chk.Err("cannot read analysis control file %q", fnpath)
	}

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal analysis control file %q:\n%v", fnpath, err)
	}

	// derived quantities
	err = o.PostProcess()
	if err != nil {
		return nil, chk.Err("cannot post-process data from file %q:\n%v", fnpath, err)
	}
	return
}

// SetDefault sets default values
func (o *LinSolData) SetDefault() {
	o.Name = "splu"
	o.Ordering = "amf"
	o.Scaling = "rcit"
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Type = "newmark"
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20
	o.NumThreads = 1

	// transient analyses
	o.DtMin = 1e-8
	o.Theta = 0.5

	// dynamics
	o.Theta1 = 0.5
	o.Theta2 = 0.5
	o.HHTalp = -0.1
	o.AlpM = 1.0
	o.AlpF = 0.9

	// constants
	o.Eps = 1e-16
}

// PostProcess computes derived quantities after reading the json data
func (o *SolverData) PostProcess() {

	// combination of coefficients for transient analyses
	if o.ThCombo1 {
		o.Theta = 2.0 / 3.0
		o.Theta1 = 5.0 / 6.0
		o.Theta2 = 8.0 / 9.0
	}

	// iterations tolerance
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
}

// PostProcess computes derived quantities and checks the input data
func (o *Config) PostProcess() (err error) {

	// solver constants
	o.Solver.PostProcess()

	// final time and time step size
	if o.Control.Tf < 1e-14 {
		o.Control.Tf = 1
	}
	if o.Control.DtFcn == "" {
		if o.Control.Dt < 1e-14 {
			o.Control.Dt = 1
		}
		o.Control.DtFunc = &fun.Cte{C: o.Control.Dt}
	} else {
		o.Control.DtFunc, err = o.Functions.Get(o.Control.DtFcn)
		if err != nil {
			return
		}
		o.Control.Dt = o.Control.DtFunc.F(0, nil)
	}

	// output time step size
	if o.Control.DtoFcn == "" {
		if o.Control.DtOut < 1e-14 {
			o.Control.DtOut = o.Control.Dt
			o.Control.DtoFunc = o.Control.DtFunc
		} else {
			if o.Control.DtOut < o.Control.Dt {
				o.Control.DtOut = o.Control.Dt
			}
			o.Control.DtoFunc = &fun.Cte{C: o.Control.DtOut}
		}
	} else {
		o.Control.DtoFunc, err = o.Functions.Get(o.Control.DtoFcn)
		if err != nil {
			return
		}
		o.Control.DtOut = o.Control.DtoFunc.F(0, nil)
	}
	return o.Validate()
}

// Validate checks consistency of the control data
func (o *Config) Validate() error {
	switch o.Solver.Type {
	case "newmark", "genalpha":
	default:
		return chk.Err("integrator type %q is not available; it must be \"newmark\" or \"genalpha\"", o.Solver.Type)
	}
	if o.LinSol.Name == "" {
		return chk.Err("linear solver name must not be empty")
	}
	if o.Solver.NmaxIt < 1 {
		return chk.Err("nmaxit must be at least 1. nmaxit=%d is invalid", o.Solver.NmaxIt)
	}
	if o.Solver.NumThreads < 1 {
		return chk.Err("nthreads must be at least 1. nthreads=%d is invalid", o.Solver.NumThreads)
	}
	if o.Solver.Rtol < o.Solver.Eps {
		return chk.Err("rtol must be greater than machine epsilon. rtol=%g is invalid", o.Solver.Rtol)
	}
	if o.Control.Dt < o.Solver.DtMin {
		return chk.Err("dt must be at least dtmin. dt=%g, dtmin=%g", o.Control.Dt, o.Solver.DtMin)
	}
	return nil
}

// String prints the configuration in JSON format
func (o *Config) String() string {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
