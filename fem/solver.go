// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements implicit time integration of semi-discrete systems
//
//	M⋅a + C⋅v + fint(y) = fext(t)
//
// assembled over the numbered maps of package dof. The Newmark and
// generalised-α families are available; both solve each step with Newton
// iterations over the sparse global system.
package fem

import (
	"github.com/SimenArcon/godyn/ele"
	"github.com/SimenArcon/godyn/inp"
	"github.com/cpmech/gosl/chk"
)

// Status reports the stage of an integrator within a time step
type Status int

const (
	Initial     Status = iota // before initial accelerations are computed
	AtStepStart               // consistent state at the beginning of a step
	Predicted                 // trial state set; ready for iterations
	Converged                 // iterations converged
	Diverged                  // iterations diverging or exhausted
	Failed                    // unrecoverable error; see the run error
)

// String returns the name of a status
func (o Status) String() string {
	switch o {
	case Initial:
		return "initial"
	case AtStepStart:
		return "at-step-start"
	case Predicted:
		return "predicted"
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	case Failed:
		return "failed"
	}
	chk.Panic("status %d is invalid", int(o))
	return ""
}

// DebugKb_t defines a callback to debug the Newton matrix. It runs right
// after each assembly of the matrix, before the factorisation.
type DebugKb_t func(d *Domain, it int)

// Solver is a time integrator operating on a staged domain
type Solver interface {

	// Init binds the integrator to a domain. The configuration must be
	// post-processed and the domain staged.
	Init(dom *Domain, cfg *inp.Config) error

	// InitAcc solves M⋅a = fb for the accelerations consistent with the
	// initial values, velocities and loads. It must run once, before any
	// step.
	InitAcc() error

	// AdvanceStep moves to the next time and applies the predictor. It
	// returns false when the window is exhausted or the integrator failed.
	AdvanceStep(tp *TimeStep) bool

	// SolveStep runs Newton iterations on the current trial state
	SolveStep(tp *TimeStep) Status

	// Run integrates the whole window, with automatic step halving when
	// divergence control is on. dbgKb may be nil.
	Run(tp *TimeStep, dbgKb DebugKb_t) error

	// Sol returns the current state
	Sol() *ele.Solution
}

// allocators maps integrator names to allocators
var allocators = make(map[string]func() Solver)

// NewSolver returns an initialised integrator by the name in the
// configuration; e.g. "newmark" or "genalpha"
func NewSolver(dom *Domain, cfg *inp.Config) (Solver, error) {
	alloc, ok := allocators[cfg.Solver.Type]
	if !ok {
		return nil, chk.Err("cannot find solver named %q", cfg.Solver.Type)
	}
	s := alloc()
	if err := s.Init(dom, cfg); err != nil {
		return nil, err
	}
	return s, nil
}
