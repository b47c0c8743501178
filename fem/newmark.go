// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/SimenArcon/godyn/ele"
	"github.com/SimenArcon/godyn/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func init() {
	allocators["newmark"] = func() Solver { return new(Newmark) }
}

// Newmark implements the Newmark-β time integrator with Newton iterations.
// It also carries the HHT and generalised-α behaviour: when the coefficients
// define αf or αm averaging, elements are evaluated at a blended state.
type Newmark struct {

	// input
	dom *Domain
	cfg *inp.Config

	// state machine
	status  Status
	failure error // sticky error behind a Failed status

	// factorisation reuse
	newLHS bool    // the Newton matrix changed; factorise again
	lastDt float64 // step size of the last computed coefficients

	// iteration results
	nit int // Newton iterations of the last solved step

	// workspaces
	yeq  []float64     // values of the free DOFs in equation order
	prev *ele.Solution // state at the start of the step (αf/αm averaging)
	bl   *ele.Solution // averaged state handed to the elements

	// debugging
	dbgKb DebugKb_t

	// results
	Sum *Summary
}

// Init binds the integrator to a staged domain
func (o *Newmark) Init(dom *Domain, cfg *inp.Config) (err error) {
	if dom.Sol == nil || dom.EqSys == nil {
		return chk.Err("domain is not staged; call SetStage first")
	}
	if cfg.Solver.Itol <= 0 {
		return chk.Err("configuration is incomplete; call PostProcess after setting the data")
	}
	o.dom = dom
	o.cfg = cfg
	o.status = Initial
	o.newLHS = true
	o.yeq = make([]float64, dom.Sam.Neq())
	if dom.Sol.DynCfs.Blending() {
		o.prev = ele.NewSolution(dom.Sam.Ndof(), dom.Sol.Steady, dom.Sol.DynCfs)
		o.bl = ele.NewSolution(dom.Sam.Ndof(), dom.Sol.Steady, dom.Sol.DynCfs)
	}
	o.Sum = new(Summary)
	return
}

// Sol returns the current state
func (o *Newmark) Sol() *ele.Solution { return o.dom.Sol }

// Status returns the stage of the integrator
func (o *Newmark) Status() Status { return o.status }

// Niter returns the number of Newton iterations of the last solved step
func (o *Newmark) Niter() int { return o.nit }

// InitAcc solves M⋅δa = fb for the accelerations consistent with the initial
// values, velocities and loads at time Sol.T. DOFs with prescribed motion
// keep the acceleration of their histories.
func (o *Newmark) InitAcc() (err error) {
	if o.status != Initial {
		return chk.Err("initial accelerations must be computed once, before any step (status is %v)", o.status)
	}
	sol := o.dom.Sol
	eqs := o.dom.EqSys
	dat := &o.cfg.Solver

	// constrained DOFs at the initial time
	o.dom.Sam.UpdateConstraints(sol.T)
	o.dom.initSlaveDofs()

	// assemble mass matrix and initial out-of-balance force
	eqs.Initialize(true)
	if err = eqs.AssembleAll(o.dom.Elems, sol, ele.MassOnly, true, dat.NumThreads); err != nil {
		return
	}
	o.dom.PtLoads.AddToRhs(eqs.Fb, sol.T)

	// solve for the acceleration correction
	if err = eqs.Solve(true); err != nil {
		return chk.Err("cannot solve for initial accelerations:\n%v", err)
	}
	for d := 1; d <= o.dom.Sam.Ndof(); d++ {
		if eq := o.dom.Sam.Eq(d); eq > 0 {
			sol.D2ydt2[d-1] += eqs.Wb[eq-1]
		}
	}
	o.dom.initSlaveDofs()

	// the dynamic matrix still needs its own factorisation
	o.newLHS = true
	o.status = AtStepStart
	return
}

// AdvanceStep moves to the next time, refreshes the integration coefficients
// when the step size changed and applies the predictor. It returns false
// when the window is exhausted or the integrator failed.
func (o *Newmark) AdvanceStep(tp *TimeStep) bool {
	if o.status == Initial || o.status == Failed {
		return false
	}
	if !tp.Advance() {
		return false
	}
	sol := o.dom.Sol
	dc := sol.DynCfs

	// save the step-start state when αf/αm averaging needs it
	if dc.Blending() {
		o.prev.CopyFrom(sol)
	}

	// new coefficients when the step size changes
	if tp.Dt != o.lastDt {
		if err := dc.CalcBoth(tp.Dt); err != nil {
			o.failure = chk.Err("cannot compute integration coefficients:\n%v", err)
			o.status = Failed
			return false
		}
		o.lastDt = tp.Dt
		o.newLHS = true
	}
	sol.T = tp.T
	sol.Dt = tp.Dt

	// starred variables from the converged state
	β1, β2 := dc.GetBet1(), dc.GetBet2()
	α1, α2, α3 := dc.GetAlp1(), dc.GetAlp2(), dc.GetAlp3()
	α4, α5, α6 := dc.GetAlp4(), dc.GetAlp5(), dc.GetAlp6()
	for i := 0; i < len(sol.Y); i++ {
		y, v, a := sol.Y[i], sol.Dydt[i], sol.D2ydt2[i]
		sol.Psi[i] = β1*y + β2*v
		sol.Zet[i] = α1*y + α2*v + α3*a
		sol.Chi[i] = α4*y + α5*v + α6*a
		sol.ΔY[i] = 0
	}

	// prescribed values at the new time
	o.dom.Sam.UpdateConstraints(tp.T)
	o.dom.updateSlaveDofs()

	// trial velocities and accelerations
	for i := 0; i < len(sol.Y); i++ {
		sol.Dydt[i] = α4*sol.Y[i] - sol.Chi[i]
		sol.D2ydt2[i] = α1*sol.Y[i] - sol.Zet[i]
	}
	o.status = Predicted
	return true
}

// SolveStep runs Newton iterations on the current trial state
func (o *Newmark) SolveStep(tp *TimeStep) Status {
	if o.status != Predicted {
		o.failure = chk.Err("iterations need a trial state; call InitAcc and AdvanceStep first (status is %v)", o.status)
		o.status = Failed
		return o.status
	}
	sol := o.dom.Sol
	dc := sol.DynCfs
	eqs := o.dom.EqSys
	dat := &o.cfg.Solver
	α1, α4 := dc.GetAlp1(), dc.GetAlp4()

	// auxiliary variables
	var it int
	var largFb, largFb0, Lδu float64
	var prevFb, prevLδu float64
	diverging := false

	// message
	if dat.ShowR {
		io.Pf("\n%13s%4s%23s%23s\n", "t", "it", "largFb", "Lδu")
		defer func() {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", sol.T, it, largFb, Lδu)
		}()
	}

	// iterations
	for it = 0; it < dat.NmaxIt; it++ {

		// state handed to the elements
		esol := o.evalState()

		// assemble the Newton matrix?
		doAsmFact := it == 0 || !dat.CteTg
		if dat.CteLHS && !o.newLHS {
			doAsmFact = false
		}

		// assemble out-of-balance force, and the Newton matrix if needed
		eqs.Initialize(doAsmFact)
		if err := eqs.AssembleAll(o.dom.Elems, esol, ele.Dynamic, doAsmFact, dat.NumThreads); err != nil {
			o.failure = err
			o.status = Failed
			return o.status
		}
		o.dom.PtLoads.AddToRhs(eqs.Fb, esol.T)

		// debug
		if doAsmFact && o.dbgKb != nil {
			o.dbgKb(o.dom, it)
		}

		// find largest absolute component of fb
		largFb = la.VecLargest(eqs.Fb, 1)

		// save residual
		if o.cfg.Data.Stat && o.Sum != nil {
			o.Sum.Resids.Append(it == 0, largFb)
		}

		// check largFb value
		if it == 0 {
			largFb0 = largFb
		} else {
			if largFb < dat.FbTol*largFb0 { // converged on fb
				break
			}
			if largFb < dat.FbMin { // converged with smallest value of fb
				break
			}
		}

		// check divergence on fb
		if it > 1 && dat.DvgCtrl {
			if largFb > prevFb {
				diverging = true
				break
			}
		}
		prevFb = largFb

		// solve for the corrections δy
		if err := eqs.Solve(doAsmFact); err != nil {
			o.failure = chk.Err("cannot solve Newton system at t=%g:\n%v", sol.T, err)
			o.status = Failed
			return o.status
		}
		o.newLHS = false

		// update values of the free DOFs, then the constrained ones
		for d := 1; d <= o.dom.Sam.Ndof(); d++ {
			if eq := o.dom.Sam.Eq(d); eq > 0 {
				δ := eqs.Wb[eq-1]
				sol.Y[d-1] += δ
				sol.ΔY[d-1] += δ
				o.yeq[eq-1] = sol.Y[d-1]
			}
		}
		o.dom.updateSlaveDofs()

		// corrector: velocities and accelerations
		for i := 0; i < len(sol.Y); i++ {
			sol.Dydt[i] = α4*sol.Y[i] - sol.Chi[i]
			sol.D2ydt2[i] = α1*sol.Y[i] - sol.Zet[i]
		}

		// check convergence on δy
		Lδu = la.VecRmsErr(eqs.Wb, dat.Atol, dat.Rtol, o.yeq)
		if dat.ShowR {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", sol.T, it, largFb, Lδu)
		}
		if Lδu < dat.Itol {
			break
		}

		// check divergence on Lδu
		if it > 1 && dat.DvgCtrl {
			if Lδu > prevLδu {
				diverging = true
				break
			}
		}
		prevLδu = Lδu
	}

	// iterations diverging or exhausted
	o.nit = it
	if diverging {
		o.status = Diverged
		return o.status
	}
	if it == dat.NmaxIt {
		io.PfMag("max number of iterations reached: it = %d\n", it)
		o.status = Diverged
		return o.status
	}
	o.status = Converged
	return o.status
}

// evalState returns the state the elements evaluate at: the solution itself
// for plain Newmark, or the αf/αm averaged copy for HHT and generalised-α
func (o *Newmark) evalState() *ele.Solution {
	sol := o.dom.Sol
	dc := sol.DynCfs
	if !dc.Blending() {
		return sol
	}
	αf, αm := dc.GetAlpF(), dc.GetAlpM()
	o.bl.T = o.prev.T + αf*sol.Dt
	o.bl.Dt = sol.Dt
	for i := 0; i < len(sol.Y); i++ {
		o.bl.Y[i] = (1.0-αf)*o.prev.Y[i] + αf*sol.Y[i]
		o.bl.Dydt[i] = (1.0-αf)*o.prev.Dydt[i] + αf*sol.Dydt[i]
		o.bl.D2ydt2[i] = (1.0-αm)*o.prev.D2ydt2[i] + αm*sol.D2ydt2[i]
	}
	return o.bl
}

// Run integrates the whole window. With divergence control on, a diverging
// step is restored and retried with half the step size; NdvgMax consecutive
// rejections stop the run.
func (o *Newmark) Run(tp *TimeStep, dbgKb DebugKb_t) (err error) {

	// auxiliary variables
	o.dbgKb = dbgKb
	md := 1.0    // time step multiplier if divergence control is on
	ndiverg := 0 // number of consecutive diverging steps
	dat := &o.cfg.Solver
	ctl := &o.cfg.Control

	// initial accelerations
	if o.status == Initial {
		if err = o.InitAcc(); err != nil {
			return
		}
	}

	// first output
	if o.Sum != nil {
		o.Sum.OutTimes = append(o.Sum.OutTimes, tp.T)
	}
	tout := tp.T + ctl.DtoFunc.F(tp.T, nil)

	// time loop
	for {

		// check for continued divergence
		if ndiverg >= dat.NdvgMax {
			return chk.Err("continuous divergence after %d steps reached", ndiverg)
		}

		// time increment
		tp.Dt = ctl.DtFunc.F(tp.T, nil) * md
		if tp.Dt < dat.DtMin {
			if md < 1 {
				return chk.Err("time increment is too small: %g < %g", tp.Dt, dat.DtMin)
			}
			return nil
		}

		// advance with the predictor; stops at the end of the window
		if !o.AdvanceStep(tp) {
			if o.status == Failed {
				return o.failure
			}
			break
		}

		// message
		if io.Verbose && !dat.ShowR && !o.cfg.Data.Debug {
			io.PfWhite("%30.15f\r", tp.T)
		}

		// backup solution if divergence control is on
		if dat.DvgCtrl {
			o.dom.backup()
		}

		// iterations
		switch o.SolveStep(tp) {
		case Converged:
			ndiverg = 0
			md = 1.0
		case Diverged:
			if !dat.DvgCtrl {
				return chk.Err("iterations diverged at t=%g", tp.T)
			}
			if io.Verbose {
				io.Pfred(". . . iterations diverging (%2d) . . .\n", ndiverg+1)
			}
			o.dom.restore()
			tp.T -= tp.Dt
			tp.Step--
			o.status = AtStepStart
			md *= 0.5
			ndiverg++
			continue
		default:
			return o.failure
		}

		// record the accepted step
		if o.Sum != nil {
			o.Sum.StepTimes = append(o.Sum.StepTimes, tp.T)
			o.Sum.StepDts = append(o.Sum.StepDts, tp.Dt)
			o.Sum.StepNits = append(o.Sum.StepNits, o.nit)
		}

		// perform output
		if tp.T >= tout {
			if o.Sum != nil {
				o.Sum.OutTimes = append(o.Sum.OutTimes, tp.T)
			}
			tout += ctl.DtoFunc.F(tp.T, nil)
		}
	}

	// final output time
	if o.Sum != nil {
		if n := len(o.Sum.OutTimes); n == 0 || o.Sum.OutTimes[n-1] < tp.T {
			o.Sum.OutTimes = append(o.Sum.OutTimes, tp.T)
		}
	}
	return
}
