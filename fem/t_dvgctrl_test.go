// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/SimenArcon/godyn/dof"
	"github.com/SimenArcon/godyn/ele"
	"github.com/SimenArcon/godyn/inp"
	"github.com/cpmech/gosl/chk"
)

// stiffspring is a one-DOF element whose residual refuses to settle whenever
// the step size exceeds dtcrit, emulating a strongly nonlinear response that
// only converges with small steps. Below dtcrit it is the linear system
// m⋅ü + k⋅u = 1.
type stiffspring struct {
	eid    int
	dofs   []int
	m, k   float64
	dtcrit float64
	calls  int
}

func (o *stiffspring) Id() int { return o.eid }

func (o *stiffspring) Matrices(em *ele.ElmMats, sol *ele.Solution, mode ele.Mode) error {
	em.GatherState(o.dofs, sol)
	em.A[ele.Mass][0][0] = o.m
	em.A[ele.Stif][0][0] = o.k
	fs := 1.0 - o.k*em.Vec[ele.VecY][0]
	if mode == ele.Dynamic && sol.Dt > o.dtcrit {
		o.calls++
		fs += math.Pow(2, float64(o.calls)) // growing out-of-balance force
	}
	em.B[0][0] = fs
	return nil
}

// dvgSystem builds a domain holding one stiffspring
func dvgSystem(tst *testing.T, cfg *inp.Config, dtcrit float64) *Domain {
	if err := cfg.PostProcess(); err != nil {
		tst.Fatalf("config failed:\n%v", err)
	}
	sam := dof.NewMap(1, 1)
	eid, err := sam.AddElement(1)
	if err != nil {
		tst.Fatalf("cannot add element:\n%v", err)
	}
	if err = sam.InitEquations(); err != nil {
		tst.Fatalf("cannot number equations:\n%v", err)
	}
	dom := NewDomain(cfg, sam)
	dom.AddElem(&stiffspring{eid: eid, dofs: sam.ElemDofs(eid), m: 10.0, k: 1000.0, dtcrit: dtcrit})
	if err = dom.SetStage(); err != nil {
		tst.Fatalf("cannot set stage:\n%v", err)
	}
	return dom
}

func Test_dvg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dvg01. divergence control halves the step size")

	// the response only converges for Δt below 0.0075, so every attempt at
	// the nominal Δt=0.01 is rejected and retried at Δt=0.005
	cfg := inp.NewConfig()
	cfg.Control.Dt = 0.01
	cfg.Control.Tf = 0.05
	cfg.Solver.DvgCtrl = true
	dom := dvgSystem(tst, cfg, 0.0075)
	sv, err := NewSolver(dom, cfg)
	if err != nil {
		tst.Errorf("cannot allocate solver:\n%v", err)
		return
	}
	tp := NewTimeStep(cfg.Control.Dt, cfg.Control.Tf)
	if err := sv.Run(tp, nil); err != nil {
		tst.Errorf("run failed:\n%v", err)
		return
	}
	chk.IntAssert(tp.Step, 10)
	chk.Scalar(tst, "final t", 1e-14, sv.Sol().T, 0.05)
	chk.IntAssert(len(sv.(*Newmark).Sum.StepTimes), 10)

	// the accepted path must match a clean run at the halved step size
	ref := inp.NewConfig()
	ref.Control.Dt = 0.005
	ref.Control.Tf = 0.05
	domr := dvgSystem(tst, ref, 0.0075)
	svr, err := NewSolver(domr, ref)
	if err != nil {
		tst.Errorf("cannot allocate solver:\n%v", err)
		return
	}
	if err := svr.Run(NewTimeStep(ref.Control.Dt, ref.Control.Tf), nil); err != nil {
		tst.Errorf("run failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "u", 1e-14, sv.Sol().Y[0], svr.Sol().Y[0])
	chk.Scalar(tst, "v", 1e-13, sv.Sol().Dydt[0], svr.Sol().Dydt[0])
	chk.Scalar(tst, "a", 1e-12, sv.Sol().D2ydt2[0], svr.Sol().D2ydt2[0])

	// without divergence control the run must stop with an error
	bad := inp.NewConfig()
	bad.Control.Dt = 0.01
	bad.Control.Tf = 0.05
	domb := dvgSystem(tst, bad, 0.0075)
	svb, err := NewSolver(domb, bad)
	if err != nil {
		tst.Errorf("cannot allocate solver:\n%v", err)
		return
	}
	if err := svb.Run(NewTimeStep(bad.Control.Dt, bad.Control.Tf), nil); err == nil {
		tst.Errorf("run must fail when iterations diverge without control")
	}
}
