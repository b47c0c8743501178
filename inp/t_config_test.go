// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_conf01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conf01. read configuration file")

	cfg, err := ReadConfig("data/oscillator.dyn")
	if err != nil {
		tst.Errorf("ReadConfig failed:\n%v", err)
		return
	}
	io.Pforan("%v\n", cfg)

	chk.String(tst, cfg.Data.Desc, "single dof oscillator")
	chk.String(tst, cfg.Data.Encoder, "gob")
	chk.String(tst, cfg.LinSol.Name, "splu")
	chk.String(tst, cfg.Solver.Type, "newmark")

	// values from file
	chk.Scalar(tst, "theta1", 1e-17, cfg.Solver.Theta1, 0.6)
	chk.Scalar(tst, "theta2", 1e-17, cfg.Solver.Theta2, 0.605)
	chk.Scalar(tst, "tf", 1e-17, cfg.Control.Tf, 0.65)
	chk.Scalar(tst, "dt", 1e-17, cfg.Control.Dt, 0.01)
	chk.Scalar(tst, "Dt(0)", 1e-17, cfg.Control.DtFunc.F(0, nil), 0.01)

	// defaults kept
	chk.IntAssert(cfg.Solver.NmaxIt, 20)
	chk.Scalar(tst, "atol", 1e-17, cfg.Solver.Atol, 1e-6)
	chk.Scalar(tst, "fbtol", 1e-17, cfg.Solver.FbTol, 1e-8)
	chk.Scalar(tst, "fbmin", 1e-17, cfg.Solver.FbMin, 1e-14)
	chk.Scalar(tst, "dtmin", 1e-17, cfg.Solver.DtMin, 1e-8)
	chk.Scalar(tst, "alpm", 1e-17, cfg.Solver.AlpM, 1.0)
	chk.Scalar(tst, "alpf", 1e-17, cfg.Solver.AlpF, 0.9)

	// derived
	itol := math.Sqrt(cfg.Solver.Rtol)
	if itol > 0.01 {
		itol = 0.01
	}
	chk.Scalar(tst, "itol", 1e-17, cfg.Solver.Itol, itol)

	// load function
	load, err := cfg.Functions.Get("load")
	if err != nil {
		tst.Errorf("cannot get load function:\n%v", err)
		return
	}
	chk.Scalar(tst, "F(0)", 1e-17, load.F(0, nil), 4.0)
	chk.Scalar(tst, "F(0.3)", 1e-17, load.F(0.3, nil), 4.0)
}

func Test_conf02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conf02. defaults and post-processing")

	cfg := NewConfig()
	err := cfg.PostProcess()
	if err != nil {
		tst.Errorf("PostProcess failed:\n%v", err)
		return
	}

	chk.String(tst, cfg.Solver.Type, "newmark")
	chk.String(tst, cfg.LinSol.Name, "splu")
	chk.String(tst, cfg.LinSol.Ordering, "amf")
	chk.String(tst, cfg.LinSol.Scaling, "rcit")
	chk.Scalar(tst, "theta", 1e-17, cfg.Solver.Theta, 0.5)
	chk.Scalar(tst, "theta1", 1e-17, cfg.Solver.Theta1, 0.5)
	chk.Scalar(tst, "theta2", 1e-17, cfg.Solver.Theta2, 0.5)

	// empty control falls back to unit time span
	chk.Scalar(tst, "tf", 1e-17, cfg.Control.Tf, 1)
	chk.Scalar(tst, "dt", 1e-17, cfg.Control.Dt, 1)
	chk.Scalar(tst, "dtout", 1e-17, cfg.Control.DtOut, 1)
	chk.Scalar(tst, "Dt(0.5)", 1e-17, cfg.Control.DtFunc.F(0.5, nil), 1)

	// theta combination
	cfg = NewConfig()
	cfg.Solver.ThCombo1 = true
	err = cfg.PostProcess()
	if err != nil {
		tst.Errorf("PostProcess failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "theta (combo1)", 1e-15, cfg.Solver.Theta, 2.0/3.0)
	chk.Scalar(tst, "theta1 (combo1)", 1e-15, cfg.Solver.Theta1, 5.0/6.0)
	chk.Scalar(tst, "theta2 (combo1)", 1e-15, cfg.Solver.Theta2, 8.0/9.0)
}

func Test_conf03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conf03. validation catches bad input")

	cfg := NewConfig()
	cfg.Solver.Type = "leapfrog"
	if err := cfg.PostProcess(); err == nil {
		tst.Errorf("unknown integrator type must be rejected")
		return
	}

	cfg = NewConfig()
	cfg.Solver.NmaxIt = 0
	if err := cfg.PostProcess(); err == nil {
		tst.Errorf("nmaxit=0 must be rejected")
		return
	}

	cfg = NewConfig()
	cfg.Solver.NumThreads = -2
	if err := cfg.PostProcess(); err == nil {
		tst.Errorf("negative nthreads must be rejected")
		return
	}

	cfg = NewConfig()
	cfg.Control.Dt = 1e-12
	cfg.Solver.DtMin = 1e-8
	if err := cfg.PostProcess(); err == nil {
		tst.Errorf("dt smaller than dtmin must be rejected")
		return
	}
}

func Test_fcn01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fcn01. functions database")

	var fdb FuncsData
	zero, err := fdb.Get("zero")
	if err != nil {
		tst.Errorf("cannot get zero function:\n%v", err)
		return
	}
	chk.Scalar(tst, "zero(123)", 1e-17, zero.F(123, nil), 0)

	if _, err := fdb.Get("missing"); err == nil {
		tst.Errorf("unknown function name must be an error")
		return
	}
	io.Pf("%v\n", fdb)
}
