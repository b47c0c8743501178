// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/SimenArcon/godyn/dof"
	"github.com/SimenArcon/godyn/inp"
	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
)

// oscmats builds a unit oscillator problem with the given damping and
// Rayleigh coefficients and returns the composition helper
func oscmats(tst *testing.T, c, rayM, rayK float64) (nm *NewmarkMats, osc *Oscillator, sol *Solution) {
	sam := dof.NewMap(1, 1)
	eid, err := sam.AddElement(1)
	if err != nil {
		tst.Fatalf("AddElement failed:\n%v", err)
	}
	if err = sam.InitEquations(); err != nil {
		tst.Fatalf("InitEquations failed:\n%v", err)
	}

	dat := new(inp.SolverData)
	dat.SetDefault()
	dat.Theta1 = 0.6
	dat.Theta2 = 0.605
	dat.RayM = rayM
	dat.RayK = rayK
	dc := new(DynCoefs)
	if err = dc.Init(dat); err != nil {
		tst.Fatalf("Init failed:\n%v", err)
	}
	if err = dc.CalcBoth(0.01); err != nil {
		tst.Fatalf("CalcBoth failed:\n%v", err)
	}

	osc, err = NewOscillator(eid, sam, 1.0, 128.0, c, &fun.Cte{C: 4.0})
	if err != nil {
		tst.Fatalf("NewOscillator failed:\n%v", err)
	}

	em := NewElmMats()
	em.Resize(1)
	sol = NewSolution(sam.Ndof(), false, dc)
	if err = osc.Matrices(em, sol, Dynamic); err != nil {
		tst.Fatalf("Matrices failed:\n%v", err)
	}
	return NewNewmarkMats(em, dc), osc, sol
}

func Test_nmats01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nmats01. undamped composition at rest")

	nm, _, _ := oscmats(tst, 0, 0, 0)

	// at rest the dynamic system is α1·m + k and the residual is the load
	A := nm.NewtonMatrix(Dynamic)
	chk.Scalar(tst, "A dynamic", 1e-7, A[0][0], 33185.85123966942)
	b := nm.RHSVector(Dynamic)
	chk.Scalar(tst, "b dynamic", 1e-14, b[0], 4.0)

	// static and mass-only modes pick single matrices
	A = nm.NewtonMatrix(Static)
	chk.Scalar(tst, "A static", 1e-15, A[0][0], 128.0)
	A = nm.NewtonMatrix(MassOnly)
	chk.Scalar(tst, "A massonly", 1e-15, A[0][0], 1.0)
	b = nm.RHSVector(MassOnly)
	chk.Scalar(tst, "b massonly", 1e-14, b[0], 4.0)
}

func Test_nmats02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nmats02. damped composition with Rayleigh terms")

	nm, osc, sol := oscmats(tst, 0.3, 0.01, 0.002)

	// m=1, k=128, c=0.3, u=0.001, v=0.05, a=2
	sol.Y[0] = 0.001
	sol.Dydt[0] = 0.05
	sol.D2ydt2[0] = 2.0
	if err := osc.Matrices(nm.Em, sol, Dynamic); err != nil {
		tst.Errorf("Matrices failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "fs", 1e-15, nm.Em.B[0][0], 3.872)

	// A = (α1 + α4·rayM)·m + α4·c + (1 + α4·rayK)·k
	A := nm.NewtonMatrix(Dynamic)
	chk.Scalar(tst, "A dynamic", 1e-7, A[0][0], 33298.11570247934)

	// b = fs - m·(a + rayM·v) - c·v - rayK·k·v
	b := nm.RHSVector(Dynamic)
	chk.Scalar(tst, "b dynamic", 1e-12, b[0], 1.8437)

	// mass-only shares the dynamic composition
	b = nm.RHSVector(MassOnly)
	chk.Scalar(tst, "b massonly", 1e-12, b[0], 1.8437)

	// the static residual is returned unchanged
	b = nm.RHSVector(Static)
	chk.Scalar(tst, "b static", 1e-15, b[0], 3.872)
}
