// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/SimenArcon/godyn/dof"
	"github.com/cpmech/gosl/chk"
)

func Test_rod01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rod01. stiffness, mass and axial stress")

	// one rod from (0,0) to (3,4): L=5, c=0.6, s=0.8
	sam := dof.NewMap(2, 2)
	eid, err := sam.AddElement(1, 2)
	if err != nil {
		tst.Errorf("AddElement failed:\n%v", err)
		return
	}
	err = sam.InitEquations()
	if err != nil {
		tst.Errorf("InitEquations failed:\n%v", err)
		return
	}

	// E=200, A=0.5, ρ=7.8 gives EA/L=20 and ρAL/6=3.25
	rod, err := NewElastRod(eid, sam, 0, 0, 3, 4, 200, 0.5, 7.8)
	if err != nil {
		tst.Errorf("NewElastRod failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "L", 1e-15, rod.Length(), 5.0)

	em := NewElmMats()
	em.Resize(4)
	sol := NewSolution(sam.Ndof(), false, nil)
	err = rod.Matrices(em, sol, Static)
	if err != nil {
		tst.Errorf("Matrices failed:\n%v", err)
		return
	}

	chk.Matrix(tst, "K", 1e-13, em.A[Stif], [][]float64{
		{7.2, 9.6, -7.2, -9.6},
		{9.6, 12.8, -9.6, -12.8},
		{-7.2, -9.6, 7.2, 9.6},
		{-9.6, -12.8, 9.6, 12.8},
	})
	chk.Matrix(tst, "M", 1e-13, em.A[Mass], [][]float64{
		{6.5, 0, 3.25, 0},
		{0, 6.5, 0, 3.25},
		{3.25, 0, 6.5, 0},
		{0, 3.25, 0, 6.5},
	})

	// stretch the rod axially by δ=0.01 at the second node
	sol.Y[2] = 0.006
	sol.Y[3] = 0.008
	err = rod.Matrices(em, sol, Static)
	if err != nil {
		tst.Errorf("Matrices failed:\n%v", err)
		return
	}
	chk.Vector(tst, "fs", 1e-13, em.B[0], []float64{0.12, 0.16, -0.12, -0.16})

	// σ = E·εa = 200 · 0.01/5
	chk.Scalar(tst, "σ", 1e-13, rod.CalcSig(sol), 0.4)
}

func Test_rod02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rod02. invalid rods are rejected")

	sam := dof.NewMap(2, 2)
	eid, err := sam.AddElement(1, 2)
	if err != nil {
		tst.Errorf("AddElement failed:\n%v", err)
		return
	}
	err = sam.InitEquations()
	if err != nil {
		tst.Errorf("InitEquations failed:\n%v", err)
		return
	}

	// zero length
	_, err = NewElastRod(eid, sam, 1, 1, 1, 1, 200, 0.5, 7.8)
	if err == nil {
		tst.Errorf("NewElastRod must fail with zero length")
		return
	}

	// non-positive stiffness parameters
	_, err = NewElastRod(eid, sam, 0, 0, 3, 4, -1, 0.5, 7.8)
	if err == nil {
		tst.Errorf("NewElastRod must fail with E ≤ 0")
		return
	}

	// wrong number of DOFs
	one := dof.NewMap(1, 1)
	oid, err := one.AddElement(1)
	if err != nil {
		tst.Errorf("AddElement failed:\n%v", err)
		return
	}
	err = one.InitEquations()
	if err != nil {
		tst.Errorf("InitEquations failed:\n%v", err)
		return
	}
	_, err = NewElastRod(oid, one, 0, 0, 3, 4, 200, 0.5, 7.8)
	if err == nil {
		tst.Errorf("NewElastRod must fail with one DOF only")
		return
	}

	// oscillator construction errors
	_, err = NewOscillator(oid, one, 0, 1, 0, nil)
	if err == nil {
		tst.Errorf("NewOscillator must fail with zero mass")
		return
	}
	_, err = NewOscillator(eid, sam, 1, 1, 0, nil)
	if err == nil {
		tst.Errorf("NewOscillator must fail with four DOFs")
		return
	}
}
