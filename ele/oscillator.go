// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/SimenArcon/godyn/dof"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Oscillator is a single mass-spring-dashpot system
//
//	m·ü + c·u̇ + k·u = F(t)
//
// occupying one node with one displacement DOF. The external force history
// F(t) belongs to the element; point loads applied through the domain work
// as well.
type Oscillator struct {
	eid  int     // element id
	dofs []int   // global DOFs (a single entry)
	m    float64 // mass
	k    float64 // spring stiffness
	c    float64 // dashpot coefficient
	load dbf.T   // external force history; may be nil
}

// NewOscillator adds an oscillator over element eid of the assembly map
func NewOscillator(eid int, sam *dof.Map, m, k, c float64, load dbf.T) (o *Oscillator, err error) {
	dofs := sam.ElemDofs(eid)
	if len(dofs) != 1 {
		return nil, chk.Err("oscillator element %d requires one node with one DOF (%d DOFs are mapped)", eid, len(dofs))
	}
	if m <= 0 {
		return nil, chk.Err("oscillator element %d requires a positive mass (m=%v is incorrect)", eid, m)
	}
	if k < 0 || c < 0 {
		return nil, chk.Err("oscillator element %d requires non-negative stiffness and damping (k=%v, c=%v are incorrect)", eid, k, c)
	}
	return &Oscillator{eid: eid, dofs: dofs, m: m, k: k, c: c, load: load}, nil
}

// Id returns the element id
func (o *Oscillator) Id() int { return o.eid }

// Matrices computes the local matrices and the static residual at the state
// given by sol
func (o *Oscillator) Matrices(em *ElmMats, sol *Solution, mode Mode) error {
	em.GatherState(o.dofs, sol)
	em.A[Mass][0][0] = o.m
	em.A[Stif][0][0] = o.k
	em.A[Damp][0][0] = o.c
	f := 0.0
	if o.load != nil {
		f = o.load.F(sol.T, nil)
	}
	em.B[0][0] = f - o.k*em.Vec[VecY][0]
	return nil
}
