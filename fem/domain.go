// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/SimenArcon/godyn/dof"
	"github.com/SimenArcon/godyn/ele"
	"github.com/SimenArcon/godyn/inp"
	"github.com/SimenArcon/godyn/sparse"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Domain holds the ingredients of one simulation: the numbered assembly map,
// the elements, the concentrated loads, the solution state and the global
// Newton system
type Domain struct {

	// input
	Cfg *inp.Config // analysis control data
	Sam *dof.Map    // numbered assembly map

	// stage
	Elems   []ele.Element // all elements
	PtLoads *PtLoadsData  // concentrated loads
	Sol     *ele.Solution // current state @ time t
	EqSys   *EqSystem     // global Newton system

	// divergence control
	bkp *ele.Solution
}

// NewDomain returns a domain over an assembly map
func NewDomain(cfg *inp.Config, sam *dof.Map) *Domain {
	return &Domain{Cfg: cfg, Sam: sam, PtLoads: NewPtLoadsData(sam)}
}

// AddElem appends an element to the domain
func (o *Domain) AddElem(e ele.Element) {
	o.Elems = append(o.Elems, e)
}

// AddPtLoad registers a concentrated load on component j of node
func (o *Domain) AddPtLoad(node, j int, fcn dbf.T) {
	o.PtLoads.Add(node, j, fcn)
}

// SetStage allocates the solution state and the global system. The map must
// be numbered already and all elements added.
func (o *Domain) SetStage() (err error) {

	// check
	if o.Sam.Neq() < 1 {
		return chk.Err("map must be numbered before setting the stage; call InitEquations first")
	}
	if len(o.Elems) < 1 {
		return chk.Err("stage needs at least one element")
	}

	// integration coefficients
	dc := new(ele.DynCoefs)
	if err = dc.Init(&o.Cfg.Solver); err != nil {
		return chk.Err("cannot initialise integration coefficients:\n%v", err)
	}

	// solution state
	o.Sol = ele.NewSolution(o.Sam.Ndof(), false, dc)

	// global system
	opts := &sparse.Options{
		Backend:    o.Cfg.LinSol.Name,
		NumThreads: o.Cfg.Solver.NumThreads,
		Symmetric:  o.Cfg.LinSol.Symmetric,
		Verbose:    o.Cfg.LinSol.Verbose,
		Timing:     o.Cfg.LinSol.Timing,
	}
	o.EqSys, err = NewEqSystem(o.Sam, opts)
	if err != nil {
		return
	}

	// offsets of prescribed values at the initial time
	o.Sam.UpdateConstraints(o.Sol.T)
	return
}

// backup saves the current solution for restoring after divergence
func (o *Domain) backup() {
	if o.bkp == nil {
		o.bkp = ele.NewSolution(o.Sam.Ndof(), o.Sol.Steady, o.Sol.DynCfs)
	}
	o.bkp.CopyFrom(o.Sol)
}

// restore brings the backed up solution back
func (o *Domain) restore() {
	o.Sol.CopyFrom(o.bkp)
}

// updateSlaveDofs recomputes the values of constrained DOFs from the cached
// offsets and the current master values
func (o *Domain) updateSlaveDofs() {
	sol := o.Sol
	for _, c := range o.Sam.Constraints() {
		y := c.C0()
		for k, m := range c.Masters {
			y += c.Coefs[k] * sol.Y[m-1]
		}
		sol.ΔY[c.Dof-1] += y - sol.Y[c.Dof-1]
		sol.Y[c.Dof-1] = y
	}
}

// initSlaveDofs sets values, velocities and accelerations of constrained
// DOFs from the constraint histories and the master states at time Sol.T
func (o *Domain) initSlaveDofs() {
	sol := o.Sol
	for _, c := range o.Sam.Constraints() {
		y := c.Fcn.F(sol.T, nil)
		v := c.Fcn.G(sol.T, nil)
		a := c.Fcn.H(sol.T, nil)
		for k, m := range c.Masters {
			y += c.Coefs[k] * sol.Y[m-1]
			v += c.Coefs[k] * sol.Dydt[m-1]
			a += c.Coefs[k] * sol.D2ydt2[m-1]
		}
		sol.Y[c.Dof-1] = y
		sol.Dydt[c.Dof-1] = v
		sol.D2ydt2[c.Dof-1] = a
	}
}
