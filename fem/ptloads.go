// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/SimenArcon/godyn/dof"
	"github.com/cpmech/gosl/fun/dbf"
)

// PtLoadsData holds concentrated loads and their time histories. Values are
// scattered with master redistribution: a load on a tied DOF acts on its
// masters and a load on a prescribed DOF is dropped.
type PtLoadsData struct {
	sam  *dof.Map
	dofs []int
	fcns []dbf.T
}

// NewPtLoadsData returns an empty set of loads over sam
func NewPtLoadsData(sam *dof.Map) *PtLoadsData {
	return &PtLoadsData{sam: sam}
}

// Add registers the history fcn as a load on component j of node
func (o *PtLoadsData) Add(node, j int, fcn dbf.T) {
	o.dofs = append(o.dofs, o.sam.DofIndex(node, j))
	o.fcns = append(o.fcns, fcn)
}

// AddToRhs adds the load values at time t to the right-hand side fb
func (o *PtLoadsData) AddToRhs(fb []float64, t float64) {
	for i, d := range o.dofs {
		o.sam.AssembleDof(fb, d, o.fcns[i].F(t, nil))
	}
}
