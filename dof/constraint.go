// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dof

import (
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Constraint defines one constraint equation
//
//	u[Dof] = c0(t) + Σ Coefs[k] * u[Masters[k]]
//
// A prescribed DOF is a constraint with no masters. During assembly the
// constrained DOF has no equation of its own: matrix entries touching it are
// redistributed to the masters weighted by Coefs, and the offset c0
// contributes to the right-hand side.
type Constraint struct {
	Dof     int       // constrained (slave) global DOF (1-based)
	Fcn     dbf.T     // time history of the offset c0
	Masters []int     // master global DOFs (1-based)
	Coefs   []float64 // weights multiplying each master
	c0      float64   // cached offset for the current time
}

// C0 returns the cached offset value (set by Map.UpdateConstraints)
func (o *Constraint) C0() float64 { return o.c0 }

// update caches the offset value for time t
func (o *Constraint) update(t float64) {
	o.c0 = o.Fcn.F(t, nil)
}

// String prints one constraint equation
func (o *Constraint) String() string {
	l := io.Sf("dof %d = %g", o.Dof, o.c0)
	for k, m := range o.Masters {
		l += io.Sf(" + %g*dof%d", o.Coefs[k], m)
	}
	return l
}
