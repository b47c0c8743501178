// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements the element side of an analysis: the local matrices
// workspace, the coefficients of the implicit time integrators, the solution
// state shared between integrators and elements, and built-in element types.
package ele

import "github.com/cpmech/gosl/chk"

// Mode selects which matrices an assembly pass needs.
type Mode int

const (

	// Static considers the stiffness matrix and the static residual only
	Static Mode = iota

	// Dynamic composes the effective system of an implicit dynamic step
	Dynamic

	// MassOnly targets the mass matrix and the applied forces; used once at
	// t=0 to compute accelerations consistent with the initial state
	MassOnly
)

// String returns the name of the assembly mode
func (o Mode) String() string {
	switch o {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case MassOnly:
		return "massonly"
	}
	chk.Panic("assembly mode %d is invalid", int(o))
	return ""
}

// Element computes local matrices for global assembly.
//
// Matrices evaluates the mass, damping and stiffness matrices and the static
// residual at the state given by sol, filling the workspace em. Implementations
// may skip the parts a given mode does not read. Matrices must be safe for
// concurrent calls with distinct workspaces, since assembly may run elements
// in parallel.
type Element interface {
	Id() int                                              // element id within the assembly map
	Matrices(em *ElmMats, sol *Solution, mode Mode) error // evaluate local matrices at state
}
