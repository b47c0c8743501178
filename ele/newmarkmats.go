// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// NewmarkMats composes the effective Newton system of one element from the
// local matrices filled by the element. The composition covers the Newmark,
// HHT and generalised-α methods; which one acts is decided by the
// coefficients alone. Rayleigh damping rayM·M + rayK·K is added here, on top
// of the physical damping matrix in the Damp slot.
type NewmarkMats struct {
	Em  *ElmMats  // local matrices workspace
	dc  *DynCoefs // integration coefficients
	rhs []float64 // composed right-hand side
}

// NewNewmarkMats wraps a workspace with the given integration coefficients
func NewNewmarkMats(em *ElmMats, dc *DynCoefs) *NewmarkMats {
	return &NewmarkMats{Em: em, dc: dc}
}

// NewtonMatrix composes the Jacobian of the residual with respect to the new
// primary variables into the Sys slot and returns it
//
//	Static   A = K
//	MassOnly A = M
//	Dynamic  A = (αm·α1 + αf·α4·rayM)·M + αf·α4·C + αf·(1 + α4·rayK)·K
func (o *NewmarkMats) NewtonMatrix(mode Mode) [][]float64 {
	nu := o.Em.Nu()
	A, M, C, K := o.Em.A[Sys], o.Em.A[Mass], o.Em.A[Damp], o.Em.A[Stif]
	switch mode {
	case Static:
		for i := 0; i < nu; i++ {
			copy(A[i], K[i])
		}
	case MassOnly:
		for i := 0; i < nu; i++ {
			copy(A[i], M[i])
		}
	case Dynamic:
		cM := o.dc.αm*o.dc.α1 + o.dc.αf*o.dc.α4*o.dc.rayM
		cC := o.dc.αf * o.dc.α4
		cK := o.dc.αf * (1.0 + o.dc.α4*o.dc.rayK)
		for i := 0; i < nu; i++ {
			for j := 0; j < nu; j++ {
				A[i][j] = cM*M[i][j] + cC*C[i][j] + cK*K[i][j]
			}
		}
	}
	return A
}

// RHSVector composes the right-hand side of the Newton system and returns it.
// fs is the static residual in B[0]; v and a are the local state vectors.
//
//	Static            b = fs
//	MassOnly, Dynamic b = fs - M·(a + rayM·v) - C·v - rayK·K·v
//
// Keeping the M·a term in MassOnly makes the initial acceleration solve a
// correction: DOFs whose acceleration is already known (prescribed motion)
// contribute through the current state.
func (o *NewmarkMats) RHSVector(mode Mode) []float64 {
	nu := o.Em.Nu()
	fs := o.Em.B[0]
	if mode == Static {
		return fs
	}
	if len(o.rhs) != nu {
		o.rhs = make([]float64, nu)
	}
	M, C, K := o.Em.A[Mass], o.Em.A[Damp], o.Em.A[Stif]
	v, a := o.Em.Vec[VecV], o.Em.Vec[VecA]
	for i := 0; i < nu; i++ {
		o.rhs[i] = fs[i]
		for j := 0; j < nu; j++ {
			o.rhs[i] -= M[i][j]*(a[j]+o.dc.rayM*v[j]) + C[i][j]*v[j] + o.dc.rayK*K[i][j]*v[j]
		}
	}
	return o.rhs
}
