// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// gonumLU solves through a dense LU factorisation from gonum. Intended for
// small systems and for cross-checking the sparse backends; memory grows
// with n² regardless of sparsity.
type gonumLU struct {
	n    int
	ap   []int
	ai   []int
	ax   []float64
	a    *mat.Dense
	lu   mat.LU
	done bool
}

func init() {
	allocators["dense"] = func() Backend { return new(gonumLU) }
}

func (o *gonumLU) Init(n int, ap, ai []int, ax []float64, opts *Options) error {
	if n < 1 {
		return chk.Err("dense backend requires a positive dimension. n=%d is invalid", n)
	}
	if len(ap) != n+1 {
		return chk.Err("dense backend requires len(ap)=n+1. len(ap)=%d, n=%d is invalid", len(ap), n)
	}
	o.n = n
	o.ap, o.ai, o.ax = ap, ai, ax
	o.a = mat.NewDense(n, n, nil)
	o.done = false
	return nil
}

func (o *gonumLU) Fact() error {
	o.a.Zero()
	for j := 0; j < o.n; j++ {
		for k := o.ap[j]; k < o.ap[j+1]; k++ {
			o.a.Set(o.ai[k], j, o.ax[k])
		}
	}
	o.lu.Factorize(o.a)
	if o.lu.Det() == 0 {
		return ErrSingular
	}
	o.done = true
	return nil
}

func (o *gonumLU) Solve(x, b []float64) error {
	if !o.done {
		return chk.Err("dense backend: Fact must be called before Solve")
	}
	var xv mat.VecDense
	if err := o.lu.SolveVecTo(&xv, false, mat.NewVecDense(o.n, b)); err != nil {
		// a Condition error flags a badly conditioned system but the
		// solution is still computed
		if _, near := err.(mat.Condition); !near {
			return ErrSingular
		}
	}
	for i := 0; i < o.n; i++ {
		x[i] = xv.AtVec(i)
	}
	return nil
}

func (o *gonumLU) Free() {
	o.a = nil
	o.done = false
}
