// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// umfSolver bridges to the UMFPACK solver shipped with gosl. It needs the
// system UMFPACK libraries at link time; the pure-Go "splu" backend covers
// machines where they are absent.
type umfSolver struct {
	n      int
	ap     []int
	ai     []int
	ax     []float64
	tri    la.Triplet
	sol    la.LinSol
	sym    bool
	verb   bool
	timing bool
}

func init() {
	allocators["umfpack"] = func() Backend { return new(umfSolver) }
}

func (o *umfSolver) Init(n int, ap, ai []int, ax []float64, opts *Options) error {
	if n < 1 {
		return chk.Err("umfpack requires a positive dimension. n=%d is invalid", n)
	}
	if len(ap) != n+1 {
		return chk.Err("umfpack requires len(ap)=n+1. len(ap)=%d, n=%d is invalid", len(ap), n)
	}
	o.n = n
	o.ap, o.ai, o.ax = ap, ai, ax
	if opts != nil {
		o.sym, o.verb, o.timing = opts.Symmetric, opts.Verbose, opts.Timing
	}
	o.tri.Init(n, n, len(ax))
	o.fill()
	if o.sol != nil {
		o.sol.Free()
	}
	o.sol = la.GetSolver("umfpack")
	if err := o.sol.InitR(&o.tri, o.sym, o.verb, o.timing); err != nil {
		return chk.Err("cannot initialise umfpack:\n%v", err)
	}
	return nil
}

// fill copies the compressed-column values into the triplet
func (o *umfSolver) fill() {
	o.tri.Start()
	for j := 0; j < o.n; j++ {
		for k := o.ap[j]; k < o.ap[j+1]; k++ {
			o.tri.Put(o.ai[k], j, o.ax[k])
		}
	}
}

func (o *umfSolver) Fact() error {
	o.fill()
	return o.sol.Fact()
}

func (o *umfSolver) Solve(x, b []float64) error {
	if o.sol == nil {
		return chk.Err("umfpack: Init must be called before Solve")
	}
	return o.sol.SolveR(x, b, false)
}

func (o *umfSolver) Free() {
	if o.sol != nil {
		o.sol.Free()
		o.sol = nil
	}
}
