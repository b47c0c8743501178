// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// spLU is a pure-Go sparse LU factorisation with partial pivoting. Working
// storage is one map per row holding the unit-lower factors below the
// diagonal and the upper factors on and above it, so fill-in grows only
// where elimination creates it.
type spLU struct {
	n    int
	ap   []int
	ai   []int
	ax   []float64
	rows []map[int]float64
	ipiv []int
	verb bool
}

func init() {
	allocators["splu"] = func() Backend { return new(spLU) }
}

// Init sets the system structure; the value slice is read at Fact time
func (o *spLU) Init(n int, ap, ai []int, ax []float64, opts *Options) error {
	if n < 1 {
		return chk.Err("splu requires a positive dimension. n=%d is invalid", n)
	}
	if len(ap) != n+1 {
		return chk.Err("splu requires len(ap)=n+1. len(ap)=%d, n=%d is invalid", len(ap), n)
	}
	o.n = n
	o.ap, o.ai, o.ax = ap, ai, ax
	o.verb = opts != nil && opts.Verbose
	return nil
}

// Fact factorises the matrix using the current values
func (o *spLU) Fact() error {

	// copy values into row maps
	o.rows = make([]map[int]float64, o.n)
	for i := range o.rows {
		o.rows[i] = make(map[int]float64)
	}
	for j := 0; j < o.n; j++ {
		for k := o.ap[j]; k < o.ap[j+1]; k++ {
			o.rows[o.ai[k]][j] = o.ax[k]
		}
	}

	// eliminate column by column
	o.ipiv = make([]int, o.n)
	for k := 0; k < o.n; k++ {

		// partial pivoting
		p, big := -1, 0.0
		for i := k; i < o.n; i++ {
			if v, ok := o.rows[i][k]; ok && math.Abs(v) > big {
				big, p = math.Abs(v), i
			}
		}
		if p < 0 {
			o.rows = nil
			return ErrSingular
		}
		o.ipiv[k] = p
		if p != k {
			o.rows[k], o.rows[p] = o.rows[p], o.rows[k]
		}

		// eliminate below the diagonal, storing the unit-lower factors
		piv := o.rows[k][k]
		for i := k + 1; i < o.n; i++ {
			a, ok := o.rows[i][k]
			if !ok || a == 0 {
				continue
			}
			f := a / piv
			o.rows[i][k] = f
			for j, v := range o.rows[k] {
				if j > k {
					o.rows[i][j] -= f * v
				}
			}
		}
	}
	if o.verb {
		nnz := 0
		for _, r := range o.rows {
			nnz += len(r)
		}
		io.Pf("splu: n=%d nnz(A)=%d nnz(LU)=%d\n", o.n, len(o.ax), nnz)
	}
	return nil
}

// Solve back-substitutes: x = A⁻¹ b
func (o *spLU) Solve(x, b []float64) error {
	if o.rows == nil {
		return chk.Err("splu: Fact must be called before Solve")
	}
	copy(x, b)

	// row permutation
	for k := 0; k < o.n; k++ {
		if p := o.ipiv[k]; p != k {
			x[k], x[p] = x[p], x[k]
		}
	}

	// solve L*y = P*b via forward substitution (unit diagonal)
	for i := 1; i < o.n; i++ {
		tot := 0.0
		for j, v := range o.rows[i] {
			if j < i {
				tot += v * x[j]
			}
		}
		x[i] -= tot
	}

	// solve U*x = y via backward substitution
	for i := o.n - 1; i >= 0; i-- {
		tot := 0.0
		div := 0.0
		for j, v := range o.rows[i] {
			if j > i {
				tot += v * x[j]
			} else if j == i {
				div = v
			}
		}
		x[i] = (x[i] - tot) / div
	}
	return nil
}

// Free releases the factors
func (o *spLU) Free() {
	o.rows, o.ipiv = nil, nil
}
