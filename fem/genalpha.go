// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

func init() {
	allocators["genalpha"] = func() Solver { return new(GenAlpha) }
}

// GenAlpha implements the generalised-α integrator. The behaviour is fully
// determined by the αf/αm coefficients: the Newmark machinery evaluates the
// elements at the averaged state and composes the matrix accordingly.
type GenAlpha struct {
	Newmark
}
