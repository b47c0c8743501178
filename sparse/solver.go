// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// ErrSingular is returned by Solve when the factorisation hits a zero pivot
var ErrSingular = chk.Err("sparse: matrix is singular")

// Options holds construction-time options of a Matrix
type Options struct {
	Backend    string // direct solver backend: "splu", "dense" or "umfpack"
	NumThreads int    // hint for concurrent assembly callers
	Symmetric  bool   // matrix is symmetric (backends may exploit this)
	Verbose    bool   // verbose backend output
	Timing     bool   // show backend timing statistics
}

// DefaultOptions returns options with the pure-Go backend selected
func DefaultOptions() *Options {
	return &Options{Backend: "splu", NumThreads: 1}
}

// Backend wraps a direct linear solver operating on the optimised
// compressed-column arrays of a Matrix. Init hands over the structure,
// Fact (re)factorises using the current values and Solve back-substitutes.
type Backend interface {
	Init(n int, ap, ai []int, ax []float64, opts *Options) error // set system
	Fact() error                                                 // factorise
	Solve(x, b []float64) error                                  // solve A*x = b
	Free()                                                       // release resources
}

// allocators maps backend names to allocators
var allocators = make(map[string]func() Backend)

// GetBackend returns a new backend by name
func GetBackend(name string) (Backend, error) {
	if alloc, ok := allocators[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("cannot find linear solver backend named %q (available: %v)", name, BackendNames())
}

// BackendNames returns the names of all registered backends
func BackendNames() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
