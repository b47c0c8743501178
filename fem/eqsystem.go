// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sync"

	"github.com/SimenArcon/godyn/dof"
	"github.com/SimenArcon/godyn/ele"
	"github.com/SimenArcon/godyn/sparse"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// EqSystem holds the global Newton system of a domain: the sparse matrix,
// the right-hand side (out-of-balance force fb) and the workspace receiving
// the corrections of the free DOFs
type EqSystem struct {
	Sam *dof.Map       // assembly map
	A   *sparse.Matrix // Newton matrix (neq by neq)
	Fb  []float64      // out-of-balance force
	Wb  []float64      // workspace: corrections δy
}

// NewEqSystem allocates the system for a numbered map, fixing the sparsity
// pattern from the connectivity
func NewEqSystem(sam *dof.Map, opts *sparse.Options) (o *EqSystem, err error) {
	o = new(EqSystem)
	o.Sam = sam
	o.A = sparse.New(sam.Neq(), sam.Neq(), opts)
	if err = o.A.InitAssembly(sam); err != nil {
		return nil, chk.Err("cannot initialise the assembly pattern:\n%v", err)
	}
	o.Fb = make([]float64, sam.Neq())
	o.Wb = make([]float64, sam.Neq())
	return
}

// Initialize prepares for an assembly pass: the right-hand side is always
// zeroed; with newLHS the matrix values are zeroed too, keeping the pattern
func (o *EqSystem) Initialize(newLHS bool) {
	la.VecFill(o.Fb, 0)
	if newLHS {
		o.A.Init()
	}
}

// AssembleAll runs the element loop with nt goroutine workers, each owning a
// local matrices workspace. Every element contributes to the right-hand
// side; the Newton matrix is rebuilt only when newLHS. Scattering into the
// global structures happens under one critical section per element. The
// first error stops the reporting worker; the others drain.
func (o *EqSystem) AssembleAll(elems []ele.Element, sol *ele.Solution, mode ele.Mode, newLHS bool, nt int) error {
	if len(elems) < 1 {
		return chk.Err("cannot assemble system without elements")
	}
	if nt < 1 {
		nt = 1
	}
	if nt > len(elems) {
		nt = len(elems)
	}
	var mu sync.Mutex
	var wg sync.WaitGroup
	errs := make([]error, nt)
	for w := 0; w < nt; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			em := ele.NewElmMats()
			nm := ele.NewNewmarkMats(em, sol.DynCfs)
			for idx := w; idx < len(elems); idx += nt {
				e := elems[idx]
				em.Resize(len(o.Sam.ElemDofs(e.Id())))
				if err := e.Matrices(em, sol, mode); err != nil {
					errs[w] = chk.Err("element %d cannot compute matrices:\n%v", e.Id(), err)
					return
				}
				var eK [][]float64
				if newLHS {
					eK = nm.NewtonMatrix(mode)
				}
				eb := nm.RHSVector(mode)
				mu.Lock()
				var err error
				if newLHS {
					err = o.A.Assemble(eK, o.Sam, e.Id())
				}
				if err == nil {
					o.Sam.AssembleVector(o.Fb, eb, e.Id())
				}
				mu.Unlock()
				if err != nil {
					errs[w] = err
					return
				}
			}
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Solve computes Wb = A⁻¹Fb, factorising first when newLHS
func (o *EqSystem) Solve(newLHS bool) error {
	copy(o.Wb, o.Fb)
	return o.A.Solve(o.Wb, newLHS)
}
