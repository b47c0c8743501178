// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

// TimeStep tracks the position of a run within the integration window
type TimeStep struct {
	T    float64 // current time
	Dt   float64 // current step size
	Stop float64 // final time
	Step int     // number of accepted steps so far
}

// NewTimeStep returns a stepper covering [0, stop] with step size dt
func NewTimeStep(dt, stop float64) *TimeStep {
	return &TimeStep{Dt: dt, Stop: stop}
}

// Advance moves time forward by Dt and returns false when the window is
// exhausted. The last step is clamped so the final time lands on Stop; a
// residue smaller than Dt/1000 is not stepped.
func (o *TimeStep) Advance() bool {
	if o.T+0.001*o.Dt >= o.Stop {
		return false
	}
	if o.T+o.Dt > o.Stop {
		o.Dt = o.Stop - o.T
	}
	o.T += o.Dt
	o.Step++
	return true
}
