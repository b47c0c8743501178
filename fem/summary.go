// Copyright 2018 The Godyn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Summary records the evolution of a run
type Summary struct {
	OutTimes  []float64    // output times
	StepTimes []float64    // time at the end of each accepted step
	StepDts   []float64    // size of each accepted step
	StepNits  []int        // Newton iterations of each accepted step
	Resids    utl.DblSlist // residual chains per step (when statistics are on)
}

// Save writes the summary to dirout/fnkey_sum.{enctype}
func (o *Summary) Save(dirout, fnkey, enctype string) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	if err = enc.Encode(o); err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	return saveFile(sumPath(dirout, fnkey, enctype), &buf)
}

// ReadSum reads a summary back from dirout/fnkey_sum.{enctype}
func ReadSum(dirout, fnkey, enctype string) (o *Summary, err error) {
	fn := sumPath(dirout, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open summary file %q:\n%v", fn, err)
	}
	defer fil.Close()
	o = new(Summary)
	dec := GetDecoder(fil, enctype)
	if err = dec.Decode(o); err != nil {
		return nil, chk.Err("cannot decode summary file %q:\n%v", fn, err)
	}
	return
}

// sumPath returns the path of a summary file
func sumPath(dirout, fnkey, enctype string) string {
	return path.Join(dirout, io.Sf("%s_sum.%s", fnkey, enctype))
}
