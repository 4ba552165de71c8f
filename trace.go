// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

type (
	traceLogger = *logrus.Logger
	traceFields = logrus.Fields
)

// newTraceLogger returns the scheduling event logger. Events are discarded
// until SetTrace routes them somewhere.
func newTraceLogger() traceLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)
	return log
}

// tracef records one scheduling event.
func (u *System) tracef(event string, fields traceFields) {
	u.log.WithFields(fields).Debug(event)
}

// SetTrace directs scheduling events (spawns, switches, sleeps, wakes,
// terminations) to w. Call after Init.
func SetTrace(w io.Writer) {
	if sys != nil {
		sys.log.SetOutput(w)
	}
}

type stateSnapshot struct {
	Running       int
	TotalQuantums int
	Live          int
	Ready         []int
	Sleepers      []int
	Quantums      [][2]int // {tid, quants} per live thread
}

// DumpState renders a snapshot of the scheduler state for debugging.
func DumpState() string {
	u := sys
	if u == nil {
		return "uthread: not initialized\n"
	}
	u.mask()
	snap := stateSnapshot{
		Running:       u.running,
		TotalQuantums: u.quants,
		Live:          u.nlive,
		Ready:         append([]int(nil), u.ready.ids...),
	}
	for _, s := range u.sleepq.s {
		snap.Sleepers = append(snap.Sleepers, s.id)
	}
	for id, t := range u.threads {
		if t != nil {
			snap.Quantums = append(snap.Quantums, [2]int{id, t.quants})
		}
	}
	u.unmask()
	return spew.Sdump(snap)
}
