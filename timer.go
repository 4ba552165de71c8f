// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package uthread

import (
	"time"

	"golang.org/x/sys/unix"
)

// The two timer services. The virtual timer measures process virtual time
// (CPU consumed in user mode) and delivers SIGVTALRM once per quantum; the
// real timer measures wall-clock time and delivers SIGALRM once, at the
// earliest wake-up deadline. Both are disarmed in tests that drive the
// handlers directly (itimers false).

func itimer(value, interval time.Duration) unix.Itimerval {
	return unix.Itimerval{
		Interval: unix.NsecToTimeval(interval.Nanoseconds()),
		Value:    unix.NsecToTimeval(value.Nanoseconds()),
	}
}

// startVirtual arms the quantum timer. Arming a running timer resets the
// remaining time to a full quantum.
func (u *System) startVirtual() {
	if !u.itimers {
		return
	}
	if _, err := unix.Setitimer(unix.ITIMER_VIRTUAL, itimer(u.quantum, u.quantum)); err != nil {
		u.fatal("setitimer: " + err.Error())
	}
}

// startReal arms the one-shot wake-up timer d from now, canceling any
// previous deadline.
func (u *System) startReal(d time.Duration) {
	if !u.itimers {
		return
	}
	if d < time.Microsecond {
		d = time.Microsecond // zero would disarm the timer
	}
	if _, err := unix.Setitimer(unix.ITIMER_REAL, itimer(d, 0)); err != nil {
		u.fatal("setitimer: " + err.Error())
	}
}

// stopTimers disarms both timers. Failure is ignored: this runs only on
// teardown.
func (u *System) stopTimers() {
	if !u.itimers {
		return
	}
	unix.Setitimer(unix.ITIMER_VIRTUAL, unix.Itimerval{})
	unix.Setitimer(unix.ITIMER_REAL, unix.Itimerval{})
}
