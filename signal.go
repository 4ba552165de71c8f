// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Signal core. The virtual timer delivers SIGVTALRM (the quantum signal)
// and the real timer delivers SIGALRM (the wake signal). Both are routed
// into one-slot channels: a pending signal sits in its slot until the
// running thread unmasks, and further deliveries while one is pending
// coalesce, exactly as pending POSIX signals do.
//
// The mask is the big mutex. Application code masks around every critical
// section; the handlers run only under it; and the one managed unmasking
// point after a context switch belongs to the resumed thread. At any
// instant exactly one of application code, the quantum handler, and the
// wake handler is executing.

func (u *System) installHandlers() {
	u.quantumSig = make(chan os.Signal, 1)
	u.wakeSig = make(chan os.Signal, 1)
	signal.Notify(u.quantumSig, syscall.SIGVTALRM)
	signal.Notify(u.wakeSig, syscall.SIGALRM)
}

func (u *System) releaseHandlers() {
	if u.quantumSig != nil {
		signal.Stop(u.quantumSig)
	}
	if u.wakeSig != nil {
		signal.Stop(u.wakeSig)
	}
}

// mask enters the critical section.
func (u *System) mask() {
	u.big.Lock()
}

// unmask delivers pending managed signals and leaves the critical section.
// Handlers run in the calling thread's goroutine, still masked; a quantum
// handler may switch away here, in which case the unlock happens only once
// control comes back to this thread.
func (u *System) unmask() {
	u.poll()
	u.big.Unlock()
}

// poll runs the handler for every pending managed signal. The caller holds
// the mask.
func (u *System) poll() {
	for {
		select {
		case <-u.quantumSig:
			u.handleQuantum()
		case <-u.wakeSig:
			u.handleWake()
		default:
			return
		}
	}
}

// handleQuantum fires at quantum expiry: re-arm the virtual timer, count
// the fresh quantum, rotate, and switch.
func (u *System) handleQuantum() {
	u.startVirtual()
	u.quants++
	cur := u.threads[u.running]
	next := u.whosNextTimeout()
	u.dispatch(cur, u.threads[next])
}

// handleWake fires at wake-timer expiry: pop the head of the sleep queue
// and then every following sleeper whose wake time has already arrived,
// re-ready the ones that still exist and are not blocked, and re-arm the
// timer for the earliest remaining sleeper. The head is popped without
// checking its wake time. The handler never
// switches contexts; woken threads wait for the next quantum expiry like
// everyone else.
func (u *System) handleWake() {
	for {
		s, ok := u.sleepq.pop()
		if !ok {
			return
		}
		// A thread terminated while sleeping has no record; drop the entry.
		if err := u.wake(s.id); err == nil {
			u.tracef("wake", traceFields{"tid": s.id})
			if !u.isBlocked(s.id) {
				u.ready.add(s.id)
			}
		}
		head, ok := u.sleepq.peek()
		if !ok {
			return
		}
		if d := time.Until(head.wakeAt); d > 0 {
			u.startReal(d)
			return
		}
	}
}
