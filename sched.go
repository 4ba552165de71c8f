// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import "runtime"

/*
 * Round-robin selection. The head of the ready queue is the running
 * thread; each policy returns the id that should run next.
 */

// whosNextTimeout rotates the running thread to the tail; the new head
// runs. With a single runnable thread the same thread continues and a
// fresh quantum begins.
func (u *System) whosNextTimeout() int {
	u.ready.rotate()
	return u.ready.head()
}

// whosNextTermination removes id from the queue; the new head runs.
func (u *System) whosNextTermination(id int) int {
	u.ready.remove(id)
	return u.ready.head()
}

// whosNextBlock removes id from the queue; if it was the running thread
// the new head runs, otherwise the head is unchanged and no switch
// happens.
func (u *System) whosNextBlock(id int) int {
	u.ready.remove(id)
	return u.ready.head()
}

// whosNextSleep removes the running thread, which has joined the sleep
// queue; the new head runs.
func (u *System) whosNextSleep() int {
	u.ready.remove(u.running)
	return u.ready.head()
}

// dispatch hands the processor from one thread to the next and charges the
// incoming thread a quantum. A self-switch only begins the fresh quantum
// and re-arms the virtual timer.
func (u *System) dispatch(from, to *thread) {
	if from == to {
		to.quants++
		u.startVirtual()
		return
	}
	u.tracef("switch", traceFields{"from": from.id, "to": to.id, "quantum": u.quants})
	u.running = to.id
	to.status = _SRUN
	to.quants++
	u.swtch(from, to)
}

// swtch performs the context switch: resume to, park from. The caller
// holds the mask; ownership travels with the processor, so the parked
// goroutine does not unmask; the resumed thread does, when its own
// library call returns. A from thread already marked _SZOMB hands the
// processor over and exits instead of parking; a false receive means the
// thread was killed while parked.
func (u *System) swtch(from, to *thread) {
	dead := from.status == _SZOMB
	to.sched <- true
	if dead {
		runtime.Goexit()
	}
	if ok := <-from.sched; !ok {
		runtime.Goexit()
	}
}
