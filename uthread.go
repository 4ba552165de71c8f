// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uthread multiplexes many logical threads onto a single operating
// system thread, with round-robin time slicing driven by a virtual-time
// quantum timer and a wall-clock wake-up timer for sleeping threads.
//
// Thread 0 is the caller of Init. Worker threads are spawned with Spawn
// and must terminate themselves (or be terminated) rather than fall off
// their entry function; a thread that does return is terminated
// implicitly. Preemption is delivered at library calls: every operation of
// the package is a suspension point at which a pending quantum or wake
// signal takes effect. A thread that never calls back into the library
// runs unpreempted, just as C code would with the timer signals masked.
package uthread

import (
	"os"
	"sync"
	"time"
)

// A System owns all thread-library state: the registry, the ready and
// sleep queues, the running thread id, the quantum counters, and the timer
// machinery. All of it is shared between application code and the two
// signal handlers; the big mutex stands in for the process signal mask and
// guarantees that exactly one of the three executes at any instant.
//
// The library is a process-wide singleton (one System, built by Init and
// torn down by Terminate(0) or a system error), but the state lives here
// rather than in package globals so tests can build throwaway instances.
type System struct {
	big sync.Mutex

	threads [MaxThreadNum]*thread
	nlive   int
	ready   readyQueue
	sleepq  sleepQueue
	running int
	quants  int // global quantum counter

	quantum time.Duration
	itimers bool // false when tests drive the handlers directly

	quantumSig chan os.Signal
	wakeSig    chan os.Signal

	log traceLogger
}

// newSystem builds the library state with thread 0 synthesized and
// running: no worker goroutine, no stack of its own, one quantum already
// charged. Timers and signal handlers are installed afterwards, once the
// registry and queues exist.
func newSystem(quantum time.Duration) *System {
	u := &System{
		quantum: quantum,
		log:     newTraceLogger(),
	}
	u.threads[0] = &thread{id: 0, status: _SRUN, quants: 1, sched: make(chan bool)}
	u.nlive = 1
	u.ready.add(0)
	u.running = 0
	u.quants = 1
	return u
}

// spawn registers a new worker and appends it to the ready queue.
func (u *System) spawn(entry func()) (int, error) {
	id, err := u.create(entry)
	if err != nil {
		return -1, err
	}
	u.ready.add(id)
	u.tracef("spawn", traceFields{"tid": id})
	return id, nil
}

// terminate removes thread id and releases its resources. If id is the
// running thread the call does not return: control passes to the next
// ready thread and the goroutine exits.
func (u *System) terminate(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	cur := u.running
	u.tracef("terminate", traceFields{"tid": id})
	u.kill(id)
	next := u.whosNextTermination(id)
	if next != cur {
		u.startVirtual()
		u.quants++
		u.dispatch(t, u.threads[next])
		panic("uthread: dispatch away from a dead thread returned")
	}
	return nil
}

// blockThread blocks thread id. Blocking the main thread is forbidden;
// blocking a blocked thread is a no-op. A thread blocking itself gives up
// the processor and resumes here once unblocked and scheduled again.
func (u *System) blockThread(id int) error {
	if id == 0 {
		return ErrBlockMain
	}
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	cur := u.running
	u.block(id)
	next := u.whosNextBlock(id)
	if next != cur {
		u.startVirtual()
		u.quants++
		u.dispatch(t, u.threads[next])
	}
	return nil
}

// resume moves a blocked thread back toward the ready queue. Resuming a
// thread that is not blocked succeeds and changes nothing. A thread that
// is still sleeping stays out of the ready queue until its wake time.
func (u *System) resume(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	u.unblock(id)
	if !t.sleeping {
		u.ready.add(id)
	}
	return nil
}

// sleepCurrent puts the running thread to sleep for d. The main thread
// cannot sleep. The real timer is re-armed only when the new sleeper
// becomes the head of the sleep queue.
func (u *System) sleepCurrent(d time.Duration) error {
	id := u.running
	if id == 0 {
		return ErrSleepMain
	}
	t := u.threads[id]
	wakeAt := time.Now().Add(d)

	oldHead, had := u.sleepq.peek()
	u.sleepq.insert(id, wakeAt)
	if newHead, _ := u.sleepq.peek(); !had || newHead.id != oldHead.id {
		u.startReal(d)
	}

	u.setSleeping(id)
	u.tracef("sleep", traceFields{"tid": id, "wake_in": d.String()})
	next := u.whosNextSleep()
	u.startVirtual()
	u.quants++
	u.dispatch(t, u.threads[next])
	return nil
}

// teardown releases every library resource: disarm the timers, detach the
// signal handlers, and unpark the remaining worker goroutines so they can
// exit. The running thread's goroutine is the caller's own.
func (u *System) teardown() {
	u.stopTimers()
	u.releaseHandlers()
	for id, t := range u.threads {
		if t == nil {
			continue
		}
		u.threads[id] = nil
		if id != u.running {
			t.status = _SZOMB
			close(t.sched)
		}
	}
	u.nlive = 0
}

// sys is the process-wide instance behind the package-level operations.
var sys *System

// Init initializes the thread library with the given quantum length in
// microseconds. It must be called exactly once, before any other
// operation. Returns 0, or -1 if quantumUsecs is not positive.
func Init(quantumUsecs int) int {
	if quantumUsecs <= 0 {
		return liberr(ErrBadQuantum)
	}
	if sys != nil {
		return liberr(ErrInitialized)
	}
	u := newSystem(time.Duration(quantumUsecs) * time.Microsecond)
	u.itimers = true
	u.installHandlers()
	u.startVirtual()
	sys = u
	return 0
}

// Spawn creates a new thread whose entry point is entry and appends it to
// the ready queue. Returns the new thread's id, or -1 when the live count
// would exceed MaxThreadNum.
func Spawn(entry func()) int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	id, err := u.spawn(entry)
	if err != nil {
		u.unmask()
		return liberr(err)
	}
	u.unmask()
	return id
}

// Terminate terminates thread tid. Terminating the main thread (tid 0)
// releases the whole library and exits the process with status 0.
// Self-termination does not return.
func Terminate(tid int) int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	if tid == 0 {
		u.teardown()
		sys = nil
		os.Exit(0)
	}
	if err := u.terminate(tid); err != nil {
		u.unmask()
		return liberr(err)
	}
	u.unmask()
	return 0
}

// Block blocks thread tid until a later Resume. Blocking the main thread
// or an unknown thread is an error; blocking a blocked thread is a no-op.
func Block(tid int) int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	if err := u.blockThread(tid); err != nil {
		u.unmask()
		return liberr(err)
	}
	u.unmask()
	return 0
}

// Resume moves a blocked thread back to the ready queue. Resuming a
// running or ready thread succeeds and changes nothing.
func Resume(tid int) int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	if err := u.resume(tid); err != nil {
		u.unmask()
		return liberr(err)
	}
	u.unmask()
	return 0
}

// Sleep puts the calling thread to sleep for usecs microseconds of wall
// time. The main thread cannot sleep.
func Sleep(usecs int) int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	if err := u.sleepCurrent(time.Duration(usecs) * time.Microsecond); err != nil {
		u.unmask()
		return liberr(err)
	}
	u.unmask()
	return 0
}

// TID reports the id of the calling thread.
func TID() int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	id := u.running
	u.unmask()
	return id
}

// TotalQuantums reports the number of quanta started since Init, the
// current one included. Immediately after Init it is 1.
func TotalQuantums() int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	n := u.quants
	u.unmask()
	return n
}

// Quantums reports the number of quanta in which thread tid was the
// running thread, the current one included; at least 1 once the thread has
// run.
func Quantums(tid int) int {
	u := sys
	if u == nil {
		return liberr(ErrNotInitialized)
	}
	u.mask()
	n, err := u.quantums(tid)
	if err != nil {
		u.unmask()
		return liberr(err)
	}
	u.unmask()
	return n
}
