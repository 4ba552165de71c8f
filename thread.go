// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import "runtime"

// A thread is one logical thread of the library. Its saved execution
// context is a goroutine parked on sched: resuming the thread is a send
// into the channel, suspending it is a receive. The goroutine stack plays
// the role of the thread's stack buffer; the runtime sizes and grows it,
// with StackSize published as the logical reservation.
type thread struct {
	id     int
	entry  func()
	sched  chan bool
	status int8

	blocked  bool
	sleeping bool
	quants   int // quanta during which this thread was the running thread
}

// newWorker builds a worker thread record around entry. The goroutine
// starts immediately but parks until the dispatcher hands it the processor
// for the first time, so a freshly spawned thread consumes no quantum.
func (u *System) newWorker(id int, entry func()) *thread {
	t := &thread{
		id:     id,
		entry:  entry,
		sched:  make(chan bool),
		status: _SIDL,
	}
	go u.run(t)
	return t
}

// run is the body of a worker goroutine. A false receive means the thread
// was killed while parked (its channel was closed); the goroutine exits
// without ever having run.
func (u *System) run(t *thread) {
	if ok := <-t.sched; !ok || t.status == _SZOMB {
		runtime.Goexit()
	}
	u.unmask()
	t.entry()

	// A thread that returns from its entry function is terminated
	// implicitly.
	u.mask()
	u.terminate(t.id)
	panic("uthread: terminate of a running thread returned")
}
