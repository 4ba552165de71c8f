// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

// The registry owns every thread record, indexed by id. Id 0 is the main
// thread, created at Init; worker ids are always the smallest unused
// non-negative integer.

func (u *System) lookup(id int) *thread {
	if id < 0 || id >= MaxThreadNum {
		return nil
	}
	return u.threads[id]
}

// create allocates the smallest unused id in [1, MaxThreadNum) and
// registers a worker record for entry.
func (u *System) create(entry func()) (int, error) {
	if u.nlive >= MaxThreadNum {
		return -1, ErrTooManyThreads
	}
	for id := 1; id < MaxThreadNum; id++ {
		if u.threads[id] == nil {
			u.threads[id] = u.newWorker(id, entry)
			u.nlive++
			return id, nil
		}
	}
	return -1, ErrTooManyThreads
}

// kill removes the record for id from the registry and from both queues.
// A killed thread that is parked is unparked by closing its channel so the
// goroutine can exit; the running thread's goroutine is left alone and the
// caller must arrange that control never returns to it.
func (u *System) kill(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	t.status = _SZOMB
	u.threads[id] = nil
	u.nlive--
	u.ready.remove(id)
	u.sleepq.remove(id)
	if id != u.running {
		close(t.sched)
	}
	return nil
}

// block marks id blocked. Blocking a blocked thread is a no-op.
func (u *System) block(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	t.blocked = true
	return nil
}

// unblock clears the blocked flag. Unblocking a non-blocked thread is a
// no-op.
func (u *System) unblock(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	t.blocked = false
	return nil
}

// setSleeping marks id as a member of the sleep queue.
func (u *System) setSleeping(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	t.sleeping = true
	return nil
}

// wake clears the sleeping flag. Waking a non-sleeping thread is a no-op,
// but the nil return still tells the wake handler the thread exists.
func (u *System) wake(id int) error {
	t := u.lookup(id)
	if t == nil {
		return ErrNoSuchThread
	}
	t.sleeping = false
	return nil
}

func (u *System) isBlocked(id int) bool {
	t := u.lookup(id)
	return t != nil && t.blocked
}

func (u *System) isSleeping(id int) bool {
	t := u.lookup(id)
	return t != nil && t.sleeping
}

// quantums reports the number of quanta in which id was the running thread.
func (u *System) quantums(id int) (int, error) {
	t := u.lookup(id)
	if t == nil {
		return -1, ErrNoSuchThread
	}
	return t.quants, nil
}
