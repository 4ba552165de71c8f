// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import "time"

// The ready queue is the ordered sequence of runnable thread ids. The head
// is the currently running thread; rotation moves it to the tail. A thread
// appears at most once.
type readyQueue struct {
	ids []int
}

func (q *readyQueue) head() int {
	if len(q.ids) == 0 {
		panic("uthread: ready queue empty")
	}
	return q.ids[0]
}

// add appends id to the tail. Adding a present id is a no-op.
func (q *readyQueue) add(id int) {
	for _, x := range q.ids {
		if x == id {
			return
		}
	}
	q.ids = append(q.ids, id)
}

func (q *readyQueue) remove(id int) {
	for i, x := range q.ids {
		if x == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return
		}
	}
}

// rotate moves the head to the tail. With a single entry the queue is
// unchanged and the same thread continues.
func (q *readyQueue) rotate() {
	if len(q.ids) > 1 {
		head := q.ids[0]
		q.ids = append(q.ids[1:], head)
	}
}

func (q *readyQueue) len() int { return len(q.ids) }

// A sleeper is a thread waiting in the sleep queue for its absolute wake
// time.
type sleeper struct {
	id     int
	wakeAt time.Time
}

// The sleep queue is kept sorted ascending by wake time. Insertion is
// stable: equal wake times stay in arrival order.
type sleepQueue struct {
	s []sleeper
}

func (q *sleepQueue) insert(id int, wakeAt time.Time) {
	i := len(q.s)
	for j := range q.s {
		if wakeAt.Before(q.s[j].wakeAt) {
			i = j
			break
		}
	}
	q.s = append(q.s, sleeper{})
	copy(q.s[i+1:], q.s[i:])
	q.s[i] = sleeper{id: id, wakeAt: wakeAt}
}

func (q *sleepQueue) peek() (sleeper, bool) {
	if len(q.s) == 0 {
		return sleeper{}, false
	}
	return q.s[0], true
}

func (q *sleepQueue) pop() (sleeper, bool) {
	if len(q.s) == 0 {
		return sleeper{}, false
	}
	head := q.s[0]
	q.s = q.s[1:]
	return head, true
}

func (q *sleepQueue) remove(id int) {
	for i := range q.s {
		if q.s[i].id == id {
			q.s = append(q.s[:i], q.s[i+1:]...)
			return
		}
	}
}

func (q *sleepQueue) len() int { return len(q.s) }
