// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"slices"
	"testing"
	"time"
)

func TestReadyQueue(t *testing.T) {
	var q readyQueue
	for _, id := range []int{0, 1, 2, 3} {
		q.add(id)
	}
	q.add(2) // present: no-op
	if want := []int{0, 1, 2, 3}; !slices.Equal(q.ids, want) {
		t.Fatalf("ready = %v, want %v", q.ids, want)
	}

	q.rotate()
	if want := []int{1, 2, 3, 0}; !slices.Equal(q.ids, want) {
		t.Fatalf("after rotate = %v, want %v", q.ids, want)
	}

	q.remove(3)
	q.remove(99) // absent: no-op
	if want := []int{1, 2, 0}; !slices.Equal(q.ids, want) {
		t.Fatalf("after remove = %v, want %v", q.ids, want)
	}
	if got := q.head(); got != 1 {
		t.Errorf("head = %d, want 1", got)
	}
}

func TestReadyQueueRotateSingle(t *testing.T) {
	var q readyQueue
	q.add(0)
	q.rotate()
	if want := []int{0}; !slices.Equal(q.ids, want) {
		t.Errorf("rotate of a single entry changed the queue: %v", q.ids)
	}
}

func TestSleepQueueOrder(t *testing.T) {
	var q sleepQueue
	base := time.Now()
	q.insert(1, base.Add(300*time.Millisecond))
	q.insert(2, base.Add(100*time.Millisecond))
	q.insert(3, base.Add(200*time.Millisecond))

	var ids []int
	for _, s := range q.s {
		ids = append(ids, s.id)
	}
	if want := []int{2, 3, 1}; !slices.Equal(ids, want) {
		t.Fatalf("sleep queue order = %v, want %v", ids, want)
	}

	head, ok := q.peek()
	if !ok || head.id != 2 {
		t.Fatalf("peek = %v, %v, want id 2", head, ok)
	}
	if got := q.len(); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}

	head, ok = q.pop()
	if !ok || head.id != 2 {
		t.Fatalf("pop = %v, %v, want id 2", head, ok)
	}
	q.remove(1)
	if head, _ := q.peek(); head.id != 3 {
		t.Errorf("head after pop+remove = %d, want 3", head.id)
	}

	q.pop()
	if _, ok := q.pop(); ok {
		t.Error("pop of an empty queue reported an entry")
	}
}

func TestSleepQueueStable(t *testing.T) {
	var q sleepQueue
	at := time.Now().Add(50 * time.Millisecond)
	q.insert(4, at)
	q.insert(1, at)
	q.insert(9, at)

	var ids []int
	for _, s := range q.s {
		ids = append(ids, s.id)
	}
	if want := []int{4, 1, 9}; !slices.Equal(ids, want) {
		t.Errorf("equal wake times reordered: %v, want %v", ids, want)
	}
}
