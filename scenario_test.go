// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/tools/txtar"
)

// TestScenarios runs the scripted scheduler scenarios in
// testdata/sched.txtar. Each archive file is one scenario: a sequence of
// operations applied to a fresh system, interleaved with assertions on the
// ready and sleep queues.
//
// Operations:
//
//	spawn            spawn a worker (it takes the smallest free id, which later ready assertions show)
//	kill ID          terminate a thread
//	block ID         block a thread
//	resume ID        resume a thread
//	sleep ID DUR     move a thread to the sleep queue, waking DUR from now
//	wake             run the wake handler
//	rotate           rotate the ready queue, as a quantum expiry would
//	ready IDS...     assert the ready queue
//	sleepers IDS...  assert the sleep queue order
func TestScenarios(t *testing.T) {
	ar, err := txtar.ParseFile("testdata/sched.txtar")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range ar.Files {
		t.Run(strings.TrimSpace(f.Name), func(t *testing.T) {
			runScenario(t, string(f.Data))
		})
	}
}

func runScenario(t *testing.T, script string) {
	u := newTestSystem(t)
	for i, line := range strings.Split(script, "\n") {
		f := strings.Fields(line)
		if len(f) == 0 || strings.HasPrefix(f[0], "#") {
			continue
		}
		fail := func(format string, args ...any) {
			t.Helper()
			t.Fatalf("line %d %q: %s", i+1, line, fmt.Sprintf(format, args...))
		}
		switch f[0] {
		case "spawn":
			if _, err := u.spawn(func() {}); err != nil {
				fail("spawn: %v", err)
			}
		case "kill":
			if err := u.terminate(atoi(t, f[1])); err != nil {
				fail("kill: %v", err)
			}
		case "block":
			if err := u.blockThread(atoi(t, f[1])); err != nil {
				fail("block: %v", err)
			}
		case "resume":
			if err := u.resume(atoi(t, f[1])); err != nil {
				fail("resume: %v", err)
			}
		case "sleep":
			id := atoi(t, f[1])
			d, err := time.ParseDuration(f[2])
			if err != nil {
				fail("bad duration: %v", err)
			}
			u.sleepq.insert(id, time.Now().Add(d))
			u.setSleeping(id)
			u.ready.remove(id)
		case "wake":
			u.handleWake()
		case "rotate":
			u.ready.rotate()
		case "ready":
			if want := atois(t, f[1:]); !slices.Equal(u.ready.ids, want) {
				fail("ready = %v, want %v", u.ready.ids, want)
			}
		case "sleepers":
			var ids []int
			for _, s := range u.sleepq.s {
				ids = append(ids, s.id)
			}
			if want := atois(t, f[1:]); !slices.Equal(ids, want) {
				fail("sleepers = %v, want %v", ids, want)
			}
		default:
			fail("unknown operation")
		}
	}
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("bad id %q: %v", s, err)
	}
	return n
}

func atois(t *testing.T, ss []string) []int {
	ns := make([]int, len(ss))
	for i, s := range ss {
		ns[i] = atoi(t, s)
	}
	return ns
}
