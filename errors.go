// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Library-level errors. The package-level operations report them as -1
// with a line on the diagnostic channel; the System methods return them
// directly.
var (
	ErrNoSuchThread   = errors.New("no such thread")
	ErrTooManyThreads = errors.New("too many threads")
	ErrBlockMain      = errors.New("cannot block the main thread")
	ErrSleepMain      = errors.New("the main thread cannot sleep")
	ErrBadQuantum     = errors.New("quantum must be positive")
	ErrInitialized    = errors.New("library already initialized")
	ErrNotInitialized = errors.New("library not initialized")
)

// diag is the diagnostic channel.
var diag io.Writer = os.Stderr

// liberr reports a library-level error and returns -1.
func liberr(err error) int {
	fmt.Fprintf(diag, "thread library error: %v\n", err)
	return -1
}

// fatal reports a failed system call, releases the library's resources,
// and terminates the process. System-call failures leave the core in an
// unrecoverable state; there is no partial recovery.
func (u *System) fatal(msg string) {
	u.teardown()
	fmt.Fprintf(diag, "system error: %s\n", msg)
	os.Exit(1)
}
