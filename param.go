// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uthread

/*
 * tunable variables
 */
const (
	MaxThreadNum = 100  /* max number of live threads, main included */
	StackSize    = 4096 /* logical stack reservation per thread (bytes) */
)

const (
	/* status codes */
	_SIDL  int8 = 1 /* spawned, never scheduled */
	_SRUN  int8 = 2 /* dispatched at least once; kept while blocked or asleep */
	_SZOMB int8 = 3 /* killed, goroutine not yet exited */
)
