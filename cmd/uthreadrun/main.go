// Copyright 2025 The Uthread Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Uthreadrun exercises the uthread library: it spawns busy workers and
// periodic sleepers, lets the round-robin scheduler slice time between
// them for a while, and prints the per-thread quantum accounting together
// with the process CPU time actually consumed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/term"

	"uthread.io/uthread"
)

var (
	nworkers   = flag.Int("n", 4, "number of busy worker threads")
	nsleepers  = flag.Int("sleepers", 2, "number of periodically sleeping threads")
	quantum    = flag.Int("quantum", 10000, "quantum length in `microseconds`")
	duration   = flag.Duration("d", 2*time.Second, "how long to run")
	trace      = flag.Bool("trace", false, "log every scheduling event")
	dump       = flag.Bool("dump", false, "dump scheduler state before exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpuprofile to `file`")
)

func main() {
	log.SetPrefix("uthreadrun: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if uthread.Init(*quantum) < 0 {
		log.Fatal("init failed")
	}
	if *trace {
		uthread.SetTrace(os.Stderr)
	}

	var tids []int
	iters := make([]uint64, uthread.MaxThreadNum)

	// Busy workers spin, re-entering the library on every iteration so
	// that a pending quantum signal can take effect.
	for i := 0; i < *nworkers; i++ {
		tid := uthread.Spawn(func() {
			me := uthread.TID()
			for {
				iters[me]++
				uthread.TID()
			}
		})
		if tid < 0 {
			log.Fatal("spawn failed")
		}
		tids = append(tids, tid)
	}

	for i := 0; i < *nsleepers; i++ {
		nap := 50000 * (i + 1) // microseconds
		tid := uthread.Spawn(func() {
			me := uthread.TID()
			for {
				iters[me]++
				uthread.Sleep(nap)
			}
		})
		if tid < 0 {
			log.Fatal("spawn failed")
		}
		tids = append(tids, tid)
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	deadline := time.Now().Add(*duration)
	last := 0
	for time.Now().Before(deadline) {
		total := uthread.TotalQuantums()
		if tty && total != last {
			fmt.Printf("\rquantum %-8d", total)
			last = total
		}
	}
	if tty {
		fmt.Println()
	}

	total := uthread.TotalQuantums()
	fmt.Printf("total quantums: %d\n", total)
	for _, tid := range tids {
		fmt.Printf("thread %2d: %6d quantums, %10d iterations\n", tid, uthread.Quantums(tid), iters[tid])
	}
	fmt.Printf("main      : %6d quantums\n", uthread.Quantums(0))

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if times, err := p.Times(); err == nil {
			fmt.Printf("cpu: %.2fs user, %.2fs system (%.2fms virtual time per quantum)\n",
				times.User, times.System, times.User*1000/float64(total))
		}
	}

	if *dump {
		fmt.Print(uthread.DumpState())
	}

	for _, tid := range tids {
		uthread.Terminate(tid)
	}
	uthread.Terminate(0)
}
