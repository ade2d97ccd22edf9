// Package trap wires SIGTERM/SIGINT into a graceful-shutdown callback,
// and forces a hard exit if the same signal arrives again before that
// callback finishes: an operator who really wants the daemon gone now
// should not be stuck behind a slow interface teardown.
//
// Grounded on the teacher's cmd/dockerd/trap test (trap_linux_test.go):
// a single signal exits 99 once cleanup returns, a repeated signal
// before that exits 128+signal immediately.
package trap

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

const gracefulExitCode = 99

// Trap installs handlers for SIGTERM and SIGINT. On the first signal it
// runs cleanup() in a goroutine and exits gracefulExitCode once it
// returns. If the same signal arrives again before cleanup finishes,
// the process exits immediately with 128+signal.
func Trap(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)

	var interrupted atomic.Bool

	go func() {
		for s := range c {
			sig, _ := s.(syscall.Signal)
			if interrupted.Swap(true) {
				os.Exit(128 + int(sig))
			}

			go func() {
				cleanup()
				os.Exit(gracefulExitCode)
			}()
		}
	}()
}
