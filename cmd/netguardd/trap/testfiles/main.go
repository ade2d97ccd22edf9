package main

import (
	"os"
	"syscall"
	"time"

	"github.com/netguard/netguardd/cmd/netguardd/trap"
)

func main() {
	var sig syscall.Signal
	switch os.Getenv("SIGNAL_TYPE") {
	case "TERM":
		sig = syscall.SIGTERM
	case "INT":
		sig = syscall.SIGINT
	default:
		os.Exit(2)
	}

	trap.Trap(func() {
		time.Sleep(200 * time.Millisecond)
	})

	self, err := os.FindProcess(os.Getpid())
	if err != nil {
		os.Exit(3)
	}
	if err := self.Signal(sig); err != nil {
		os.Exit(4)
	}
	if os.Getenv("IF_MULTIPLE") != "" {
		time.Sleep(20 * time.Millisecond)
		_ = self.Signal(sig)
	}

	time.Sleep(5 * time.Second)
}
