// Package aphost is the AP host adapter (C5): start/stop/status for a
// hostapd-style access-point process on a given interface.
//
// Grounded on daemon/drivers.Process for subprocess lifecycle; hostapd's
// own config file syntax is out of scope (spec Non-goals) so Start
// takes an already-materialized config path rather than structured
// settings.
package aphost

import (
	"context"
	"sync"

	"github.com/netguard/netguardd/daemon/drivers"
	"github.com/netguard/netguardd/internal/validate"
)

// Adapter manages one hostapd-style subprocess per interface.
type Adapter struct {
	mu    sync.Mutex
	procs map[string]*drivers.Process
}

// New creates an empty Adapter.
func New() *Adapter {
	return &Adapter{procs: make(map[string]*drivers.Process)}
}

// Start launches the AP host helper for ifaceName using the
// already-written config file at configPath.
func (a *Adapter) Start(ctx context.Context, ifaceName, configPath string) error {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return err
	}
	a.mu.Lock()
	proc, ok := a.procs[ifaceName]
	if !ok {
		proc = &drivers.Process{}
		a.procs[ifaceName] = proc
	}
	a.mu.Unlock()
	return proc.Start("hostapd", configPath)
}

// Stop terminates the AP host process for ifaceName.
func (a *Adapter) Stop(ctx context.Context, ifaceName string) error {
	a.mu.Lock()
	proc, ok := a.procs[ifaceName]
	a.mu.Unlock()
	if !ok {
		return nil
	}
	return proc.Stop(ctx)
}

// Status reports whether an AP host process is running for ifaceName.
func (a *Adapter) Status(ifaceName string) bool {
	a.mu.Lock()
	proc, ok := a.procs[ifaceName]
	a.mu.Unlock()
	return ok && proc.Running()
}
