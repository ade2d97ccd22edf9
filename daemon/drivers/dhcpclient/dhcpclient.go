// Package dhcpclient is the DHCP client adapter (C5, §4.1 step "auto"
// IPv4 method, §4.5 link-reactive automator): start/release/stop for a
// per-interface DHCP client helper process.
//
// Grounded on daemon/drivers.Process for subprocess lifecycle
// (graceful-then-forced stop) and spec §4.1's explicit note that DHCP
// failure is non-fatal to the caller.
package dhcpclient

import (
	"context"
	"sync"

	"github.com/netguard/netguardd/daemon/drivers"
	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
)

// Adapter manages one DHCP client subprocess per interface.
type Adapter struct {
	mu    sync.Mutex
	procs map[string]*drivers.Process
}

// New creates an empty Adapter.
func New() *Adapter {
	return &Adapter{procs: make(map[string]*drivers.Process)}
}

// Start launches a DHCP client for ifaceName. Starting on an interface
// that already has one running returns errdefs.AlreadyActive.
func (a *Adapter) Start(ctx context.Context, ifaceName string) error {
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

	return proc.Start("dhclient", "-d", "-1", ifaceName)
}

// Release sends a DHCPRELEASE for the interface's current lease,
// without stopping the client process.
func (a *Adapter) Release(ctx context.Context, ifaceName string) error {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return err
	}
	_, err := drivers.Run(ctx, "dhclient", "-r", ifaceName)
	return err
}

// Stop terminates the DHCP client process for ifaceName. Stopping an
// interface with no running client is a no-op success.
func (a *Adapter) Stop(ctx context.Context, ifaceName string) error {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return err
	}
	a.mu.Lock()
	proc, ok := a.procs[ifaceName]
	a.mu.Unlock()
	if !ok {
		return nil
	}
	return proc.Stop(ctx)
}

// Status reports whether a DHCP client is currently running for
// ifaceName.
func (a *Adapter) Status(ifaceName string) (running bool, err error) {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return false, err
	}
	a.mu.Lock()
	proc, ok := a.procs[ifaceName]
	a.mu.Unlock()
	if !ok {
		return false, nil
	}
	if !proc.Running() {
		if werr := proc.WaitError(); werr != nil {
			return false, errdefs.CommandFailed(werr)
		}
	}
	return proc.Running(), nil
}
