// Package dns is the DNS forwarder adapter (C5, §6 "DNS group"):
// start/stop of a dnsmasq-style forwarding-only resolver and in-process
// bookkeeping of the forwarder address list, since the upstream helper
// is reconfigured by rewriting its config and restarting it rather than
// by a live control protocol (out of scope, like every other C5
// adapter's wire format).
//
// Grounded on daemon/drivers/dhcpserver, the sibling adapter that
// drives the same helper binary for a different purpose.
package dns

import (
	"context"
	"fmt"
	"sync"

	"github.com/netguard/netguardd/daemon/drivers"
	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
)

// Status is a snapshot of the forwarder's run state.
type Status struct {
	Running    bool
	ListenAddr string
	Port       int
	Forwarders []string
}

// Adapter manages one dnsmasq-as-forwarder subprocess.
type Adapter struct {
	mu         sync.Mutex
	proc       *drivers.Process
	listenAddr string
	port       int
	forwarders []string
}

// New creates an idle Adapter.
func New() *Adapter {
	return &Adapter{}
}

// Start launches the forwarder bound to listenAddr:port, forwarding
// upstream to the given resolver addresses.
func (a *Adapter) Start(ctx context.Context, listenAddr string, port int, forwarders []string) error {
	if err := validate.IP(listenAddr); err != nil {
		return err
	}
	for _, f := range forwarders {
		if err := validate.IP(f); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.proc != nil && a.proc.Running() {
		return errdefs.AlreadyActive(fmt.Errorf("dns forwarder is already running"))
	}

	args := []string{
		"--no-daemon",
		"--no-resolv",
		"--listen-address=" + listenAddr,
		"--port=" + fmt.Sprint(port),
	}
	for _, f := range forwarders {
		args = append(args, "--server="+f)
	}

	a.proc = &drivers.Process{}
	if err := a.proc.Start("dnsmasq", args...); err != nil {
		return err
	}
	a.listenAddr = listenAddr
	a.port = port
	a.forwarders = append([]string(nil), forwarders...)
	return nil
}

// Stop terminates the forwarder process.
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	proc := a.proc
	a.mu.Unlock()
	if proc == nil {
		return nil
	}
	return proc.Stop(ctx)
}

// AddForwarder appends addr to the forwarder list and restarts the
// helper so the change takes effect (dnsmasq has no live reconfigure).
func (a *Adapter) AddForwarder(ctx context.Context, addr string) error {
	if err := validate.IP(addr); err != nil {
		return err
	}
	a.mu.Lock()
	for _, f := range a.forwarders {
		if f == addr {
			a.mu.Unlock()
			return nil
		}
	}
	forwarders := append(append([]string(nil), a.forwarders...), addr)
	listenAddr, port := a.listenAddr, a.port
	running := a.proc != nil && a.proc.Running()
	a.mu.Unlock()

	if !running {
		a.mu.Lock()
		a.forwarders = forwarders
		a.mu.Unlock()
		return nil
	}
	if err := a.Stop(ctx); err != nil {
		return err
	}
	return a.Start(ctx, listenAddr, port, forwarders)
}

// RemoveForwarder removes addr from the forwarder list, restarting the
// helper if it is currently running.
func (a *Adapter) RemoveForwarder(ctx context.Context, addr string) error {
	a.mu.Lock()
	out := make([]string, 0, len(a.forwarders))
	for _, f := range a.forwarders {
		if f != addr {
			out = append(out, f)
		}
	}
	listenAddr, port := a.listenAddr, a.port
	running := a.proc != nil && a.proc.Running()
	a.mu.Unlock()

	if !running {
		a.mu.Lock()
		a.forwarders = out
		a.mu.Unlock()
		return nil
	}
	if err := a.Stop(ctx); err != nil {
		return err
	}
	return a.Start(ctx, listenAddr, port, out)
}

// GetForwarders returns the currently configured forwarder addresses.
func (a *Adapter) GetForwarders() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.forwarders...)
}

// GetStatus reports whether the forwarder is running and its config.
func (a *Adapter) GetStatus() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		Running:    a.proc != nil && a.proc.Running(),
		ListenAddr: a.listenAddr,
		Port:       a.port,
		Forwarders: append([]string(nil), a.forwarders...),
	}
}
