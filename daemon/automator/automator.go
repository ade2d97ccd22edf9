// Package automator is the link-reactive automator (C7, §4.5): it
// subscribes to the event bus and drives DHCP start/stop for whichever
// interfaces its policy map names, without ever touching link state
// itself.
package automator

import (
	"context"
	"sync"
	"time"

	"github.com/containerd/log"
	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/daemon/model"
)

// StabilizationDelay is the carrier-settling wait before starting DHCP
// on a fresh link-up (§4.5, default 500ms).
var StabilizationDelay = 500 * time.Millisecond

// Policy is the per-interface behavior the automator applies.
type Policy struct {
	AutoDHCP bool
}

// dhcpClient is the subset of daemon/drivers/dhcpclient.Adapter the
// automator needs.
type dhcpClient interface {
	Start(ctx context.Context, ifaceName string) error
	Release(ctx context.Context, ifaceName string) error
	Stop(ctx context.Context, ifaceName string) error
}

// Automator is C7.
type Automator struct {
	dhcp dhcpClient

	mu       sync.RWMutex
	policies map[string]Policy
	// up tracks the last observed state for interfaces under policy, so
	// transitions (not absolute level) drive DHCP actions.
	up map[string]bool
}

// New builds an Automator with a fixed policy map (§4.5 "provided by
// configuration"). Interfaces absent from policies are ignored entirely.
func New(dhcp dhcpClient, policies map[string]Policy) *Automator {
	return &Automator{
		dhcp:     dhcp,
		policies: policies,
		up:       make(map[string]bool),
	}
}

// SetPolicies replaces the automator's policy map in place, letting a
// configuration reload (a SIGHUP, say) pick up newly added or removed
// profiles without restarting the automator's event loop.
func (a *Automator) SetPolicies(policies map[string]Policy) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.policies = policies
}

// Run consumes bus events until ctx is canceled or the bus closes.
func (a *Automator) Run(ctx context.Context, bus *eventbus.Bus) {
	sub := bus.Subscribe(0)
	defer sub.Close()

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	for {
		res := sub.Recv()
		switch res.Kind {
		case eventbus.ResultClosed:
			return
		case eventbus.ResultLagged:
			log.G(ctx).WithField("lag", res.Lagged).Warn("automator: fell behind the event bus, resuming from current state")
		case eventbus.ResultEvent:
			a.handle(ctx, res.Event)
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (a *Automator) handle(ctx context.Context, evt model.NetworkEvent) {
	if evt.Kind != model.EventInterfaceStateChanged {
		return
	}
	a.mu.RLock()
	policy, managed := a.policies[evt.Name]
	a.mu.RUnlock()
	if !managed || !policy.AutoDHCP {
		return
	}

	wasUp := a.up[evt.Name]
	a.up[evt.Name] = evt.Up

	switch {
	case evt.Up && !wasUp:
		time.Sleep(StabilizationDelay)
		if err := a.dhcp.Start(ctx, evt.Name); err != nil {
			log.G(ctx).WithError(err).WithField("interface", evt.Name).Warn("automator: auto-dhcp start failed, continuing")
		}

	case !evt.Up && wasUp:
		if err := a.dhcp.Release(ctx, evt.Name); err != nil {
			log.G(ctx).WithError(err).WithField("interface", evt.Name).Warn("automator: auto-dhcp release failed, continuing")
		}
		if err := a.dhcp.Stop(ctx, evt.Name); err != nil {
			log.G(ctx).WithError(err).WithField("interface", evt.Name).Warn("automator: auto-dhcp stop failed, continuing")
		}
	}
}
