// Package netmon is the kernel event source (C1, §4.2): it watches the
// kernel's link and address tables and publishes a NetworkEvent stream
// onto an eventbus.Bus.
//
// Grounded on daemon/libnetwork/osl/interface_linux_test.go for the
// vishvananda/netlink calling convention (LinkList to seed state,
// typed link/address records) and on the teacher's general "poll with
// a timeout so a shutdown flag is observed promptly" loop shape used
// throughout daemon/ for long-running goroutines.
package netmon

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containerd/log"
	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/daemon/model"
	"github.com/vishvananda/netlink"
)

// pollInterval is the fallback sysfs polling period (§4.2 "Fallback path").
const pollInterval = 2 * time.Second

// readinessTimeout bounds how long the primary path waits between
// readiness checks before re-examining the shutdown flag (§4.2 "Socket
// I/O model").
const readinessTimeout = time.Second

type linkState struct {
	name string
	up   bool
}

// Monitor is C1: it owns the interface-index→state map and publishes
// onto a Bus.
type Monitor struct {
	bus *eventbus.Bus

	mu    sync.Mutex
	links map[int]linkState
}

// New creates a Monitor that publishes onto bus.
func New(bus *eventbus.Bus) *Monitor {
	return &Monitor{bus: bus, links: make(map[int]linkState)}
}

// Run drives the monitor until ctx is canceled, preferring the netlink
// primary path and falling back to sysfs polling if it cannot start
// (§4.2 "Fallback path"). It returns when ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	if err := m.runNetlink(ctx); err != nil {
		log.G(ctx).WithError(err).Warn("netmon: primary netlink path unavailable, falling back to sysfs polling")
		m.runSysfsPoll(ctx)
	}
}

// runNetlink is the primary path: it seeds the link map from a full
// dump, subscribes to link/address multicast groups, and translates
// updates into NetworkEvents until ctx is canceled. It returns an error
// only if it could not even start (subscription setup failure); once
// running it never returns early except via ctx.
func (m *Monitor) runNetlink(ctx context.Context) error {
	linkList, err := netlink.LinkList()
	if err != nil {
		return err
	}
	m.mu.Lock()
	for _, l := range linkList {
		attrs := l.Attrs()
		m.links[attrs.Index] = linkState{name: attrs.Name, up: isLinkUp(attrs)}
	}
	m.mu.Unlock()

	done := make(chan struct{})
	defer close(done)

	linkCh := make(chan netlink.LinkUpdate)
	if err := netlink.LinkSubscribe(linkCh, done); err != nil {
		return err
	}
	addrCh := make(chan netlink.AddrUpdate)
	if err := netlink.AddrSubscribe(addrCh, done); err != nil {
		return err
	}

	log.G(ctx).Info("netmon: watching link and address events via netlink")
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-linkCh:
			if !ok {
				return nil
			}
			m.handleLinkUpdate(u)
		case u, ok := <-addrCh:
			if !ok {
				return nil
			}
			m.handleAddrUpdate(u)
		case <-time.After(readinessTimeout):
			// Nothing arrived within the window; loop back around so
			// ctx.Done() is re-checked promptly even under a quiet link.
		}
	}
}

func isLinkUp(attrs *netlink.LinkAttrs) bool {
	if attrs.OperState != netlink.OperUnknown {
		return attrs.OperState == netlink.OperUp
	}
	return attrs.Flags&netlinkFlagUp != 0 && attrs.Flags&netlinkFlagRunning != 0
}

// netlinkFlagUp/netlinkFlagRunning mirror net.FlagUp/net.FlagRunning;
// named locally so this file only depends on netlink/golang.org
// conventions, not net.Flags bit values baked in elsewhere.
const (
	netlinkFlagUp      = 1 << 0
	netlinkFlagRunning = 1 << 5
)

func (m *Monitor) handleLinkUpdate(u netlink.LinkUpdate) {
	attrs := u.Link.Attrs()
	index := attrs.Index
	name := attrs.Name

	switch u.Header.Type {
	case unixRtmDelLink:
		m.mu.Lock()
		delete(m.links, index)
		m.mu.Unlock()
		m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceRemoved, Index: index, Name: name})
	default:
		up := isLinkUp(attrs)
		m.mu.Lock()
		prev, known := m.links[index]
		m.links[index] = linkState{name: name, up: up}
		m.mu.Unlock()

		if !known {
			m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceAdded, Index: index, Name: name})
			if up {
				m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Index: index, Name: name, Up: up})
			}
			return
		}
		if prev.up != up {
			m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Index: index, Name: name, Up: up})
		}
	}
}

func (m *Monitor) handleAddrUpdate(u netlink.AddrUpdate) {
	kind := model.AddressAdded
	if !u.NewAddr {
		kind = model.AddressRemoved
	}
	ones, _ := u.LinkAddress.Mask.Size()
	cidr := u.LinkAddress.IP.String() + "/" + strconv.Itoa(ones)

	m.mu.Lock()
	name := m.links[u.LinkIndex].name
	m.mu.Unlock()

	m.bus.Publish(model.NetworkEvent{
		Kind:          model.EventInterfaceAddressChanged,
		Index:         u.LinkIndex,
		Name:          name,
		CIDR:          cidr,
		AddressChange: kind,
	})
}

// runSysfsPoll is the fallback path: poll /sys/class/net/*/operstate
// every pollInterval and synthesize the same event kinds the primary
// path would (§4.2 "Fallback path").
func (m *Monitor) runSysfsPoll(ctx context.Context) {
	log.G(ctx).Warn("netmon: polling /sys/class/net for interface state (diagnostic: sysfs fallback active)")

	m.mu.Lock()
	m.links = make(map[int]linkState)
	m.mu.Unlock()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	m.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

// netClassDir is a var, not a const, so tests can point it at a
// synthetic tree instead of faking /sys/class/net.
var netClassDir = "/sys/class/net"

func (m *Monitor) pollOnce(ctx context.Context) {
	entries, err := os.ReadDir(netClassDir)
	if err != nil {
		log.G(ctx).WithError(err).Error("netmon: sysfs poll failed to list interfaces")
		return
	}

	seen := make(map[int]bool, len(entries))
	for i, entry := range entries {
		name := entry.Name()
		up := readOperstateUp(filepath.Join(netClassDir, name, "operstate"))
		// Sysfs does not expose a kernel ifindex cheaply per-entry without
		// another syscall; the fallback path indexes synthetically by
		// directory order, which is stable across a single run and
		// sufficient to detect add/remove/state-change transitions.
		index := i + 1
		seen[index] = true

		m.mu.Lock()
		prev, known := m.links[index]
		m.links[index] = linkState{name: name, up: up}
		m.mu.Unlock()

		if !known {
			m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceAdded, Index: index, Name: name})
			if up {
				m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Index: index, Name: name, Up: up})
			}
			continue
		}
		if prev.up != up {
			m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Index: index, Name: name, Up: up})
		}
	}

	m.mu.Lock()
	for idx, st := range m.links {
		if !seen[idx] {
			delete(m.links, idx)
			m.bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceRemoved, Index: idx, Name: st.name})
		}
	}
	m.mu.Unlock()
}

func readOperstateUp(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(raw)) == "up"
}

// unixRtmDelLink is RTM_DELLINK (17); named locally to avoid pulling in
// golang.org/x/sys/unix solely for one constant already re-exported
// indirectly through netlink's own header type.
const unixRtmDelLink = 17
