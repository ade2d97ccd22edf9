// Package dhcpserver is the DHCP-server adapter (C5, §6 "DHCP-server
// group") plus the supplemented lease-bookkeeping feature
// (SPEC_FULL.md "DOMAIN-STACK SUPPLEMENTED FEATURES"): start/stop of
// the server helper process, and polling its lease file to surface
// GetLeases and LeaseAssigned/LeaseExpired signals.
//
// Grounded on daemon/drivers.Process for subprocess lifecycle; the
// dnsmasq lease-file line format (`expiry mac ip hostname client-id`)
// is the de facto standard this adapter parses, chosen because it's
// the simplest textual format among common DHCP server helpers and
// keeps the adapter free of a binary-protocol dependency.
package dhcpserver

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/netguard/netguardd/daemon/drivers"
)

// Lease is one DHCP lease record (SPEC_FULL "DHCP lease bookkeeping").
type Lease struct {
	Addr     string
	MAC      string
	Hostname string
	Expiry   time.Time
}

// LeaseEventKind tags a LeaseEvent.
type LeaseEventKind int

const (
	LeaseAssigned LeaseEventKind = iota
	LeaseExpired
)

// LeaseEvent is emitted by Watch when a lease appears or disappears
// from the lease file between polls.
type LeaseEvent struct {
	Kind  LeaseEventKind
	Lease Lease
}

// watchInterval is a var, not a const, so tests can shorten it.
var watchInterval = 5 * time.Second

// Adapter manages one DHCP server subprocess and its lease file.
type Adapter struct {
	mu        sync.Mutex
	proc      *drivers.Process
	leasePath string
}

// New creates an Adapter reading leases from leasePath.
func New(leasePath string) *Adapter {
	return &Adapter{leasePath: leasePath}
}

// Start launches the DHCP server helper using the already-materialized
// config at configPath (its syntax is out of scope, spec Non-goals).
func (a *Adapter) Start(ctx context.Context, configPath string) error {
	a.mu.Lock()
	if a.proc == nil {
		a.proc = &drivers.Process{}
	}
	proc := a.proc
	a.mu.Unlock()
	return proc.Start("dnsmasq", "--no-daemon", "--conf-file="+configPath)
}

// Stop terminates the DHCP server helper process.
func (a *Adapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	proc := a.proc
	a.mu.Unlock()
	if proc == nil {
		return nil
	}
	return proc.Stop(ctx)
}

// Running reports whether the DHCP server process is currently alive.
func (a *Adapter) Running() bool {
	a.mu.Lock()
	proc := a.proc
	a.mu.Unlock()
	return proc != nil && proc.Running()
}

// GetLeases parses the current contents of the lease file.
func (a *Adapter) GetLeases() ([]Lease, error) {
	return parseLeaseFile(a.leasePath)
}

func parseLeaseFile(path string) ([]Lease, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var leases []Lease
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		expiryUnix, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		leases = append(leases, Lease{
			Expiry:   time.Unix(expiryUnix, 0),
			MAC:      fields[1],
			Addr:     fields[2],
			Hostname: fields[3],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return leases, nil
}

// Watch polls the lease file every watchInterval and emits a LeaseEvent
// for each lease that newly appears (LeaseAssigned) or disappears
// (LeaseExpired) since the previous poll. It runs until ctx is
// canceled, then closes the returned channel.
func (a *Adapter) Watch(ctx context.Context) <-chan LeaseEvent {
	out := make(chan LeaseEvent)
	go func() {
		defer close(out)
		prev := make(map[string]Lease)
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			cur, err := a.GetLeases()
			if err == nil {
				curByAddr := make(map[string]Lease, len(cur))
				for _, l := range cur {
					curByAddr[l.Addr] = l
				}
				for addr, l := range curByAddr {
					if _, ok := prev[addr]; !ok {
						select {
						case out <- LeaseEvent{Kind: LeaseAssigned, Lease: l}:
						case <-ctx.Done():
							return
						}
					}
				}
				for addr, l := range prev {
					if _, ok := curByAddr[addr]; !ok {
						select {
						case out <- LeaseEvent{Kind: LeaseExpired, Lease: l}:
						case <-ctx.Done():
							return
						}
					}
				}
				prev = curByAddr
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}
