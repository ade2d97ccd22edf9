// Package vpn is the VPN backend adapter (C5, §4.1 step "VPN"): it
// starts the chosen backend helper and returns the virtual interface it
// creates, which the orchestrator re-binds to for subsequent steps.
//
// Grounded on daemon/drivers.Process for subprocess lifecycle and
// github.com/google/uuid for the wg-<uuid8> interface naming scheme
// spec §8 scenario 3 names explicitly.
package vpn

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/netguard/netguardd/daemon/drivers"
	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
)

// Handle identifies one running VPN connection so Disconnect can find
// its process again.
type Handle struct {
	Backend   model.VPNBackend
	Interface string
}

// Adapter manages VPN backend subprocesses keyed by the virtual
// interface name they create.
type Adapter struct {
	mu    sync.Mutex
	procs map[string]*drivers.Process
}

// New creates an empty Adapter.
func New() *Adapter {
	return &Adapter{procs: make(map[string]*drivers.Process)}
}

// Connect starts backend with opaque settings and returns the virtual
// interface name it created.
func (a *Adapter) Connect(ctx context.Context, backend model.VPNBackend, settings map[string]string) (Handle, error) {
	switch backend {
	case model.VPNWireguard:
		return a.connectWireGuard(settings)
	case model.VPNOpenVPN:
		return a.connectSubprocess(backend, "openvpn", []string{"--config", settings["config"]}, "tun-ovpn")
	case model.VPNIPSec:
		return a.connectSubprocess(backend, "ipsec", []string{"up", settings["conn"]}, "ipsec0")
	case model.VPNTorProxy:
		return a.connectSubprocess(backend, "tor", []string{"--SocksPort", settings["socks_port"]}, "tor0")
	default:
		return Handle{}, errdefs.InvalidParameter(fmt.Errorf("unknown VPN backend %q", backend))
	}
}

func (a *Adapter) connectWireGuard(settings map[string]string) (Handle, error) {
	ifaceName := "wg-" + uuid.New().String()[:8]
	proc := &drivers.Process{}
	if err := proc.Start("wg-quick", "up", settings["config"]); err != nil {
		return Handle{}, err
	}
	a.mu.Lock()
	a.procs[ifaceName] = proc
	a.mu.Unlock()
	return Handle{Backend: model.VPNWireguard, Interface: ifaceName}, nil
}

func (a *Adapter) connectSubprocess(backend model.VPNBackend, bin string, args []string, ifaceName string) (Handle, error) {
	proc := &drivers.Process{}
	if err := proc.Start(bin, args...); err != nil {
		return Handle{}, err
	}
	a.mu.Lock()
	a.procs[ifaceName] = proc
	a.mu.Unlock()
	return Handle{Backend: backend, Interface: ifaceName}, nil
}

// Disconnect tears down a previously established VPN connection.
func (a *Adapter) Disconnect(ctx context.Context, h Handle) error {
	a.mu.Lock()
	proc, ok := a.procs[h.Interface]
	delete(a.procs, h.Interface)
	a.mu.Unlock()
	if !ok {
		return nil
	}

	if h.Backend == model.VPNWireguard {
		_, _ = drivers.Run(ctx, "wg-quick", "down", h.Interface)
	}
	return proc.Stop(ctx)
}
