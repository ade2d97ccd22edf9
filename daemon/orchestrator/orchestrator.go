// Package orchestrator is the connection orchestrator (C6, §4.1): the
// state machine that activates a ConnectionProfile against an
// interface, rolling back every claimed sub-resource in reverse order
// on failure, and deactivates it symmetrically.
//
// Grounded on spec §4.1's algorithm and rollback table directly (there
// is no teacher analog for a network-connection state machine); the
// per-interface admission lock uses sync.Map.LoadOrStore instead of
// github.com/moby/locker because locker's Lock/Unlock is blocking and
// §5 requires the second contender to fail fast (see SPEC_FULL.md and
// DESIGN.md for the full rejection rationale). The active-connection
// table itself reuses the teacher's indexed-table idiom via
// hashicorp/go-memdb (store.go).
package orchestrator

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/containerd/log"
	"github.com/netguard/netguardd/daemon/drivers/vpn"
	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
	"github.com/vishvananda/netlink"
)

// StabilizationDelay is the carrier/association settling wait before
// starting DHCP during activation (§4.1 step 4, default 2s).
var StabilizationDelay = 2 * time.Second

// linkDriver is the subset of daemon/iface.Driver the orchestrator
// needs (C4's façade).
type linkDriver interface {
	SetUp(name string) error
	SetDown(name string) error
	AddAddr(name string, prefix netip.Prefix) error
	FlushAddrs(name string, family int) error
	AddDefaultRoute(name, gw string) error
}

// wifiDriver is the subset of daemon/drivers/supplicant.Adapter the
// orchestrator needs (C5 WiFi collaborator).
type wifiDriver interface {
	Connect(ctx context.Context, ifaceName, ssid, secret string) error
	Disconnect(ctx context.Context, ifaceName string) error
}

// dhcpDriver is the subset of daemon/drivers/dhcpclient.Adapter the
// orchestrator needs (C5 DHCP client collaborator).
type dhcpDriver interface {
	Start(ctx context.Context, ifaceName string) error
	Release(ctx context.Context, ifaceName string) error
	Stop(ctx context.Context, ifaceName string) error
}

// vpnDriver is the subset of daemon/drivers/vpn.Adapter the
// orchestrator needs (C5 VPN collaborator).
type vpnDriver interface {
	Connect(ctx context.Context, backend model.VPNBackend, settings map[string]string) (vpn.Handle, error)
	Disconnect(ctx context.Context, h vpn.Handle) error
}

// Orchestrator is C6. It depends on C4/C5 only through the narrow
// interfaces above, so tests can substitute fakes instead of driving
// real netlink/subprocess collaborators.
type Orchestrator struct {
	iface      linkDriver
	supplicant wifiDriver
	dhcpClient dhcpDriver
	vpn        vpnDriver

	store *store
	// claim is the per-interface exclusive admission lock (§5): LoadOrStore
	// is the fail-fast compare-and-swap equivalent of moby/locker's Lock,
	// without blocking the second contender.
	claim sync.Map
}

// New builds an Orchestrator wired to its C4/C5 collaborators.
func New(d linkDriver, sup wifiDriver, dhcp dhcpDriver, v vpnDriver) (*Orchestrator, error) {
	st, err := newStore()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{iface: d, supplicant: sup, dhcpClient: dhcp, vpn: v, store: st}, nil
}

// Activate runs the §4.1 algorithm for profile.
func (o *Orchestrator) Activate(ctx context.Context, profile model.ConnectionProfile) (model.ActiveConnection, error) {
	interfaceName := profile.InterfaceHint
	if interfaceName == "" {
		return model.ActiveConnection{}, errdefs.InvalidParameter(fmt.Errorf("profile %q has no interface_hint", profile.Name))
	}
	if err := validate.InterfaceID(interfaceName); err != nil {
		return model.ActiveConnection{}, err
	}

	// Step 1: admission. The claim guards only this call (§5 "held for
	// the entire activate or deactivate"); whether an interface already
	// has a live ActiveConnection is a separate check against the store,
	// so that a second, non-concurrent activate on an already-active
	// interface is also rejected, not just a racing concurrent one.
	if _, loaded := o.claim.LoadOrStore(interfaceName, profile.UUID); loaded {
		return model.ActiveConnection{}, errdefs.AlreadyActive(fmt.Errorf("interface %q already has an active connection", interfaceName))
	}
	defer o.claim.Delete(interfaceName)

	if _, ok, err := o.store.get(interfaceName); err != nil {
		return model.ActiveConnection{}, errdefs.IO(err)
	} else if ok {
		return model.ActiveConnection{}, errdefs.AlreadyActive(fmt.Errorf("interface %q already has an active connection", interfaceName))
	}

	conn := model.ActiveConnection{
		Interface: interfaceName,
		Profile:   profile,
		Phase:     model.PhaseActivating,
		StartedAt: time.Now(),
	}

	if err := o.activateSteps(ctx, &conn); err != nil {
		o.rollback(ctx, &conn)
		return model.ActiveConnection{}, err
	}

	conn.Phase = model.PhaseActive
	if err := o.store.put(conn); err != nil {
		o.rollback(ctx, &conn)
		return model.ActiveConnection{}, errdefs.IO(err)
	}
	return conn, nil
}

func (o *Orchestrator) activateSteps(ctx context.Context, conn *model.ActiveConnection) error {
	activeInterface := conn.Interface

	// Step 2: link up.
	if err := o.iface.SetUp(activeInterface); err != nil {
		return err
	}
	conn.PushClaim(model.ClaimLinkUp, "")

	// Step 3: kind-dispatch.
	switch conn.Profile.Kind {
	case model.KindWiFi:
		if conn.Profile.WiFi == nil {
			return errdefs.InvalidParameter(fmt.Errorf("wifi profile %q missing wifi settings", conn.Profile.Name))
		}
		if err := o.supplicant.Connect(ctx, activeInterface, conn.Profile.WiFi.SSID, conn.Profile.WiFi.Secret); err != nil {
			return err
		}
		conn.PushClaim(model.ClaimWiFiAssociated, "")

	case model.KindVPN:
		if conn.Profile.VPN == nil {
			return errdefs.InvalidParameter(fmt.Errorf("vpn profile %q missing vpn settings", conn.Profile.Name))
		}
		handle, err := o.vpn.Connect(ctx, conn.Profile.VPN.Backend, conn.Profile.VPN.Settings)
		if err != nil {
			return err
		}
		// Re-bind: subsequent steps (IP config, and this claim's own
		// interface field) operate on the backend's virtual interface.
		activeInterface = handle.Interface
		conn.Interface = handle.Interface
		conn.PushClaim(model.ClaimVPNUp, string(handle.Backend)+":"+handle.Interface)
	}

	// Step 4: IPv4 configuration.
	if err := o.configureIPv4(ctx, conn, activeInterface); err != nil {
		return err
	}

	// Step 5: IPv6 configuration. Only the manual method acts (address
	// add plus an ipv6_static claim); no DHCPv6 client is started and no
	// IPv6 gateway is installed.
	if err := o.configureIPv6(ctx, conn, activeInterface); err != nil {
		return err
	}

	return nil
}

func (o *Orchestrator) configureIPv4(ctx context.Context, conn *model.ActiveConnection, activeInterface string) error {
	switch conn.Profile.IPv4.Method {
	case model.MethodAuto, "":
		time.Sleep(StabilizationDelay)
		if err := o.dhcpClient.Start(ctx, activeInterface); err != nil {
			// DHCP failure during activation is non-fatal (§4.1 step 4).
			log.G(ctx).WithError(err).WithField("interface", activeInterface).Warn("orchestrator: dhcp_v4 start failed, continuing without an address")
			return nil
		}
		conn.PushClaim(model.ClaimDHCPv4, "")

	case model.MethodManual:
		prefix, err := validate.CIDR(conn.Profile.IPv4.Address)
		if err != nil {
			return err
		}
		if err := o.iface.AddAddr(activeInterface, prefix); err != nil {
			return err
		}
		conn.PushClaim(model.ClaimIPv4Static, "")
		if conn.Profile.IPv4.Gateway != "" {
			if err := o.iface.AddDefaultRoute(activeInterface, conn.Profile.IPv4.Gateway); err != nil {
				return err
			}
		}

	case model.MethodLinkLocal, model.MethodIgnore:
		// No action.
	}
	return nil
}

func (o *Orchestrator) configureIPv6(ctx context.Context, conn *model.ActiveConnection, activeInterface string) error {
	switch conn.Profile.IPv6.Method {
	case model.MethodManual:
		prefix, err := validate.CIDR(conn.Profile.IPv6.Address)
		if err != nil {
			return err
		}
		if err := o.iface.AddAddr(activeInterface, prefix); err != nil {
			return err
		}
		conn.PushClaim(model.ClaimIPv6Static, "")
	default:
		// auto / link-local / ignore / unspecified: no action; unlike
		// IPv4 "auto", no DHCP client is started.
	}
	return nil
}

// rollback undoes every claim in conn in LIFO order, logging and
// continuing past any individual failure (§4.1 "Rollback").
func (o *Orchestrator) rollback(ctx context.Context, conn *model.ActiveConnection) {
	for _, claim := range conn.RollbackOrder() {
		var err error
		switch claim.Kind {
		case model.ClaimIPv4Static, model.ClaimIPv6Static:
			err = o.iface.FlushAddrs(conn.Interface, netlink.FAMILY_ALL)
		case model.ClaimDHCPv4:
			_ = o.dhcpClient.Release(ctx, conn.Interface)
			err = o.dhcpClient.Stop(ctx, conn.Interface)
		case model.ClaimVPNUp:
			backend, virtIface, ok := strings.Cut(claim.Handle, ":")
			if ok {
				err = o.vpn.Disconnect(ctx, vpn.Handle{Backend: model.VPNBackend(backend), Interface: virtIface})
			}
		case model.ClaimWiFiAssociated:
			err = o.supplicant.Disconnect(ctx, conn.Interface)
		case model.ClaimLinkUp:
			err = o.iface.SetDown(conn.Interface)
		}
		if err != nil {
			log.G(ctx).WithError(err).WithField("claim", string(claim.Kind)).Warn("orchestrator: rollback step failed, continuing best-effort")
		}
	}
}

// Deactivate runs the recorded rollback list for interfaceName's
// ActiveConnection. Unknown interfaces are a no-op success (§7).
func (o *Orchestrator) Deactivate(ctx context.Context, interfaceName string) error {
	if _, loaded := o.claim.LoadOrStore(interfaceName, "deactivating"); loaded {
		return errdefs.AlreadyActive(fmt.Errorf("interface %q is busy with a concurrent activate/deactivate", interfaceName))
	}
	defer o.claim.Delete(interfaceName)

	conn, ok, err := o.store.get(interfaceName)
	if err != nil {
		return errdefs.IO(err)
	}
	if !ok {
		return nil
	}
	conn.Phase = model.PhaseDeactivating

	o.rollback(ctx, &conn)

	if err := o.store.delete(interfaceName); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// ListActive returns every currently active connection.
func (o *Orchestrator) ListActive() ([]model.ActiveConnection, error) {
	conns, err := o.store.list()
	if err != nil {
		return nil, errdefs.IO(err)
	}
	return conns, nil
}

// AutoConnectAll activates every profile with Autoconnect set,
// continuing past individual failures (§4.1 "auto_connect_all").
func (o *Orchestrator) AutoConnectAll(ctx context.Context, profiles []model.ConnectionProfile) {
	for _, p := range profiles {
		if !p.Autoconnect {
			continue
		}
		if _, err := o.Activate(ctx, p); err != nil {
			log.G(ctx).WithError(err).WithField("profile", p.Name).Warn("orchestrator: auto-connect failed, continuing with remaining profiles")
		}
	}
}
