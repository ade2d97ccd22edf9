package server

import (
	"sync/atomic"

	"github.com/netguard/netguardd/daemon/automator"
	"github.com/netguard/netguardd/daemon/drivers/aphost"
	"github.com/netguard/netguardd/daemon/drivers/dhcpclient"
	"github.com/netguard/netguardd/daemon/drivers/dhcpserver"
	"github.com/netguard/netguardd/daemon/drivers/dns"
	"github.com/netguard/netguardd/daemon/drivers/supplicant"
	"github.com/netguard/netguardd/daemon/drivers/vpn"
	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/daemon/iface"
	"github.com/netguard/netguardd/daemon/orchestrator"
	"github.com/netguard/netguardd/daemon/privtoken"
	"github.com/netguard/netguardd/daemon/profile"
)

// Gateway holds every collaborator the request gateway dispatches to.
// It has no behavior of its own beyond what the per-group handler files
// (global.go, device.go, wifi.go, ...) implement as Server methods.
type Gateway struct {
	Version string

	// RegulatoryDomain is the two-letter country code (or "00" for the
	// no-country-set world domain) StartAP validates WiFi channel 12/13
	// requests against.
	RegulatoryDomain string

	Orchestrator *orchestrator.Orchestrator
	Iface        *iface.Driver
	Tokens       *privtoken.Store
	Supplicant   *supplicant.Adapter
	DHCPClient   *dhcpclient.Adapter
	VPN          *vpn.Adapter
	VPNStore     *vpn.Store
	DHCPServer   *dhcpserver.Adapter
	DNS          *dns.Adapter
	APHost       *aphost.Adapter
	Profiles     *profile.Store
	Automator    *automator.Automator
	Bus          *eventbus.Bus

	networkingEnabled atomic.Bool
}

// NewGateway builds a Gateway with networking enabled by default.
func NewGateway() *Gateway {
	gw := &Gateway{RegulatoryDomain: "00"}
	gw.networkingEnabled.Store(true)
	return gw
}
