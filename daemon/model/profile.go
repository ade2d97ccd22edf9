// Package model holds the data types shared across netguardd's
// components: connection profiles, active connections, and the kernel
// events the netlink monitor produces.
package model

import "time"

// Kind identifies which kind-tagged payload a ConnectionProfile carries.
type Kind string

const (
	KindEthernet Kind = "ethernet"
	KindWiFi     Kind = "wifi"
	KindVPN      Kind = "vpn"
	KindBridge   Kind = "bridge"
	KindVLAN     Kind = "vlan"
	KindTun      Kind = "tun"
	KindTap      Kind = "tap"
)

// Security identifies the WiFi security mode.
type Security string

const (
	SecurityOpen    Security = "open"
	SecurityWEP     Security = "wep"
	SecurityWPAPSK  Security = "wpa-psk"
	SecurityWPA2PSK Security = "wpa2-psk"
	SecurityWPA3SAE Security = "wpa3-sae"
	SecurityWPAEAP  Security = "wpa-eap"
)

// VPNBackend identifies which VPN subprocess adapter handles a profile.
type VPNBackend string

const (
	VPNWireguard VPNBackend = "wireguard"
	VPNOpenVPN   VPNBackend = "openvpn"
	VPNIPSec     VPNBackend = "ipsec"
	VPNTorProxy  VPNBackend = "tor-proxy"
)

// IPMethod identifies how an address family is configured.
type IPMethod string

const (
	MethodAuto      IPMethod = "auto"
	MethodManual    IPMethod = "manual"
	MethodLinkLocal IPMethod = "link-local"
	MethodIgnore    IPMethod = "ignore"
)

// WiFiSettings is the kind-tagged payload for KindWiFi profiles.
type WiFiSettings struct {
	SSID     string   `toml:"ssid"`
	Security Security `toml:"security"`
	Secret   string   `toml:"secret,omitempty"`
	Hidden   bool     `toml:"hidden"`
}

// VPNSettings is the kind-tagged payload for KindVPN profiles. Settings
// holds the backend-opaque key/value pairs handed verbatim to the C5
// adapter; their syntax is out of scope (see spec Non-goals).
type VPNSettings struct {
	Backend  VPNBackend        `toml:"backend"`
	Settings map[string]string `toml:"settings,omitempty"`
}

// BridgeSettings is the kind-tagged payload for KindBridge profiles.
type BridgeSettings struct {
	Members []string `toml:"members,omitempty"`
}

// VLANSettings is the kind-tagged payload for KindVLAN profiles.
type VLANSettings struct {
	Parent string `toml:"parent"`
	VID    int    `toml:"vid"`
}

// TunTapSettings is the kind-tagged payload for KindTun/KindTap profiles.
type TunTapSettings struct {
	Mode  string `toml:"mode,omitempty"`
	Owner string `toml:"owner,omitempty"`
}

// IPConfig is the IPv4 or IPv6 configuration block of a ConnectionProfile.
type IPConfig struct {
	Method  IPMethod `toml:"method"`
	Address string   `toml:"address,omitempty"` // CIDR
	Gateway string   `toml:"gateway,omitempty"`
	DNS     []string `toml:"dns,omitempty"`
}

// ConnectionProfile is the declarative input to the orchestrator (§3).
type ConnectionProfile struct {
	UUID          string `toml:"uuid"`
	Name          string `toml:"name"`
	Kind          Kind   `toml:"kind"`
	InterfaceHint string `toml:"interface_hint,omitempty"`
	Autoconnect   bool   `toml:"autoconnect"`

	WiFi   *WiFiSettings   `toml:"wifi,omitempty"`
	VPN    *VPNSettings    `toml:"vpn,omitempty"`
	Bridge *BridgeSettings `toml:"bridge,omitempty"`
	VLAN   *VLANSettings   `toml:"vlan,omitempty"`
	TunTap *TunTapSettings `toml:"tuntap,omitempty"`

	IPv4 IPConfig `toml:"ipv4"`
	IPv6 IPConfig `toml:"ipv6"`

	CreatedAt time.Time `toml:"created_at,omitempty"`
}
