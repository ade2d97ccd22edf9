package model

import "time"

// Phase is an ActiveConnection's position in the orchestrator's state
// machine (§4.1).
type Phase string

const (
	PhaseActivating   Phase = "activating"
	PhaseActive       Phase = "active"
	PhaseDeactivating Phase = "deactivating"
)

// ClaimKind names a sub-resource the orchestrator acquired while
// activating a profile. Rollback consults the claim list in LIFO order.
type ClaimKind string

const (
	ClaimLinkUp         ClaimKind = "link_up"
	ClaimWiFiAssociated ClaimKind = "wifi_associated"
	ClaimVPNUp          ClaimKind = "vpn_up"
	ClaimDHCPv4         ClaimKind = "dhcp_v4"
	ClaimIPv4Static     ClaimKind = "ipv4_static"
	ClaimDHCPv6         ClaimKind = "dhcp_v6"
	ClaimIPv6Static     ClaimKind = "ipv6_static"
)

// Claim records one acquired sub-resource, plus any handle the rollback
// step needs (e.g. the VPN backend's connection handle).
type Claim struct {
	Kind   ClaimKind
	Handle string
}

// ActiveConnection is the runtime binding of a ConnectionProfile to a
// specific interface (§3). The orchestrator owns it exclusively: readers
// must not mutate the claim slice.
type ActiveConnection struct {
	Interface string
	Profile   ConnectionProfile
	Phase     Phase
	Claims    []Claim
	StartedAt time.Time
}

// PushClaim appends a newly acquired sub-resource to the claim list.
func (a *ActiveConnection) PushClaim(kind ClaimKind, handle string) {
	a.Claims = append(a.Claims, Claim{Kind: kind, Handle: handle})
}

// RollbackOrder returns the claim list reversed: LIFO order for undoing
// an activation (§4.1 "Rollback").
func (a *ActiveConnection) RollbackOrder() []Claim {
	out := make([]Claim, len(a.Claims))
	for i, c := range a.Claims {
		out[len(a.Claims)-1-i] = c
	}
	return out
}
