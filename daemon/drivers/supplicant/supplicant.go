// Package supplicant is the WiFi supplicant adapter (one of C5's
// per-technology collaborators, §2/§4.1 step "WiFi"): it drives
// wpa_supplicant through its wpa_cli control interface to associate
// with an access point and reports the resulting association state.
//
// Grounded on the teacher's subprocess-control idiom (cmd/dockerd/trap,
// Process.Run/Wait) for invoking external helper binaries, and on spec
// §4.1/§8/§9 for the connect/disconnect contract, the 30s association
// timeout polled at 500ms, and the stale-configured-network cleanup
// resolution (Open Question (a)).
package supplicant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/netguard/netguardd/daemon/drivers"
	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
)

// AssociationTimeout and AssociationPoll implement spec §5's "WiFi
// association: 30s (supplicant state polled at 500ms intervals)".
const (
	AssociationTimeout = 30 * time.Second
	AssociationPoll    = 500 * time.Millisecond
)

const scanCacheTTL = 10 * time.Second

// AccessPoint is one entry of a scan result.
type AccessPoint struct {
	SSID      string
	BSSID     string
	Frequency int
	SignalDBM int
}

type perInterfaceState struct {
	mu              sync.Mutex
	lastNetworkID   string // last configured-network id this adapter created, "" if none
	associated      bool
	associatedSSID  string
	scanCache       []AccessPoint
	scanCacheAt     time.Time
}

// Adapter manages supplicant state across every WiFi interface it is
// asked to drive.
type Adapter struct {
	mu    sync.Mutex
	state map[string]*perInterfaceState
}

// New creates an empty Adapter.
func New() *Adapter {
	return &Adapter{state: make(map[string]*perInterfaceState)}
}

func (a *Adapter) forInterface(name string) *perInterfaceState {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.state[name]
	if !ok {
		s = &perInterfaceState{}
		a.state[name] = s
	}
	return s
}

// Connect associates interface with ssid/secret, waiting up to
// AssociationTimeout for success. On timeout or wpa_cli failure the
// newly added network is removed before returning, leaving no stray
// configuration (§8 property 3). On any call — success or failure —
// the network created by the *previous* Connect call on this
// interface is removed first, bounding accumulation to at most one
// stale entry (Open Question (a)).
func (a *Adapter) Connect(ctx context.Context, ifaceName, ssid, secret string) error {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return err
	}
	if err := validate.SSID(ssid); err != nil {
		return err
	}
	if secret != "" {
		if err := validate.WiFiPassword(secret); err != nil {
			return err
		}
	}

	st := a.forInterface(ifaceName)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.lastNetworkID != "" {
		_, _ = drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "remove_network", st.lastNetworkID)
		st.lastNetworkID = ""
	}

	id, err := a.addNetwork(ctx, ifaceName, ssid, secret)
	if err != nil {
		return err
	}
	st.lastNetworkID = id

	if _, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "select_network", id); err != nil {
		_, _ = drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "remove_network", id)
		st.lastNetworkID = ""
		return err
	}

	ok, err := a.pollAssociation(ctx, ifaceName, ssid)
	if err != nil {
		_, _ = drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "remove_network", id)
		st.lastNetworkID = ""
		return err
	}
	if !ok {
		_, _ = drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "remove_network", id)
		st.lastNetworkID = ""
		return errdefs.Timeout(fmt.Errorf("association with %q did not complete within %s", ssid, AssociationTimeout))
	}

	st.associated = true
	st.associatedSSID = ssid
	return nil
}

func (a *Adapter) addNetwork(ctx context.Context, ifaceName, ssid, secret string) (string, error) {
	out, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "add_network")
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(out))
	if _, err := strconv.Atoi(id); err != nil {
		return "", errdefs.ParseError(fmt.Errorf("unexpected add_network reply %q", id))
	}

	if _, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "set_network", id, "ssid", strconv.Quote(ssid)); err != nil {
		return "", err
	}
	if secret == "" {
		if _, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "set_network", id, "key_mgmt", "NONE"); err != nil {
			return "", err
		}
	} else {
		if _, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "set_network", id, "psk", strconv.Quote(secret)); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (a *Adapter) pollAssociation(ctx context.Context, ifaceName, ssid string) (bool, error) {
	deadline := time.Now().Add(AssociationTimeout)
	ticker := time.NewTicker(AssociationPoll)
	defer ticker.Stop()

	for {
		out, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "status")
		if err == nil && strings.Contains(string(out), "wpa_state=COMPLETED") && strings.Contains(string(out), "ssid="+ssid) {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, errdefs.Timeout(ctx.Err())
		case <-ticker.C:
		}
	}
}

// Disconnect tears down the current association, if any.
func (a *Adapter) Disconnect(ctx context.Context, ifaceName string) error {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return err
	}
	st := a.forInterface(ifaceName)
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "disconnect"); err != nil {
		return err
	}
	st.associated = false
	st.associatedSSID = ""
	return nil
}

// Status reports whether ifaceName is currently associated and to
// which SSID.
func (a *Adapter) Status(ifaceName string) (associated bool, ssid string) {
	st := a.forInterface(ifaceName)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.associated, st.associatedSSID
}

// Scan forces a fresh scan and invalidates any cached result.
func (a *Adapter) Scan(ctx context.Context, ifaceName string) ([]AccessPoint, error) {
	if err := validate.InterfaceID(ifaceName); err != nil {
		return nil, err
	}
	st := a.forInterface(ifaceName)
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "scan"); err != nil {
		return nil, err
	}
	out, err := drivers.Run(ctx, "wpa_cli", "-i", ifaceName, "scan_results")
	if err != nil {
		return nil, err
	}
	aps := parseScanResults(out)
	st.scanCache = aps
	st.scanCacheAt = time.Now()
	return aps, nil
}

// GetAccessPoints serves the last scan result if it is still within
// scanCacheTTL, otherwise performs a fresh Scan (§SPEC_FULL "WiFi scan
// result cache").
func (a *Adapter) GetAccessPoints(ctx context.Context, ifaceName string) ([]AccessPoint, error) {
	st := a.forInterface(ifaceName)
	st.mu.Lock()
	fresh := !st.scanCacheAt.IsZero() && time.Since(st.scanCacheAt) < scanCacheTTL
	cached := st.scanCache
	st.mu.Unlock()
	if fresh {
		return cached, nil
	}
	return a.Scan(ctx, ifaceName)
}

func parseScanResults(out []byte) []AccessPoint {
	lines := strings.Split(string(out), "\n")
	var aps []AccessPoint
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header row: "bssid / frequency / signal level / flags / ssid"
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}
		freq, _ := strconv.Atoi(fields[1])
		sig, _ := strconv.Atoi(fields[2])
		aps = append(aps, AccessPoint{
			SSID:      fields[4],
			BSSID:     fields[0],
			Frequency: freq,
			SignalDBM: sig,
		})
	}
	return aps
}
