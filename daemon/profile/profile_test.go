package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestAddThenGetRoundTrips(t *testing.T) {
	s := New(t.TempDir())

	p := model.ConnectionProfile{
		Name: "home-wifi",
		Kind: model.KindWiFi,
		WiFi: &model.WiFiSettings{SSID: "home-net", Security: model.SecurityWPA2PSK},
		IPv4: model.IPConfig{Method: model.MethodAuto},
	}
	u, err := s.Add(p)
	assert.NilError(t, err)
	assert.Check(t, u != "")

	got, err := s.Get("home-wifi")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(got.UUID, u))
	assert.Check(t, is.Equal(got.WiFi.SSID, "home-net"))
	assert.Check(t, is.Equal(got.IPv4.Method, model.MethodAuto))
}

// TestAddThenGetPreservesFullProfile round-trips a profile with every
// kind-tagged payload populated and diffs the result against the
// input, so a field added to ConnectionProfile but forgotten in the
// TOML (de)serialization shows up as a named field in the diff rather
// than a generic "not equal" failure.
func TestAddThenGetPreservesFullProfile(t *testing.T) {
	s := New(t.TempDir())

	want := model.ConnectionProfile{
		Name:          "office-vpn",
		Kind:          model.KindVPN,
		InterfaceHint: "wg0",
		Autoconnect:   true,
		VPN: &model.VPNSettings{
			Backend:  model.VPNWireguard,
			Settings: map[string]string{"endpoint": "vpn.example.com:51820"},
		},
		IPv4: model.IPConfig{Method: model.MethodAuto},
		IPv6: model.IPConfig{Method: model.MethodIgnore},
	}
	u, err := s.Add(want)
	assert.NilError(t, err)

	got, err := s.Get("office-vpn")
	assert.NilError(t, err)

	want.UUID = u
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.ConnectionProfile{}, "CreatedAt")); diff != "" {
		t.Fatalf("round-tripped profile mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	s := New(t.TempDir())
	p := model.ConnectionProfile{Name: "dup", Kind: model.KindEthernet}
	_, err := s.Add(p)
	assert.NilError(t, err)

	_, err = s.Add(p)
	assert.Check(t, errdefs.IsAlreadyExists(err))
}

func TestAddRejectsInvalidName(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Add(model.ConnectionProfile{Name: "../escape"})
	assert.Check(t, errdefs.IsInvalidParameter(err))
}

func TestGetUnknownProfileIsNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Get("nope")
	assert.Check(t, errdefs.IsNotFound(err))
}

func TestListReturnsAllProfiles(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Add(model.ConnectionProfile{Name: "a", Kind: model.KindEthernet})
	assert.NilError(t, err)
	_, err = s.Add(model.ConnectionProfile{Name: "b", Kind: model.KindEthernet})
	assert.NilError(t, err)

	all, err := s.List()
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, 2))
}

func TestListOnMissingDirectoryIsEmpty(t *testing.T) {
	s := New("/nonexistent/does-not-exist")
	all, err := s.List()
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, 0))
}

func TestDeleteByUUIDRemovesFile(t *testing.T) {
	s := New(t.TempDir())
	u, err := s.Add(model.ConnectionProfile{Name: "gone", Kind: model.KindEthernet})
	assert.NilError(t, err)

	assert.NilError(t, s.Delete(u))
	_, err = s.Get("gone")
	assert.Check(t, errdefs.IsNotFound(err))
}

func TestDeleteOfUnknownUUIDIsNoop(t *testing.T) {
	s := New(t.TempDir())
	assert.NilError(t, s.Delete("00000000-0000-0000-0000-000000000000"))
}
