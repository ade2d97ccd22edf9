package vpn

import (
	"path/filepath"
	"testing"

	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestImportExportRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "vpn-connections"))

	assert.NilError(t, s.Import(model.VPNWireguard, "home", []byte("[Interface]\nPrivateKey = abc\n")))

	content, err := s.Export("home")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(content, "[Interface]\nPrivateKey = abc\n"))
}

func TestGetConnectionInfoReturnsBackend(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NilError(t, s.Import(model.VPNOpenVPN, "office", []byte("client\n")))

	info, err := s.GetConnectionInfo("office")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(info.Backend, model.VPNOpenVPN))
}

func TestGetConnectionInfoOfUnknownNameIsNotFound(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.GetConnectionInfo("nope")
	assert.Check(t, errdefs.IsNotFound(err))
}

func TestListConnectionsEnumeratesAll(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NilError(t, s.Import(model.VPNWireguard, "home", []byte("a")))
	assert.NilError(t, s.Import(model.VPNOpenVPN, "office", []byte("b")))

	all, err := s.ListConnections()
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, 2))
}

func TestDeleteRemovesConnection(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NilError(t, s.Import(model.VPNWireguard, "home", []byte("a")))

	assert.NilError(t, s.Delete("home"))
	_, err := s.GetConnectionInfo("home")
	assert.Check(t, errdefs.IsNotFound(err))
}

func TestDeleteOfUnknownNameIsNoop(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NilError(t, s.Delete("does-not-exist"))
}

func TestImportRejectsInvalidName(t *testing.T) {
	s := NewStore(t.TempDir())
	err := s.Import(model.VPNWireguard, "../escape", []byte("a"))
	assert.Check(t, err != nil)
}
