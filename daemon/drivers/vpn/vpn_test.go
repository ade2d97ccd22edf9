package vpn

import (
	"context"
	"testing"

	"github.com/netguard/netguardd/daemon/model"
	"gotest.tools/v3/assert"
)

func TestConnectRejectsUnknownBackend(t *testing.T) {
	a := New()
	_, err := a.Connect(context.Background(), model.VPNBackend("carrier-pigeon"), nil)
	assert.Check(t, err != nil)
}

func TestDisconnectOfUnknownHandleIsNoop(t *testing.T) {
	a := New()
	err := a.Disconnect(context.Background(), Handle{Backend: model.VPNWireguard, Interface: "wg-doesnotexist"})
	assert.NilError(t, err)
}
