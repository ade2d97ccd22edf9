package iface

import (
	"net/netip"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestAddRouteRejectsBadDest(t *testing.T) {
	d := New()
	err := d.AddRoute("not-a-cidr", "10.0.0.1", "eth0", 0)
	assert.Check(t, err != nil)
}

func TestAddRouteRejectsBadGateway(t *testing.T) {
	d := New()
	err := d.AddRoute("10.0.0.0/24", "not-an-ip", "eth0", 0)
	assert.Check(t, err != nil)
}

func TestRemoveRouteRejectsBadDest(t *testing.T) {
	d := New()
	err := d.RemoveRoute("not-a-cidr")
	assert.Check(t, err != nil)
}

func TestAddRouteOnMissingInterfaceIsNotFound(t *testing.T) {
	requireNetlink(t)
	d := New()
	err := d.AddRoute("198.51.100.0/24", "198.51.100.1", "ng-does-not-exist", 0)
	assert.Check(t, err != nil)
}

func TestAddRemoveRouteOnVeth(t *testing.T) {
	name := withTestVeth(t)
	d := New()
	assert.NilError(t, d.SetUp(name))
	assert.NilError(t, d.AddAddr(name, netip.MustParsePrefix("198.51.100.1/24")))

	assert.NilError(t, d.AddRoute("203.0.113.0/24", "198.51.100.254", name, 100))

	routes, err := d.GetRoutes()
	assert.NilError(t, err)
	found := false
	for _, r := range routes {
		if r.Dest == "203.0.113.0/24" {
			found = true
			assert.Check(t, is.Equal(r.Interface, name))
		}
	}
	assert.Check(t, found)

	assert.NilError(t, d.RemoveRoute("203.0.113.0/24"))
}
