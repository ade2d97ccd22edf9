package iface

import (
	"net/netip"
	"os"
	"testing"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"gotest.tools/v3/assert"
)

// requireNetlink skips tests that need to create real links: that
// requires CAP_NET_ADMIN, which CI often doesn't grant.
func requireNetlink(t *testing.T) {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Skip("interface mutation requires root/CAP_NET_ADMIN")
	}
}

// withTestVeth creates a throwaway veth pair in a fresh network
// namespace and returns its peer name, cleaning up on test exit.
// Grounded on daemon/libnetwork/osl/interface_linux_test.go's use of
// netns.NewNS + netlink veth setup for isolated interface tests.
func withTestVeth(t *testing.T) string {
	t.Helper()
	requireNetlink(t)

	newNS, err := netns.New()
	assert.NilError(t, err)
	t.Cleanup(func() { newNS.Close() })

	const name, peer = "ngtest0", "ngtest0p"
	la := netlink.NewLinkAttrs()
	la.Name = name
	veth := &netlink.Veth{LinkAttrs: la, PeerName: peer}
	assert.NilError(t, netlink.LinkAdd(veth))
	t.Cleanup(func() { _ = netlink.LinkDel(veth) })
	return name
}

func TestSetUpDown(t *testing.T) {
	name := withTestVeth(t)
	d := New()

	assert.NilError(t, d.SetUp(name))
	up, err := d.IsUp(name)
	assert.NilError(t, err)
	assert.Check(t, up)

	assert.NilError(t, d.SetDown(name))
}

func TestAddDelAddr(t *testing.T) {
	name := withTestVeth(t)
	d := New()
	assert.NilError(t, d.SetUp(name))

	prefix := netip.MustParsePrefix("198.51.100.1/24")
	assert.NilError(t, d.AddAddr(name, prefix))

	addrs, err := d.Addresses(name)
	assert.NilError(t, err)
	found := false
	for _, a := range addrs {
		if a.CIDR.Addr() == prefix.Addr() {
			found = true
		}
	}
	assert.Check(t, found)

	assert.NilError(t, d.DelAddr(name, prefix))
	addrs, err = d.Addresses(name)
	assert.NilError(t, err)
	for _, a := range addrs {
		assert.Check(t, a.CIDR.Addr() != prefix.Addr())
	}
}

func TestFlushAddrs(t *testing.T) {
	name := withTestVeth(t)
	d := New()
	assert.NilError(t, d.SetUp(name))

	assert.NilError(t, d.AddAddr(name, netip.MustParsePrefix("198.51.100.1/24")))
	assert.NilError(t, d.AddAddr(name, netip.MustParsePrefix("198.51.100.2/24")))

	assert.NilError(t, d.FlushAddrs(name, netlink.FAMILY_V4))
	addrs, err := d.Addresses(name)
	assert.NilError(t, err)
	assert.Equal(t, len(addrs), 0)
}

func TestSetMTU(t *testing.T) {
	name := withTestVeth(t)
	d := New()

	assert.NilError(t, d.SetMTU(name, 1400))

	err := d.SetMTU(name, 67)
	assert.Check(t, err != nil)
}

func TestLinkByNameRejectsBadInterfaceID(t *testing.T) {
	d := New()
	_, err := d.linkByName("eth0; rm -rf /")
	assert.Check(t, err != nil)
}

func TestNotFoundOnMissingInterface(t *testing.T) {
	requireNetlink(t)
	d := New()
	err := d.SetUp("ng-does-not-exist")
	assert.Check(t, err != nil)
}

func TestList(t *testing.T) {
	name := withTestVeth(t)
	d := New()

	names, err := d.List()
	assert.NilError(t, err)
	found := false
	for _, n := range names {
		if n == name {
			found = true
		}
	}
	assert.Check(t, found)
}
