package dhcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func writeLeaseFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGetLeasesParsesDnsmasqFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dnsmasq.leases")
	writeLeaseFile(t, path, "1893456000 aa:bb:cc:dd:ee:ff 192.168.1.50 myhost 01:aa:bb:cc:dd:ee:ff")

	a := New(path)
	leases, err := a.GetLeases()
	assert.NilError(t, err)
	assert.Equal(t, len(leases), 1)
	assert.Equal(t, leases[0].Addr, "192.168.1.50")
	assert.Equal(t, leases[0].MAC, "aa:bb:cc:dd:ee:ff")
	assert.Equal(t, leases[0].Hostname, "myhost")
}

func TestGetLeasesMissingFileIsEmpty(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "absent.leases"))
	leases, err := a.GetLeases()
	assert.NilError(t, err)
	assert.Equal(t, len(leases), 0)
}

func TestWatchEmitsAssignedThenExpired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dnsmasq.leases")
	writeLeaseFile(t, path)

	prevInterval := watchInterval
	watchInterval = 20 * time.Millisecond
	defer func() { watchInterval = prevInterval }()

	a := New(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := a.Watch(ctx)

	writeLeaseFile(t, path, "9999999999 aa:bb:cc:dd:ee:ff 192.168.1.50 myhost 01")
	ev := <-events
	assert.Equal(t, ev.Kind, LeaseAssigned)
	assert.Equal(t, ev.Lease.Addr, "192.168.1.50")

	writeLeaseFile(t, path)
	ev = <-events
	assert.Equal(t, ev.Kind, LeaseExpired)
	assert.Equal(t, ev.Lease.Addr, "192.168.1.50")
}
