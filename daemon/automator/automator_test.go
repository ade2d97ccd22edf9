package automator

import (
	"context"
	"testing"
	"time"

	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/daemon/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type fakeDHCP struct {
	startCalls   chan string
	releaseCalls chan string
	stopCalls    chan string
}

func newFakeDHCP() *fakeDHCP {
	return &fakeDHCP{
		startCalls:   make(chan string, 8),
		releaseCalls: make(chan string, 8),
		stopCalls:    make(chan string, 8),
	}
}

func (f *fakeDHCP) Start(ctx context.Context, ifaceName string) error {
	f.startCalls <- ifaceName
	return nil
}

func (f *fakeDHCP) Release(ctx context.Context, ifaceName string) error {
	f.releaseCalls <- ifaceName
	return nil
}

func (f *fakeDHCP) Stop(ctx context.Context, ifaceName string) error {
	f.stopCalls <- ifaceName
	return nil
}

func recvWithTimeout(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for call")
		return ""
	}
}

func assertNoCall(t *testing.T, ch chan string) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected call: %s", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLinkUpTriggersDHCPStart(t *testing.T) {
	old := StabilizationDelay
	StabilizationDelay = 0
	t.Cleanup(func() { StabilizationDelay = old })

	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{"eth0": {AutoDHCP: true}})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond) // let Run subscribe before publishing

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})

	assert.Check(t, is.Equal(recvWithTimeout(t, dhcp.startCalls), "eth0"))
}

func TestLinkDownTriggersReleaseThenStop(t *testing.T) {
	old := StabilizationDelay
	StabilizationDelay = 0
	t.Cleanup(func() { StabilizationDelay = old })

	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{"eth0": {AutoDHCP: true}})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})
	recvWithTimeout(t, dhcp.startCalls)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: false})

	assert.Check(t, is.Equal(recvWithTimeout(t, dhcp.releaseCalls), "eth0"))
	assert.Check(t, is.Equal(recvWithTimeout(t, dhcp.stopCalls), "eth0"))
}

func TestUnmanagedInterfaceIsIgnored(t *testing.T) {
	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{"eth0": {AutoDHCP: true}})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "wlan0", Up: true})

	assertNoCall(t, dhcp.startCalls)
}

func TestPolicyWithAutoDHCPFalseIsIgnored(t *testing.T) {
	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{"eth0": {AutoDHCP: false}})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})

	assertNoCall(t, dhcp.startCalls)
}

func TestNonStateChangeEventIsIgnored(t *testing.T) {
	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{"eth0": {AutoDHCP: true}})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceAdded, Name: "eth0"})

	assertNoCall(t, dhcp.startCalls)
}

func TestRepeatedUpEventsOnlyStartOnce(t *testing.T) {
	old := StabilizationDelay
	StabilizationDelay = 0
	t.Cleanup(func() { StabilizationDelay = old })

	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{"eth0": {AutoDHCP: true}})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})
	recvWithTimeout(t, dhcp.startCalls)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})
	assertNoCall(t, dhcp.startCalls)
}

func TestSetPoliciesPicksUpNewInterface(t *testing.T) {
	dhcp := newFakeDHCP()
	a := New(dhcp, map[string]Policy{})

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.Run(ctx, bus)
	time.Sleep(10 * time.Millisecond)

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})
	assertNoCall(t, dhcp.startCalls)

	a.SetPolicies(map[string]Policy{"eth0": {AutoDHCP: true}})

	bus.Publish(model.NetworkEvent{Kind: model.EventInterfaceStateChanged, Name: "eth0", Up: true})
	assert.Check(t, is.Equal(recvWithTimeout(t, dhcp.startCalls), "eth0"))
}
