package eventbus

import (
	"testing"

	"github.com/netguard/netguardd/daemon/model"
	"gotest.tools/v3/assert"
)

func evt(name string) model.NetworkEvent {
	return model.NetworkEvent{Kind: model.EventInterfaceAdded, Name: name}
}

func TestOrderingPreserved(t *testing.T) {
	b := New()
	sub := b.Subscribe(DefaultBacklog)

	b.Publish(evt("eth0"))
	b.Publish(evt("eth1"))
	b.Publish(evt("eth2"))

	for _, want := range []string{"eth0", "eth1", "eth2"} {
		r := sub.Recv()
		assert.Equal(t, r.Kind, ResultEvent)
		assert.Equal(t, r.Event.Name, want)
	}
}

func TestOverflowReportsLag(t *testing.T) {
	b := New()
	sub := b.Subscribe(4)

	for i := 0; i < 10; i++ {
		b.Publish(evt("x"))
	}

	r := sub.Recv()
	assert.Equal(t, r.Kind, ResultLagged)
	assert.Equal(t, r.Lagged, 6)

	// The remaining 4 events are still readable after the lag signal.
	for i := 0; i < 4; i++ {
		r = sub.Recv()
		assert.Equal(t, r.Kind, ResultEvent)
	}
}

func TestMultipleSubscribersEachSeeFullOrder(t *testing.T) {
	b := New()
	s1 := b.Subscribe(DefaultBacklog)
	s2 := b.Subscribe(DefaultBacklog)

	b.Publish(evt("a"))
	b.Publish(evt("b"))

	for _, s := range []*Subscription{s1, s2} {
		r := s.Recv()
		assert.Equal(t, r.Event.Name, "a")
		r = s.Recv()
		assert.Equal(t, r.Event.Name, "b")
	}
}

func TestCloseSignalsSubscribers(t *testing.T) {
	b := New()
	sub := b.Subscribe(DefaultBacklog)
	b.Publish(evt("a"))
	b.Close()

	r := sub.Recv()
	assert.Equal(t, r.Kind, ResultEvent)

	r = sub.Recv()
	assert.Equal(t, r.Kind, ResultClosed)
}

func TestSubscribeAfterCloseIsAlreadyClosed(t *testing.T) {
	b := New()
	b.Close()
	sub := b.Subscribe(DefaultBacklog)
	r := sub.Recv()
	assert.Equal(t, r.Kind, ResultClosed)
}
