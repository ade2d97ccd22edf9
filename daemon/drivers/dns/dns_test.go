package dns

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestStartRejectsInvalidListenAddr(t *testing.T) {
	a := New()
	err := a.Start(context.Background(), "not-an-ip", 53, []string{"1.1.1.1"})
	assert.Check(t, err != nil)
}

func TestStartRejectsInvalidForwarder(t *testing.T) {
	a := New()
	err := a.Start(context.Background(), "127.0.0.1", 53, []string{"not-an-ip"})
	assert.Check(t, err != nil)
}

func TestGetStatusOfNeverStartedIsNotRunning(t *testing.T) {
	a := New()
	st := a.GetStatus()
	assert.Check(t, !st.Running)
}

func TestAddForwarderBeforeStartOnlyUpdatesList(t *testing.T) {
	a := New()
	err := a.AddForwarder(context.Background(), "1.1.1.1")
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(a.GetForwarders(), []string{"1.1.1.1"}))
}

func TestAddForwarderRejectsInvalidAddress(t *testing.T) {
	a := New()
	err := a.AddForwarder(context.Background(), "not-an-ip")
	assert.Check(t, err != nil)
}

func TestAddForwarderIsIdempotent(t *testing.T) {
	a := New()
	assert.NilError(t, a.AddForwarder(context.Background(), "1.1.1.1"))
	assert.NilError(t, a.AddForwarder(context.Background(), "1.1.1.1"))
	assert.Check(t, is.Len(a.GetForwarders(), 1))
}

func TestRemoveForwarderBeforeStartOnlyUpdatesList(t *testing.T) {
	a := New()
	assert.NilError(t, a.AddForwarder(context.Background(), "1.1.1.1"))
	assert.NilError(t, a.AddForwarder(context.Background(), "8.8.8.8"))
	assert.NilError(t, a.RemoveForwarder(context.Background(), "1.1.1.1"))
	assert.Check(t, is.DeepEqual(a.GetForwarders(), []string{"8.8.8.8"}))
}

func TestStopOfNeverStartedIsNoop(t *testing.T) {
	a := New()
	assert.NilError(t, a.Stop(context.Background()))
}
