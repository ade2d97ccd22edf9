package client

import (
	"net/http"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestWithTimeoutSetsClientTimeout(t *testing.T) {
	c, err := NewClientWithOpts(WithTimeout(5 * time.Second))
	assert.NilError(t, err)
	assert.Equal(t, c.client.Timeout, 5*time.Second)
}

func TestWithHostRejectsMalformedHost(t *testing.T) {
	_, err := NewClientWithOpts(WithHost("not-a-valid-host"))
	assert.ErrorContains(t, err, "unable to parse")
}

func TestWithHTTPClientOverridesTransport(t *testing.T) {
	hc := &http.Client{Timeout: 42 * time.Second}
	c, err := NewClientWithOpts(WithHTTPClient(hc))
	assert.NilError(t, err)
	assert.Equal(t, c.client, hc)
}

func TestOptionsAppliedInOrder(t *testing.T) {
	c, err := NewClientWithOpts(
		WithHost("tcp://127.0.0.1:1234"),
		WithTimeout(time.Second),
	)
	assert.NilError(t, err)
	assert.Equal(t, c.addr, "127.0.0.1:1234")
	assert.Equal(t, c.client.Timeout, time.Second)
}
