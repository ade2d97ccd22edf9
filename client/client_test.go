package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseHostURLUnix(t *testing.T) {
	u, err := ParseHostURL("unix:///run/netguardd/netguardd.sock")
	assert.NilError(t, err)
	assert.Equal(t, u.Scheme, "unix")
	assert.Equal(t, u.Host, "/run/netguardd/netguardd.sock")
	assert.Equal(t, u.Path, "")
}

func TestParseHostURLTCPWithBasePath(t *testing.T) {
	u, err := ParseHostURL("tcp://127.0.0.1:2480/api")
	assert.NilError(t, err)
	assert.Equal(t, u.Scheme, "tcp")
	assert.Equal(t, u.Host, "127.0.0.1:2480")
	assert.Equal(t, u.Path, "/api")
}

func TestParseHostURLRejectsMissingScheme(t *testing.T) {
	_, err := ParseHostURL("/run/netguardd/netguardd.sock")
	assert.ErrorContains(t, err, "unable to parse")
}

func newTestClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	c, err := NewClientWithOpts(WithHost("tcp://" + strings.TrimPrefix(ts.URL, "http://")))
	assert.NilError(t, err)
	return c
}

func TestNewClientWithOptsDefaultsToDefaultSocket(t *testing.T) {
	c, err := NewClientWithOpts()
	assert.NilError(t, err)
	assert.Equal(t, c.host, DefaultSocket)
	assert.Equal(t, c.proto, "unix")
}

func TestWithHostFromEnvUsesEnvVar(t *testing.T) {
	t.Setenv(HostEnvVar, "tcp://127.0.0.1:9999")
	c, err := NewClientWithOpts(WithHostFromEnv())
	assert.NilError(t, err)
	assert.Equal(t, c.proto, "tcp")
	assert.Equal(t, c.addr, "127.0.0.1:9999")
}

func TestWithHostFromEnvLeavesDefaultWhenUnset(t *testing.T) {
	t.Setenv(HostEnvVar, "")
	c, err := NewClientWithOpts(WithHostFromEnv())
	assert.NilError(t, err)
	assert.Equal(t, c.host, DefaultSocket)
}

func TestWithHTTPClientRejectsNil(t *testing.T) {
	_, err := NewClientWithOpts(WithHTTPClient(nil))
	assert.ErrorContains(t, err, "nil http.Client")
}

func TestDoSetsTCPAddrAsHostHeader(t *testing.T) {
	var gotHost string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	resp, err := c.do(context.Background(), http.MethodGet, "/ping", nil, nil)
	assert.NilError(t, err)
	resp.Body.Close()
	assert.Check(t, is.Contains(gotHost, "127.0.0.1"))
}

func TestDoDecodesErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "profile not found"})
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	_, err := c.do(context.Background(), http.MethodGet, "/missing", nil, nil)
	assert.ErrorContains(t, err, "profile not found")
	statusErr, ok := err.(*StatusError)
	assert.Check(t, ok)
	assert.Equal(t, statusErr.StatusCode, http.StatusNotFound)
}

func TestDoDecodesErrorFallbackToStatusText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	_, err := c.do(context.Background(), http.MethodGet, "/boom", nil, nil)
	assert.ErrorContains(t, err, "500")
}

func TestVersion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/v1/global/version")
		json.NewEncoder(w).Encode(map[string]string{"version": "1.2.3"})
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	v, err := c.Version(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, v, "1.2.3")
}

func TestDevices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"eth0", "wlan0"})
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	devs, err := c.Devices(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, devs, []string{"eth0", "wlan0"})
}
