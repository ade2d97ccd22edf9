package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/daemon/privtoken"
	"github.com/netguard/netguardd/daemon/profile"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	gw := NewGateway()
	gw.Version = "test"
	gw.Tokens = privtoken.New(t.TempDir())
	gw.Profiles = profile.New(t.TempDir())
	gw.Bus = eventbus.New()
	return gw
}

func TestVersionEndpointIsUnprivileged(t *testing.T) {
	gw := newTestGateway(t)
	srv := New(gw)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/global/version")
	assert.NilError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	var body map[string]string
	assert.NilError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, body["version"], "test")
}

func TestPrivilegedEndpointWithoutPeerUIDIsForbidden(t *testing.T) {
	gw := newTestGateway(t)
	srv := New(gw)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/privilege/grant", "application/json", nil)
	assert.NilError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusForbidden)
}

// TestMiddlewareGrantsRootCaller exercises the privilege group handlers
// directly, bypassing the real socket-credential lookup by stashing a
// peer uid straight into the context — the same way a unix-socket peer
// at uid 0 would arrive after peerUIDFromConn runs.
func TestMiddlewareGrantsRootCaller(t *testing.T) {
	gw := newTestGateway(t)
	srv := New(gw)

	handler := srv.handlerWithGlobalMiddlewares(srv.handlePrivilegeGrant)
	ctx := context.WithValue(context.Background(), ctxKeyPrivileged, true)
	ctx = context.WithValue(ctx, ctxKeyPeerUID, uint32(0))

	req := httptest.NewRequest(http.MethodPost, "/v1/privilege/grant", jsonBody(t, map[string]interface{}{
		"duration_minutes": 5,
	}))
	rec := httptest.NewRecorder()
	assert.NilError(t, handler(ctx, rec, req, nil))
	assert.Equal(t, rec.Code, http.StatusOK)

	assert.Check(t, gw.Tokens.HasValid(0))
}

func TestMiddlewareRejectsNonRootWithoutToken(t *testing.T) {
	gw := newTestGateway(t)
	srv := New(gw)

	handler := srv.handlerWithGlobalMiddlewares(srv.handleDeviceActivate)
	ctx := context.WithValue(context.Background(), ctxKeyPrivileged, true)
	ctx = context.WithValue(ctx, ctxKeyPeerUID, uint32(1000))

	req := httptest.NewRequest(http.MethodPost, "/v1/devices/eth0/activate", nil)
	rec := httptest.NewRecorder()
	err := handler(ctx, rec, req, map[string]string{"name": "eth0"})
	assert.Check(t, is.ErrorContains(err, "no valid privilege token"))
}

func TestConnectionAddListDelete(t *testing.T) {
	gw := newTestGateway(t)
	srv := New(gw)

	addHandler := srv.handlerWithGlobalMiddlewares(srv.handleConnectionAdd)
	ctx := context.WithValue(context.Background(), ctxKeyPrivileged, true)
	ctx = context.WithValue(ctx, ctxKeyPeerUID, uint32(0))

	req := httptest.NewRequest(http.MethodPost, "/v1/connections", jsonBody(t, map[string]interface{}{
		"name": "home-eth",
		"kind": "ethernet",
	}))
	rec := httptest.NewRecorder()
	assert.NilError(t, addHandler(ctx, rec, req, nil))
	assert.Equal(t, rec.Code, http.StatusOK)

	var added map[string]string
	assert.NilError(t, json.NewDecoder(rec.Body).Decode(&added))
	assert.Check(t, added["uuid"] != "")

	listHandler := srv.handlerWithGlobalMiddlewares(srv.handleConnectionList)
	rec = httptest.NewRecorder()
	assert.NilError(t, listHandler(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/v1/connections", nil), nil))
	assert.Equal(t, rec.Code, http.StatusOK)

	delHandler := srv.handlerWithGlobalMiddlewares(srv.handleConnectionDelete)
	rec = httptest.NewRecorder()
	assert.NilError(t, delHandler(ctx, rec, httptest.NewRequest(http.MethodDelete, "/v1/connections/"+added["uuid"], nil), map[string]string{"uuid": added["uuid"]}))
	assert.Equal(t, rec.Code, http.StatusNoContent)
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	assert.NilError(t, err)
	return bytes.NewReader(data)
}
