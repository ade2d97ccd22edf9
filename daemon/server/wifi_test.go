package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/netguard/netguardd/daemon/drivers/aphost"
	"github.com/netguard/netguardd/internal/errdefs"
)

func TestWiFiStartAPRejectsChannel13WhereCountryForbidsIt(t *testing.T) {
	gw := newTestGateway(t)
	gw.RegulatoryDomain = "US"
	srv := New(gw)

	handler := srv.handlerWithGlobalMiddlewares(srv.handleWiFiStartAP)
	ctx := context.WithValue(context.Background(), ctxKeyPrivileged, true)
	ctx = context.WithValue(ctx, ctxKeyPeerUID, uint32(0))

	req := httptest.NewRequest(http.MethodPost, "/v1/wifi/wlan0/start-ap", jsonBody(t, map[string]interface{}{
		"ssid":    "office-guest",
		"band":    "2.4GHz",
		"channel": 13,
	}))
	err := handler(ctx, httptest.NewRecorder(), req, map[string]string{"name": "wlan0"})
	assert.Check(t, errdefs.IsInvalidParameter(err))
}

// TestWiFiStartAPAllowsChannel13WhereCountryPermitsIt confirms the
// validation boundary itself lets channel 13 through for a country that
// permits it — it does not assert the request completes end to end,
// since that would require an actual hostapd binary to exec.
func TestWiFiStartAPAllowsChannel13WhereCountryPermitsIt(t *testing.T) {
	gw := newTestGateway(t)
	gw.RegulatoryDomain = "GB"
	gw.APHost = aphost.New()
	srv := New(gw)

	handler := srv.handlerWithGlobalMiddlewares(srv.handleWiFiStartAP)
	ctx := context.WithValue(context.Background(), ctxKeyPrivileged, true)
	ctx = context.WithValue(ctx, ctxKeyPeerUID, uint32(0))

	req := httptest.NewRequest(http.MethodPost, "/v1/wifi/wlan0/start-ap", jsonBody(t, map[string]interface{}{
		"ssid":    "office-guest",
		"band":    "2.4GHz",
		"channel": 13,
	}))
	err := handler(ctx, httptest.NewRecorder(), req, map[string]string{"name": "wlan0"})
	assert.Check(t, !errdefs.IsInvalidParameter(err))
}

func TestWiFiStartAPRejectsInvalidSSID(t *testing.T) {
	gw := newTestGateway(t)
	srv := New(gw)

	handler := srv.handlerWithGlobalMiddlewares(srv.handleWiFiStartAP)
	ctx := context.WithValue(context.Background(), ctxKeyPrivileged, true)
	ctx = context.WithValue(ctx, ctxKeyPeerUID, uint32(0))

	req := httptest.NewRequest(http.MethodPost, "/v1/wifi/wlan0/start-ap", jsonBody(t, map[string]interface{}{
		"ssid":    "",
		"band":    "2.4GHz",
		"channel": 6,
	}))
	err := handler(ctx, httptest.NewRecorder(), req, map[string]string{"name": "wlan0"})
	assert.Check(t, is.ErrorContains(err, "ssid"))
}
