package client

import (
	"context"
	"net/url"

	"github.com/netguard/netguardd/daemon/drivers/supplicant"
)

// WiFiScan triggers a fresh scan on name and returns the results.
func (c *Client) WiFiScan(ctx context.Context, name string) ([]supplicant.AccessPoint, error) {
	var out []supplicant.AccessPoint
	err := c.postJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/scan", nil, nil, &out)
	return out, err
}

// WiFiAccessPoints returns the most recently scanned access points for name.
func (c *Client) WiFiAccessPoints(ctx context.Context, name string) ([]supplicant.AccessPoint, error) {
	var out []supplicant.AccessPoint
	err := c.getJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/access-points", nil, &out)
	return out, err
}

// WiFiConnect associates name to the given SSID using secret (empty for open networks).
func (c *Client) WiFiConnect(ctx context.Context, name, ssid, secret string) error {
	body := struct {
		SSID   string `json:"ssid"`
		Secret string `json:"secret"`
	}{SSID: ssid, Secret: secret}
	return c.postJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/connect", nil, body, nil)
}

// WiFiDisconnect tears down name's current WiFi association.
func (c *Client) WiFiDisconnect(ctx context.Context, name string) error {
	return c.postJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/disconnect", nil, nil, nil)
}

// WiFiStartAP brings up an access point on name: ssid/secret/band/channel
// are the StartAP(ssid, secret, channel) parameters validated against the
// daemon's regulatory domain, configPath is the already-materialized
// hostapd config the adapter actually launches.
func (c *Client) WiFiStartAP(ctx context.Context, name, ssid, secret, band string, channel int, configPath string) error {
	body := struct {
		SSID       string `json:"ssid"`
		Secret     string `json:"secret,omitempty"`
		Band       string `json:"band"`
		Channel    int    `json:"channel"`
		ConfigPath string `json:"config_path"`
	}{SSID: ssid, Secret: secret, Band: band, Channel: channel, ConfigPath: configPath}
	return c.postJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/start-ap", nil, body, nil)
}

// WiFiStopAP tears down the access point running on name.
func (c *Client) WiFiStopAP(ctx context.Context, name string) error {
	return c.postJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/stop-ap", nil, nil, nil)
}

// WiFiSetEnabled enables or disables WiFi association on name.
func (c *Client) WiFiSetEnabled(ctx context.Context, name string, enabled bool) error {
	body := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}
	return c.postJSON(ctx, "/v1/wifi/"+url.PathEscape(name)+"/enabled", nil, body, nil)
}
