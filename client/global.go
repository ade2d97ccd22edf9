package client

import "context"

// Version returns the gateway's reported version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/v1/global/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// NetworkingEnabled reports whether networking is globally enabled.
func (c *Client) NetworkingEnabled(ctx context.Context) (bool, error) {
	var out struct {
		Enabled bool `json:"networking_enabled"`
	}
	if err := c.getJSON(ctx, "/v1/global/state", nil, &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

// SetNetworkingEnabled enables or disables networking globally.
func (c *Client) SetNetworkingEnabled(ctx context.Context, enabled bool) error {
	body := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}
	return c.postJSON(ctx, "/v1/global/networking-enabled", nil, body, nil)
}

// Connectivity reports whether the daemon currently believes it has
// working connectivity.
func (c *Client) Connectivity(ctx context.Context) (bool, error) {
	var out struct {
		Connected bool `json:"connected"`
	}
	if err := c.getJSON(ctx, "/v1/global/connectivity", nil, &out); err != nil {
		return false, err
	}
	return out.Connected, nil
}

// CheckConnectivity forces a fresh connectivity probe.
func (c *Client) CheckConnectivity(ctx context.Context) (bool, error) {
	var out struct {
		Connected bool `json:"connected"`
	}
	if err := c.postJSON(ctx, "/v1/global/check-connectivity", nil, nil, &out); err != nil {
		return false, err
	}
	return out.Connected, nil
}

// Devices lists every interface name the daemon knows about.
func (c *Client) Devices(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/v1/global/devices", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}
