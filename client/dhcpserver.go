package client

import (
	"context"

	"github.com/netguard/netguardd/daemon/drivers/dhcpserver"
)

// DHCPServerStart starts the DHCP server using the config at configPath.
func (c *Client) DHCPServerStart(ctx context.Context, configPath string) error {
	body := struct {
		ConfigPath string `json:"config_path"`
	}{ConfigPath: configPath}
	return c.postJSON(ctx, "/v1/dhcp-server/start", nil, body, nil)
}

// DHCPServerStop stops the DHCP server.
func (c *Client) DHCPServerStop(ctx context.Context) error {
	return c.postJSON(ctx, "/v1/dhcp-server/stop", nil, nil, nil)
}

// DHCPServerStatus reports whether the DHCP server is running.
func (c *Client) DHCPServerStatus(ctx context.Context) (bool, error) {
	var out struct {
		Running bool `json:"running"`
	}
	err := c.getJSON(ctx, "/v1/dhcp-server/status", nil, &out)
	return out.Running, err
}

// DHCPServerRunning reports whether the DHCP server is running.
func (c *Client) DHCPServerRunning(ctx context.Context) (bool, error) {
	var out struct {
		Running bool `json:"running"`
	}
	err := c.getJSON(ctx, "/v1/dhcp-server/running", nil, &out)
	return out.Running, err
}

// DHCPServerLeases lists currently active leases.
func (c *Client) DHCPServerLeases(ctx context.Context) ([]dhcpserver.Lease, error) {
	var out []dhcpserver.Lease
	err := c.getJSON(ctx, "/v1/dhcp-server/leases", nil, &out)
	return out, err
}
