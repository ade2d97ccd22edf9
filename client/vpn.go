package client

import (
	"context"
	"io"
	"net/url"

	"github.com/netguard/netguardd/daemon/drivers/vpn"
	"github.com/netguard/netguardd/daemon/model"
)

// VPNConnections lists every stored VPN connection.
func (c *Client) VPNConnections(ctx context.Context) ([]vpn.ConnectionInfo, error) {
	var out []vpn.ConnectionInfo
	err := c.getJSON(ctx, "/v1/vpn/connections", nil, &out)
	return out, err
}

// VPNConnectionInfo fetches the stored metadata for name.
func (c *Client) VPNConnectionInfo(ctx context.Context, name string) (vpn.ConnectionInfo, error) {
	var out vpn.ConnectionInfo
	err := c.getJSON(ctx, "/v1/vpn/connections/"+url.PathEscape(name), nil, &out)
	return out, err
}

// VPNConnect brings up the VPN connection named name.
func (c *Client) VPNConnect(ctx context.Context, name string) error {
	return c.postJSON(ctx, "/v1/vpn/connections/"+url.PathEscape(name)+"/connect", nil, nil, nil)
}

// VPNDisconnect tears down the VPN connection named name.
func (c *Client) VPNDisconnect(ctx context.Context, name string) error {
	return c.postJSON(ctx, "/v1/vpn/connections/"+url.PathEscape(name)+"/disconnect", nil, nil, nil)
}

// VPNDelete removes the stored VPN connection named name.
func (c *Client) VPNDelete(ctx context.Context, name string) error {
	return c.delete(ctx, "/v1/vpn/connections/"+url.PathEscape(name), nil)
}

// VPNImport stores config under name for the given backend.
func (c *Client) VPNImport(ctx context.Context, name string, backend model.VPNBackend, config io.Reader) error {
	content, err := io.ReadAll(config)
	if err != nil {
		return err
	}
	query := url.Values{"backend": {string(backend)}}
	resp, err := c.doRaw(ctx, "POST", "/v1/vpn/connections/"+url.PathEscape(name)+"/import", query, content)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// VPNExport returns the raw stored config content for name.
func (c *Client) VPNExport(ctx context.Context, name string) (string, error) {
	resp, err := c.doRaw(ctx, "GET", "/v1/vpn/connections/"+url.PathEscape(name)+"/export", nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
