package client

import (
	"context"
	"net/url"

	"github.com/netguard/netguardd/daemon/model"
)

// ConnectionProfiles lists every stored connection profile.
func (c *Client) ConnectionProfiles(ctx context.Context) ([]model.ConnectionProfile, error) {
	var out []model.ConnectionProfile
	err := c.getJSON(ctx, "/v1/connections", nil, &out)
	return out, err
}

// ConnectionAdd stores a new connection profile.
func (c *Client) ConnectionAdd(ctx context.Context, p model.ConnectionProfile) error {
	return c.postJSON(ctx, "/v1/connections", nil, p, nil)
}

// ConnectionDelete removes the stored profile identified by uuid.
func (c *Client) ConnectionDelete(ctx context.Context, uuid string) error {
	return c.delete(ctx, "/v1/connections/"+url.PathEscape(uuid), nil)
}

// ConnectionActivate activates the profile identified by uuid on device.
func (c *Client) ConnectionActivate(ctx context.Context, uuid, device string) error {
	path := "/v1/connections/" + url.PathEscape(uuid) + "/activate/" + url.PathEscape(device)
	return c.postJSON(ctx, path, nil, nil, nil)
}

// ConnectionDeactivate deactivates the active connection for uuid.
func (c *Client) ConnectionDeactivate(ctx context.Context, uuid string) error {
	return c.postJSON(ctx, "/v1/connections/"+url.PathEscape(uuid)+"/deactivate", nil, nil, nil)
}
