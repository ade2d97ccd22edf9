package client

import (
	"context"
	"net/url"

	"github.com/netguard/netguardd/daemon/iface"
)

// DeviceInfo mirrors the gateway's device info response.
type DeviceInfo struct {
	Name      string              `json:"name"`
	Up        bool                `json:"up"`
	Addresses []iface.AddressInfo `json:"addresses"`
	Stats     iface.Stats         `json:"stats"`
}

// DeviceInfo fetches current state for a network interface.
func (c *Client) DeviceInfo(ctx context.Context, name string) (DeviceInfo, error) {
	var out DeviceInfo
	err := c.getJSON(ctx, "/v1/devices/"+url.PathEscape(name), nil, &out)
	return out, err
}

// DeviceActivate activates the stored connection profile named name
// on the interface of the same name.
func (c *Client) DeviceActivate(ctx context.Context, name string) error {
	return c.postJSON(ctx, "/v1/devices/"+url.PathEscape(name)+"/activate", nil, nil, nil)
}

// DeviceDeactivate tears down the active connection on name.
func (c *Client) DeviceDeactivate(ctx context.Context, name string) error {
	return c.postJSON(ctx, "/v1/devices/"+url.PathEscape(name)+"/deactivate", nil, nil, nil)
}

// DeviceSetMTU sets the interface's MTU.
func (c *Client) DeviceSetMTU(ctx context.Context, name string, mtu int) error {
	body := struct {
		MTU int `json:"mtu"`
	}{MTU: mtu}
	return c.postJSON(ctx, "/v1/devices/"+url.PathEscape(name)+"/mtu", nil, body, nil)
}

// DeviceSetManaged marks whether the daemon should manage name.
func (c *Client) DeviceSetManaged(ctx context.Context, name string, managed bool) error {
	body := struct {
		Managed bool `json:"managed"`
	}{Managed: managed}
	return c.postJSON(ctx, "/v1/devices/"+url.PathEscape(name)+"/managed", nil, body, nil)
}

// DeviceSetAutoconnect toggles autoconnect on name's stored profile.
func (c *Client) DeviceSetAutoconnect(ctx context.Context, name string, autoconnect bool) error {
	body := struct {
		Autoconnect bool `json:"autoconnect"`
	}{Autoconnect: autoconnect}
	return c.postJSON(ctx, "/v1/devices/"+url.PathEscape(name)+"/autoconnect", nil, body, nil)
}
