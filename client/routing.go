package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/netguard/netguardd/daemon/iface"
)

// RoutingAddRoute adds a route to dest via gateway out iface, at the given metric.
func (c *Client) RoutingAddRoute(ctx context.Context, dest, gateway, iface string, metric int) error {
	body := struct {
		Dest      string `json:"dest"`
		Gateway   string `json:"gateway"`
		Interface string `json:"interface"`
		Metric    int    `json:"metric"`
	}{Dest: dest, Gateway: gateway, Interface: iface, Metric: metric}
	return c.postJSON(ctx, "/v1/routing/routes", nil, body, nil)
}

// RoutingRemoveRoute removes the route to dest.
func (c *Client) RoutingRemoveRoute(ctx context.Context, dest string) error {
	body := struct {
		Dest string `json:"dest"`
	}{Dest: dest}
	resp, err := c.do(ctx, "DELETE", "/v1/routing/routes", nil, body)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// RoutingRoutes lists the current routing table.
func (c *Client) RoutingRoutes(ctx context.Context) ([]iface.Route, error) {
	var out []iface.Route
	err := c.getJSON(ctx, "/v1/routing/routes", nil, &out)
	return out, err
}

// RoutingSetDefaultGateway sets the default gateway to gateway out iface.
func (c *Client) RoutingSetDefaultGateway(ctx context.Context, gateway, iface string) error {
	body := struct {
		Gateway   string `json:"gateway"`
		Interface string `json:"interface"`
	}{Gateway: gateway, Interface: iface}
	return c.postJSON(ctx, "/v1/routing/default-gateway", nil, body, nil)
}

// RoutingDefaultGateway returns the default gateway address for the
// given address family (ipv6=true selects IPv6).
func (c *Client) RoutingDefaultGateway(ctx context.Context, ipv6 bool) (string, error) {
	var out struct {
		Gateway string `json:"gateway"`
	}
	query := url.Values{"ipv6": {strconv.FormatBool(ipv6)}}
	err := c.getJSON(ctx, "/v1/routing/default-gateway", query, &out)
	return out.Gateway, err
}

// RoutingClearDefaultGateway removes the default gateway for the given
// address family.
func (c *Client) RoutingClearDefaultGateway(ctx context.Context, ipv6 bool) error {
	query := url.Values{"ipv6": {strconv.FormatBool(ipv6)}}
	return c.delete(ctx, "/v1/routing/default-gateway", query)
}
