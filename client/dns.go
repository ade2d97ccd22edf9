package client

import (
	"context"
	"net/url"

	"github.com/netguard/netguardd/daemon/drivers/dns"
)

// DNSStart starts the forwarding resolver listening on listenAddr:port,
// using forwarders as upstream resolvers.
func (c *Client) DNSStart(ctx context.Context, listenAddr string, port int, forwarders []string) error {
	body := struct {
		ListenAddr string   `json:"listen_addr"`
		Port       int      `json:"port"`
		Forwarders []string `json:"forwarders"`
	}{ListenAddr: listenAddr, Port: port, Forwarders: forwarders}
	return c.postJSON(ctx, "/v1/dns/start", nil, body, nil)
}

// DNSStop stops the forwarding resolver.
func (c *Client) DNSStop(ctx context.Context) error {
	return c.postJSON(ctx, "/v1/dns/stop", nil, nil, nil)
}

// DNSAddForwarder adds addr as an upstream resolver.
func (c *Client) DNSAddForwarder(ctx context.Context, addr string) error {
	body := struct {
		Addr string `json:"addr"`
	}{Addr: addr}
	return c.postJSON(ctx, "/v1/dns/forwarders", nil, body, nil)
}

// DNSRemoveForwarder removes addr from the upstream resolver set.
func (c *Client) DNSRemoveForwarder(ctx context.Context, addr string) error {
	return c.delete(ctx, "/v1/dns/forwarders/"+url.PathEscape(addr), nil)
}

// DNSForwarders lists the configured upstream resolvers.
func (c *Client) DNSForwarders(ctx context.Context) ([]string, error) {
	var out []string
	err := c.getJSON(ctx, "/v1/dns/forwarders", nil, &out)
	return out, err
}

// DNSStatus reports the resolver's current state.
func (c *Client) DNSStatus(ctx context.Context) (dns.Status, error) {
	var out dns.Status
	err := c.getJSON(ctx, "/v1/dns/status", nil, &out)
	return out, err
}
