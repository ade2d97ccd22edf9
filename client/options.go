package client

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// HostEnvVar names the environment variable NewClientWithOpts(WithHostFromEnv())
// reads, analogous to the teacher's DOCKER_HOST.
const HostEnvVar = "NETGUARDD_HOST"

// Opt configures a Client built by NewClientWithOpts.
type Opt func(*Client) error

// WithHost sets the gateway address, e.g. "unix:///run/netguardd/netguardd.sock".
func WithHost(host string) Opt {
	return func(c *Client) error {
		u, err := ParseHostURL(host)
		if err != nil {
			return err
		}
		c.host = host
		c.proto = u.Scheme
		c.addr = u.Host
		c.basePath = u.Path
		c.client.Transport = c.transportFor(c.proto, c.addr)
		return nil
	}
}

// WithHostFromEnv sets the host from NETGUARDD_HOST, if set, else
// leaves the current host (DefaultSocket) untouched.
func WithHostFromEnv() Opt {
	return func(c *Client) error {
		host := os.Getenv(HostEnvVar)
		if host == "" {
			return nil
		}
		return WithHost(host)(c)
	}
}

// WithTimeout sets a fixed timeout for every request issued by the client.
func WithTimeout(timeout time.Duration) Opt {
	return func(c *Client) error {
		c.client.Timeout = timeout
		return nil
	}
}

// WithHTTPClient overrides the underlying *http.Client entirely,
// e.g. to inject a mock transport in tests.
func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("client: nil http.Client")
		}
		c.client = hc
		return nil
	}
}
