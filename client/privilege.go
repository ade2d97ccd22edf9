package client

import (
	"context"
	"time"

	"github.com/netguard/netguardd/daemon/privtoken"
)

// PrivilegeGrant asks the daemon to grant a privilege token good for
// durationMinutes, usable by allowedUID if non-nil, else by the caller.
func (c *Client) PrivilegeGrant(ctx context.Context, durationMinutes int, allowedUID *uint32) (privtoken.Token, error) {
	body := struct {
		DurationMinutes int     `json:"duration_minutes"`
		AllowedUID      *uint32 `json:"allowed_uid"`
	}{DurationMinutes: durationMinutes, AllowedUID: allowedUID}
	var out privtoken.Token
	err := c.postJSON(ctx, "/v1/privilege/grant", nil, body, &out)
	return out, err
}

// PrivilegeRevoke revokes the caller's outstanding privilege token.
func (c *Client) PrivilegeRevoke(ctx context.Context) error {
	return c.postJSON(ctx, "/v1/privilege/revoke", nil, nil, nil)
}

// PrivilegeStatus reports whether the caller's token is valid and how
// much time remains on it.
func (c *Client) PrivilegeStatus(ctx context.Context) (valid bool, remaining time.Duration, err error) {
	var out struct {
		Valid            bool    `json:"valid"`
		RemainingSeconds float64 `json:"remaining_seconds"`
	}
	if err = c.getJSON(ctx, "/v1/privilege/status", nil, &out); err != nil {
		return false, 0, err
	}
	return out.Valid, time.Duration(out.RemainingSeconds * float64(time.Second)), nil
}

// PrivilegeVerify checks whether the caller currently holds a valid token.
func (c *Client) PrivilegeVerify(ctx context.Context) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	err := c.getJSON(ctx, "/v1/privilege/verify", nil, &out)
	return out.Valid, err
}

// PrivilegeHasValid is an alias of PrivilegeVerify matching the
// gateway's separate has-valid endpoint.
func (c *Client) PrivilegeHasValid(ctx context.Context) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	err := c.getJSON(ctx, "/v1/privilege/has-valid", nil, &out)
	return out.Valid, err
}

// PrivilegeRemaining returns the time remaining on the outstanding
// privilege token, regardless of caller.
func (c *Client) PrivilegeRemaining(ctx context.Context) (time.Duration, error) {
	var out struct {
		RemainingSeconds float64 `json:"remaining_seconds"`
	}
	if err := c.getJSON(ctx, "/v1/privilege/remaining", nil, &out); err != nil {
		return 0, err
	}
	return time.Duration(out.RemainingSeconds * float64(time.Second)), nil
}
