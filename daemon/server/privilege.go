package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/netguard/netguardd/internal/errdefs"
)

func callerUID(ctx context.Context) (uint32, error) {
	uid, ok := ctx.Value(ctxKeyPeerUID).(uint32)
	if !ok {
		return 0, errdefs.PermissionDenied(fmt.Errorf("could not identify caller"))
	}
	return uid, nil
}

func (s *Server) handlePrivilegeGrant(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	uid, err := callerUID(ctx)
	if err != nil {
		return err
	}
	var body struct {
		DurationMinutes int     `json:"duration_minutes"`
		AllowedUID      *uint32 `json:"allowed_uid"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	tok, err := s.gw.Tokens.Grant(uid, body.DurationMinutes, body.AllowedUID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, tok)
	return nil
}

func (s *Server) handlePrivilegeRevoke(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	uid, err := callerUID(ctx)
	if err != nil {
		return err
	}
	if err := s.gw.Tokens.Revoke(uid); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handlePrivilegeGetStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	uid, err := callerUID(ctx)
	if err != nil {
		return err
	}
	valid, err := s.gw.Tokens.Verify(uid)
	if err != nil {
		return err
	}
	remaining, err := s.gw.Tokens.Remaining()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":             valid,
		"remaining_seconds": remaining.Seconds(),
	})
	return nil
}

func (s *Server) handlePrivilegeVerify(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	uid, err := callerUID(ctx)
	if err != nil {
		return err
	}
	valid, err := s.gw.Tokens.Verify(uid)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
	return nil
}

func (s *Server) handlePrivilegeHasValid(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	uid, err := callerUID(ctx)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": s.gw.Tokens.HasValid(uid)})
	return nil
}

func (s *Server) handlePrivilegeGetRemaining(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	remaining, err := s.gw.Tokens.Remaining()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]float64{"remaining_seconds": remaining.Seconds()})
	return nil
}
