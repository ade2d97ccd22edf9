package server

import (
	"context"
	"net/http"

	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/vishvananda/netlink"
)

func (s *Server) handleGetVersion(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.gw.Version})
	return nil
}

func (s *Server) handleGetState(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	writeJSON(w, http.StatusOK, map[string]bool{"networking_enabled": s.gw.networkingEnabled.Load()})
	return nil
}

func (s *Server) handleGetConnectivity(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	connected := s.gw.networkingEnabled.Load() && len(s.defaultRouteInterfaces()) > 0
	writeJSON(w, http.StatusOK, map[string]bool{"connected": connected})
	return nil
}

func (s *Server) defaultRouteInterfaces() []string {
	if s.gw.Iface == nil {
		return nil
	}
	gw, err := s.gw.Iface.GetDefaultGateway(netlink.FAMILY_V4)
	if err != nil || gw == "" {
		return nil
	}
	return []string{gw}
}

func (s *Server) handleGetDevices(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	names, err := s.gw.Iface.List()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, names)
	return nil
}

func (s *Server) handleSetNetworkingEnabled(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	s.gw.networkingEnabled.Store(body.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
	return nil
}

func (s *Server) handleCheckConnectivity(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if !s.gw.networkingEnabled.Load() {
		return errdefs.InvalidState(errNetworkingDisabled)
	}
	return s.handleGetConnectivity(ctx, w, r, vars)
}

type errString string

func (e errString) Error() string { return string(e) }

const errNetworkingDisabled = errString("networking is disabled")
