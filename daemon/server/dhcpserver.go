package server

import (
	"context"
	"net/http"
)

func (s *Server) handleDHCPServerStart(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		ConfigPath string `json:"config_path"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.DHCPServer.Start(ctx, body.ConfigPath); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDHCPServerStop(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := s.gw.DHCPServer.Stop(ctx); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDHCPServerStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.gw.DHCPServer.Running()})
	return nil
}

func (s *Server) handleDHCPServerLeases(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	leases, err := s.gw.DHCPServer.GetLeases()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, leases)
	return nil
}

func (s *Server) handleDHCPServerRunning(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.gw.DHCPServer.Running()})
	return nil
}
