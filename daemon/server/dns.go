package server

import (
	"context"
	"net/http"
)

func (s *Server) handleDNSStart(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		ListenAddr string   `json:"listen_addr"`
		Port       int      `json:"port"`
		Forwarders []string `json:"forwarders"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.DNS.Start(ctx, body.ListenAddr, body.Port, body.Forwarders); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDNSStop(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := s.gw.DNS.Stop(ctx); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDNSAddForwarder(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		Addr string `json:"addr"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.DNS.AddForwarder(ctx, body.Addr); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDNSRemoveForwarder(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := s.gw.DNS.RemoveForwarder(ctx, vars["addr"]); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDNSGetForwarders(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	writeJSON(w, http.StatusOK, s.gw.DNS.GetForwarders())
	return nil
}

func (s *Server) handleDNSGetStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	writeJSON(w, http.StatusOK, s.gw.DNS.GetStatus())
	return nil
}
