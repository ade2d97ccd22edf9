package server

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/netguard/netguardd/daemon/drivers/vpn"
	"github.com/netguard/netguardd/daemon/model"
)

// vpnHandles tracks the live Handle returned by vpn.Adapter.Connect for
// each named stored connection, so a later Disconnect knows what to
// tear down. The adapter itself is handle-oriented, not name-oriented.
type vpnHandleTracker struct {
	mu      sync.Mutex
	handles map[string]vpn.Handle
}

var vpnHandles = vpnHandleTracker{handles: make(map[string]vpn.Handle)}

func (t *vpnHandleTracker) set(name string, h vpn.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handles[name] = h
}

func (t *vpnHandleTracker) take(name string) (vpn.Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.handles[name]
	delete(t.handles, name)
	return h, ok
}

func (s *Server) handleVPNListConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	conns, err := s.gw.VPNStore.ListConnections()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, conns)
	return nil
}

func (s *Server) handleVPNGetConnectionInfo(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	info, err := s.gw.VPNStore.GetConnectionInfo(vars["name"])
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, info)
	return nil
}

func (s *Server) handleVPNConnect(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	name := vars["name"]
	info, err := s.gw.VPNStore.GetConnectionInfo(name)
	if err != nil {
		return err
	}
	content, err := s.gw.VPNStore.Export(name)
	if err != nil {
		return err
	}
	h, err := s.gw.VPN.Connect(ctx, info.Backend, map[string]string{"config": content})
	if err != nil {
		return err
	}
	vpnHandles.set(name, h)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleVPNDisconnect(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	h, ok := vpnHandles.take(vars["name"])
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	if err := s.gw.VPN.Disconnect(ctx, h); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleVPNDelete(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := s.gw.VPNStore.Delete(vars["name"]); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleVPNImport(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	backend := model.VPNBackend(r.URL.Query().Get("backend"))
	content, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if err := s.gw.VPNStore.Import(backend, vars["name"], content); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleVPNExport(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	content, err := s.gw.VPNStore.Export(vars["name"])
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
	return nil
}
