package server

import (
	"context"
	"net/http"

	"github.com/netguard/netguardd/daemon/iface"
)

type deviceInfo struct {
	Name      string             `json:"name"`
	Up        bool               `json:"up"`
	Addresses []iface.AddressInfo `json:"addresses"`
	Stats     iface.Stats        `json:"stats"`
}

func (s *Server) handleDeviceGetInfo(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	name := vars["name"]
	up, err := s.gw.Iface.IsUp(name)
	if err != nil {
		return err
	}
	addrs, err := s.gw.Iface.Addresses(name)
	if err != nil {
		return err
	}
	stats, err := s.gw.Iface.Stats(name)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, deviceInfo{Name: name, Up: up, Addresses: addrs, Stats: stats})
	return nil
}

func (s *Server) handleDeviceActivate(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	name := vars["name"]
	p, err := s.gw.Profiles.Get(name)
	if err != nil {
		return err
	}
	p.InterfaceHint = name
	conn, err := s.gw.Orchestrator.Activate(ctx, p)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, conn)
	return nil
}

func (s *Server) handleDeviceDeactivate(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := s.gw.Orchestrator.Deactivate(ctx, vars["name"]); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDeviceSetMTU(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		MTU int `json:"mtu"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.Iface.SetMTU(vars["name"], body.MTU); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// handleDeviceSetManaged acknowledges the request without storing
// anything. handleDeviceSetAutoconnect rewrites the stored profile named
// after the device with the new autoconnect flag, and fails with the
// store's NotFound error when no such profile exists.
func (s *Server) handleDeviceSetManaged(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	// "Managed" has no separate representation in ConnectionProfile
	// beyond the profile's mere existence; acknowledging the request is
	// sufficient until a dedicated per-device managed-state store exists.
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDeviceSetAutoconnect(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		Autoconnect bool `json:"autoconnect"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	p, err := s.gw.Profiles.Get(vars["name"])
	if err != nil {
		return err
	}
	p.Autoconnect = body.Autoconnect
	if err := s.gw.Profiles.Delete(p.UUID); err != nil {
		return err
	}
	if _, err := s.gw.Profiles.Add(p); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
