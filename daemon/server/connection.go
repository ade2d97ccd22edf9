package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
)

func (s *Server) profileByUUID(uuid string) (model.ConnectionProfile, error) {
	all, err := s.gw.Profiles.List()
	if err != nil {
		return model.ConnectionProfile{}, err
	}
	for _, p := range all {
		if p.UUID == uuid {
			return p, nil
		}
	}
	return model.ConnectionProfile{}, errdefs.NotFound(fmt.Errorf("connection %q not found", uuid))
}

func (s *Server) handleConnectionList(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	profiles, err := s.gw.Profiles.List()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, profiles)
	return nil
}

func (s *Server) handleConnectionAdd(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var p model.ConnectionProfile
	if err := decodeJSON(r, &p); err != nil {
		return err
	}
	uuid, err := s.gw.Profiles.Add(p)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"uuid": uuid})
	return nil
}

func (s *Server) handleConnectionDelete(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	if err := s.gw.Profiles.Delete(vars["uuid"]); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleConnectionActivate(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	p, err := s.profileByUUID(vars["uuid"])
	if err != nil {
		return err
	}
	p.InterfaceHint = vars["device"]
	conn, err := s.gw.Orchestrator.Activate(ctx, p)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, conn)
	return nil
}

func (s *Server) handleConnectionDeactivate(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	p, err := s.profileByUUID(vars["uuid"])
	if err != nil {
		return err
	}
	actives, err := s.gw.Orchestrator.ListActive()
	if err != nil {
		return err
	}
	for _, c := range actives {
		if c.Profile.UUID == p.UUID {
			if err := s.gw.Orchestrator.Deactivate(ctx, c.Interface); err != nil {
				return err
			}
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
