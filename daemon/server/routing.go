package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vishvananda/netlink"
)

func (s *Server) handleRoutingAddRoute(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		Dest      string `json:"dest"`
		Gateway   string `json:"gateway"`
		Interface string `json:"interface"`
		Metric    int    `json:"metric"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.Iface.AddRoute(body.Dest, body.Gateway, body.Interface, body.Metric); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleRoutingRemoveRoute(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		Dest string `json:"dest"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.Iface.RemoveRoute(body.Dest); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleRoutingGetRoutes(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	routes, err := s.gw.Iface.GetRoutes()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, routes)
	return nil
}

func (s *Server) handleRoutingSetDefaultGateway(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	var body struct {
		Gateway   string `json:"gateway"`
		Interface string `json:"interface"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	if err := s.gw.Iface.SetDefaultGateway(body.Gateway, body.Interface); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleRoutingGetDefaultGateway(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	family := netlink.FAMILY_V4
	if v6, _ := strconv.ParseBool(r.URL.Query().Get("ipv6")); v6 {
		family = netlink.FAMILY_V6
	}
	gw, err := s.gw.Iface.GetDefaultGateway(family)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"gateway": gw})
	return nil
}

func (s *Server) handleRoutingClearDefaultGateway(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	isV6, _ := strconv.ParseBool(r.URL.Query().Get("ipv6"))
	if err := s.gw.Iface.ClearDefaultGateway(isV6); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
