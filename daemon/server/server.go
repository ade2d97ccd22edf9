// Package server is the request gateway (C8, §4.6): a method-call
// surface over a Unix domain socket that identifies the calling peer's
// UID, classifies each method as privileged or read-only, enforces the
// privilege-token check for non-root privileged callers, dispatches to
// the daemon's other components, and fans events out to subscribed
// clients.
//
// Grounded on the teacher's daemon/server.Server (server_test.go): a
// thin *mux.Router wrapper, a local handler type of
// func(ctx, w, r, vars map[string]string) error, and a middleware chain
// applied via handlerWithGlobalMiddlewares before the mux ever sees a
// request. The method-call groups themselves (§6) have no teacher
// analog — a container engine's API has no WiFi/VPN/routing
// operations — so the handlers' shapes are a direct transcription of
// the §6 operation table.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/containerd/log"
	"github.com/gorilla/mux"
	"github.com/netguard/netguardd/internal/errdefs"
)

// localHandler is the gateway's internal handler shape, matching the
// teacher's daemon/server convention: context plus the request's
// gorilla/mux path variables, returning an error for the middleware
// chain to translate to a wire status.
type localHandler func(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error

// middleware wraps one localHandler with another.
type middleware func(localHandler) localHandler

// Server is the C8 HTTP-over-Unix-socket gateway.
type Server struct {
	gw          *Gateway
	router      *mux.Router
	middlewares []middleware
}

// New builds a Server dispatching to gw.
func New(gw *Gateway) *Server {
	s := &Server{gw: gw, router: mux.NewRouter()}
	s.UseMiddleware(s.privilegeMiddleware)
	s.registerRoutes()
	return s
}

// UseMiddleware appends m to the global middleware chain, applied to
// every registered route in order.
func (s *Server) UseMiddleware(m middleware) {
	s.middlewares = append(s.middlewares, m)
}

func (s *Server) handlerWithGlobalMiddlewares(h localHandler) localHandler {
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	return h
}

// route registers one method+path pair, its privilege classification,
// and its handler, wrapped in the global middleware chain.
func (s *Server) route(method, path string, privileged bool, h localHandler) {
	wrapped := s.handlerWithGlobalMiddlewares(h)
	s.router.Methods(method).Path(path).Handler(routeHandler{
		privileged: privileged,
		handler:    wrapped,
	})
}

// routeHandler adapts a localHandler (plus its privilege flag, read by
// privilegeMiddleware through the request context) to net/http.
type routeHandler struct {
	privileged bool
	handler    localHandler
}

type ctxKey int

const (
	ctxKeyPrivileged ctxKey = iota
	ctxKeyPeerUID
)

func (rh routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithValue(r.Context(), ctxKeyPrivileged, rh.privileged)
	vars := mux.Vars(r)
	if err := rh.handler(ctx, w, r, vars); err != nil {
		writeError(w, err)
	}
}

// Handler returns the net/http handler to serve, e.g. over a Unix
// socket listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// peerUIDFromConn is installed as an http.Server's ConnContext hook so
// every request's context carries the Unix-socket peer's UID.
func peerUIDFromConn(ctx context.Context, c net.Conn) context.Context {
	uid, err := peerUID(c)
	if err != nil {
		log.G(ctx).WithError(err).Warn("gateway: could not resolve peer uid, treating request as unprivileged")
		return ctx
	}
	return context.WithValue(ctx, ctxKeyPeerUID, uid)
}

// NewHTTPServer wraps s.Handler() in an *http.Server configured to
// resolve SO_PEERCRED on every accepted connection.
func NewHTTPServer(s *Server) *http.Server {
	return &http.Server{
		Handler:     s.Handler(),
		ConnContext: peerUIDFromConn,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errdefs.ToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errdefs.InvalidParameter(err)
	}
	return nil
}
