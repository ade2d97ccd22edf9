package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/netguard/netguardd/internal/errdefs"
)

// privilegeMiddleware enforces §4.6 steps 1-3: identify the peer UID
// already stashed in the context by peerUIDFromConn, and for a
// privileged route whose caller is not UID 0, require a valid
// privilege token.
func (s *Server) privilegeMiddleware(next localHandler) localHandler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
		privileged, _ := ctx.Value(ctxKeyPrivileged).(bool)
		if !privileged {
			return next(ctx, w, r, vars)
		}

		uid, ok := ctx.Value(ctxKeyPeerUID).(uint32)
		if !ok {
			return errdefs.PermissionDenied(fmt.Errorf("could not identify caller"))
		}
		if uid == 0 {
			return next(ctx, w, r, vars)
		}
		if !s.gw.Tokens.HasValid(uid) {
			return errdefs.PermissionDenied(fmt.Errorf("uid %d has no valid privilege token", uid))
		}
		return next(ctx, w, r, vars)
	}
}
