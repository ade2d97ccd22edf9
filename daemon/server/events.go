package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/internal/errdefs"
)

// handleEvents fans the event bus out to one HTTP client as
// newline-delimited JSON, one NetworkEvent (or lag marker) per line,
// until the client disconnects or the bus closes (§4.6 "fans events ...
// out").
func (s *Server) handleEvents(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errdefs.NotSupported(errNDJSONUnsupported)
	}

	sub := s.gw.Bus.Subscribe(0)
	defer sub.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	results := make(chan eventbus.Result)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			res := sub.Recv()
			select {
			case results <- res:
			case <-stop:
				return
			}
			if res.Kind == eventbus.ResultClosed {
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return nil
		case res := <-results:
			switch res.Kind {
			case eventbus.ResultClosed:
				return nil
			case eventbus.ResultLagged:
				if err := enc.Encode(map[string]int{"lagged": res.Lagged}); err != nil {
					return nil
				}
			case eventbus.ResultEvent:
				if err := enc.Encode(res.Event); err != nil {
					return nil
				}
			}
			flusher.Flush()
		}
	}
}

const errNDJSONUnsupported = errString("response writer does not support streaming")
