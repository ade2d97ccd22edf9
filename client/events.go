package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/netguard/netguardd/daemon/model"
)

// EventLine is one line of the gateway's NDJSON event stream: either a
// NetworkEvent, or a lag notice (Lagged > 0) reporting how many events
// the subscriber missed while its backlog was full.
type EventLine struct {
	Event  *model.NetworkEvent
	Lagged int
}

// Events streams the gateway's event feed, calling fn for every line
// until ctx is canceled, the server closes the connection, or fn
// returns an error.
func (c *Client) Events(ctx context.Context, fn func(EventLine) error) error {
	resp, err := c.do(ctx, http.MethodGet, "/v1/events", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line, err := decodeEventLine(scanner.Bytes())
		if err != nil {
			return fmt.Errorf("decoding event line: %w", err)
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func decodeEventLine(raw []byte) (EventLine, error) {
	var lagProbe struct {
		Lagged int `json:"lagged"`
	}
	if err := json.Unmarshal(raw, &lagProbe); err == nil && lagProbe.Lagged > 0 {
		return EventLine{Lagged: lagProbe.Lagged}, nil
	}
	var evt model.NetworkEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return EventLine{}, err
	}
	return EventLine{Event: &evt}, nil
}
