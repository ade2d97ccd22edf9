package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/netguard/netguardd/daemon/model"
)

func TestEventsDecodesLaggedAndEventLines(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		fmt.Fprintln(w, `{"lagged":3}`)
		flusher.Flush()
		fmt.Fprintln(w, `{"Kind":0,"Index":2,"Name":"eth0"}`)
		flusher.Flush()
	}))
	defer ts.Close()

	c := newTestClient(t, ts)

	var lines []EventLine
	err := c.Events(context.Background(), func(l EventLine) error {
		lines = append(lines, l)
		return nil
	})
	assert.NilError(t, err)
	assert.Equal(t, len(lines), 2)

	assert.Equal(t, lines[0].Lagged, 3)
	assert.Check(t, lines[0].Event == nil)

	assert.Check(t, lines[1].Event != nil)
	assert.Equal(t, lines[1].Lagged, 0)
	assert.Equal(t, lines[1].Event.Kind, model.EventInterfaceAdded)
	assert.Equal(t, lines[1].Event.Name, "eth0")
}

func TestEventsStopsOnCallbackError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprintln(w, `{"Kind":1,"Index":2,"Name":"eth0"}`)
		flusher.Flush()
		fmt.Fprintln(w, `{"Kind":2,"Index":2,"Name":"eth0","Up":true}`)
		flusher.Flush()
	}))
	defer ts.Close()

	c := newTestClient(t, ts)

	boom := fmt.Errorf("boom")
	seen := 0
	err := c.Events(context.Background(), func(l EventLine) error {
		seen++
		return boom
	})
	assert.Equal(t, err, boom)
	assert.Equal(t, seen, 1)
}

func TestEventsEndsCleanlyWhenStreamCloses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprintln(w, `{"Kind":0,"Index":1,"Name":"wlan0"}`)
		flusher.Flush()
	}))
	defer ts.Close()

	c := newTestClient(t, ts)
	count := 0
	err := c.Events(context.Background(), func(l EventLine) error {
		count++
		return nil
	})
	assert.NilError(t, err)
	assert.Equal(t, count, 1)
}
