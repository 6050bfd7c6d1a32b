package sse

import (
	"net/http"
	"time"
)

const (
	keepaliveEvery = 30 * time.Second
	clientBuffer   = 64
)

// Client is one connected dashboard
type Client struct {
	viewer      string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client for the named viewer
func NewClient(viewer string) *Client {
	return &Client{
		viewer:      viewer,
		send:        make(chan []byte, clientBuffer),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams hub frames to w until the request ends or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, viewer string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := NewClient(viewer)
	if !hub.Register(client) {
		http.Error(w, "Live updates unavailable", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	send := func(frame []byte) bool {
		if _, err := w.Write(frame); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(append(append([]byte{}, retryFrame...), connectedFrame...)) {
		return
	}

	keepalive := time.NewTicker(keepaliveEvery)
	defer keepalive.Stop()

	for {
		var frame []byte
		select {
		case f, open := <-client.send:
			if !open {
				return
			}
			frame = f
		case <-keepalive.C:
			frame = keepaliveFrame
		case <-r.Context().Done():
			return
		}
		if !send(frame) {
			return
		}
	}
}
