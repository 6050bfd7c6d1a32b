package sse

import (
	"bytes"
	"strings"
)

// Event is one text/event-stream frame
type Event struct {
	ID   string
	Name string
	Data string
}

// Encode renders the frame. Every data line gets its own "data: " field and
// carriage returns are dropped so CRLF input cannot split a field.
func (e Event) Encode() []byte {
	var buf bytes.Buffer
	if e.ID != "" {
		writeField(&buf, "id", e.ID)
	}
	if e.Name != "" {
		writeField(&buf, "event", e.Name)
	}
	for _, line := range dataLines(e.Data) {
		writeField(&buf, "data", line)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func writeField(buf *bytes.Buffer, field, value string) {
	buf.WriteString(field)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteByte('\n')
}

func dataLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Frames written outside the hub
var (
	retryFrame     = []byte("retry: 3000\n\n")
	connectedFrame = Event{Name: "connected", Data: `{"status":"connected"}`}.Encode()
	keepaliveFrame = []byte(": keepalive\n\n")
)
