package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case Contestant:
		o.printContestant(v)
	case ContestantList:
		o.printContestantList(v)
	case Counts:
		o.printCounts(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	SessionToken string    `json:"session_token"`
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Contestant response type
type Contestant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// ContestantList response type
type ContestantList struct {
	Contestants []Contestant `json:"contestants"`
}

// Counts response type
type Counts struct {
	Total int `json:"total"`
	Mr    int `json:"mr"`
	Ms    int `json:"ms"`
}

// HealthResult is the health response plus the measured round trip
type HealthResult struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

func (o *Output) printSession(s Session) {
	_, _ = fmt.Fprintf(o.w, "Signed in as %s\n", s.Username)
	_, _ = fmt.Fprintf(o.w, "Expires: %s\n", s.ExpiresAt.Local().Format(time.DateTime))
}

func (o *Output) printContestant(c Contestant) {
	_, _ = fmt.Fprintf(o.w, "#%d %s (%s)\n", c.ID, c.Name, c.Category)
}

func (o *Output) printContestantList(l ContestantList) {
	if len(l.Contestants) == 0 {
		_, _ = fmt.Fprintln(o.w, "No contestants yet")
		return
	}
	for _, c := range l.Contestants {
		o.printContestant(c)
	}
}

func (o *Output) printCounts(c Counts) {
	_, _ = fmt.Fprintf(o.w, "Total: %d\n", c.Total)
	_, _ = fmt.Fprintf(o.w, "Mr:    %d\n", c.Mr)
	_, _ = fmt.Fprintf(o.w, "Ms:    %d\n", c.Ms)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Latency != "" {
		_, _ = fmt.Fprintf(o.w, "Latency: %s\n", h.Latency)
	}
}
