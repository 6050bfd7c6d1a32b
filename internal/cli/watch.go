package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

// Event names sent on the dashboard stream
const (
	eventConnected    = "connected"
	eventRosterUpdate = "roster-update"
)

// sessionCookie authenticates the dashboard stream
const sessionCookie = "session"

func newWatchCmd() *cobra.Command {
	var (
		jsonOutput bool
		maxEvents  int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live roster updates",
		Long: `Connect to the admin dashboard's event stream and print a headcount
every time a contestant is registered.

Requires an administrator session. Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return errors.New("not signed in")
			}
			return streamEvents(cmd.Context(), cmd.OutOrStdout(), jsonOutput, maxEvents)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "Disconnect after this many roster updates (0 streams until interrupted)")

	return cmd
}

// RosterEvent is one parsed roster update
type RosterEvent struct {
	Time   time.Time `json:"time"`
	Event  string    `json:"event"`
	Counts Counts    `json:"counts"`
	Latest string    `json:"latest,omitempty"`
}

func streamEvents(parent context.Context, w io.Writer, jsonOutput bool, maxEvents int) error {
	if parent == nil {
		parent = context.Background()
	}

	// SSE is served by the web router, not the API router
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/admin/events"

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The dashboard authenticates with the session cookie
	req.AddCookie(&http.Cookie{
		Name:  sessionCookie,
		Value: cfg.Token,
	})

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return errors.New("session rejected: sign in again")
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		currentEvent string
		dataLines    []string
		seen         int
	)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			event, data := currentEvent, strings.Join(dataLines, "\n")
			currentEvent, dataLines = "", nil

			switch event {
			case eventConnected:
				if !jsonOutput {
					_, _ = fmt.Fprintln(w, "Connected to roster feed")
				}
			case eventRosterUpdate:
				evt, err := parseRosterUpdate(data)
				if err != nil {
					return err
				}
				printEvent(w, evt, jsonOutput)
				seen++
				if maxEvents > 0 && seen >= maxEvents {
					return nil
				}
			}
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// parseRosterUpdate reads the headcounts and the newest name out of the
// re-rendered roster panel
func parseRosterUpdate(data string) (RosterEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data))
	if err != nil {
		return RosterEvent{}, fmt.Errorf("failed to parse roster update: %w", err)
	}

	evt := RosterEvent{
		Time:  time.Now(),
		Event: eventRosterUpdate,
		Counts: Counts{
			Total: statValue(doc, "#stat-total"),
			Mr:    statValue(doc, "#stat-mr"),
			Ms:    statValue(doc, "#stat-ms"),
		},
	}

	// Lists are in registration order; the highest badge is the newest entry
	newest := 0
	doc.Find(".list-row").Each(func(_ int, row *goquery.Selection) {
		var id int
		if _, err := fmt.Sscan(strings.TrimSpace(row.Find(".badge").Text()), &id); err != nil {
			return
		}
		if id > newest {
			newest = id
			evt.Latest = strings.TrimSpace(row.Find(".name").Text())
		}
	})

	return evt, nil
}

func statValue(doc *goquery.Document, selector string) int {
	var n int
	_, _ = fmt.Sscan(strings.TrimSpace(doc.Find(selector+" .stat-num").Text()), &n)
	return n
}

func printEvent(w io.Writer, evt RosterEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(w, string(data))
		return
	}

	timestamp := evt.Time.Format(time.DateTime)
	line := fmt.Sprintf("[%s] total %d (Mr %d, Ms %d)", timestamp, evt.Counts.Total, evt.Counts.Mr, evt.Counts.Ms)
	if evt.Latest != "" {
		line += ": " + evt.Latest + " registered"
	}
	_, _ = fmt.Fprintln(w, line)
}
