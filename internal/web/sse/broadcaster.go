package sse

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/roster"
	"github.com/neu-balayan/pageantscore/internal/web/templates/components"
)

// EventRosterUpdate carries the re-rendered roster panel
const EventRosterUpdate = "roster-update"

// Broadcaster pushes roster changes to connected dashboards
type Broadcaster struct {
	hub    *Hub
	roster *roster.Service
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, rosterService *roster.Service, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		roster: rosterService,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// OnContestantAdded is a roster listener that re-renders the roster panel
func (b *Broadcaster) OnContestantAdded(ctx context.Context, event model.Event) {
	if event.Type != model.EventContestantAdded {
		return
	}
	if !b.BroadcastRoster(ctx) {
		return
	}
	b.logger.Debug("roster update pushed",
		slog.Int("contestant_id", int(event.Contestant.ID)),
		slog.Time("added_at", event.Timestamp),
		slog.Int("clients", b.hub.ClientCount()))
}

// BroadcastRoster renders the current stats and lists and sends them as an
// out-of-band swap. It reports whether an update was queued.
func (b *Broadcaster) BroadcastRoster(ctx context.Context) bool {
	if b.hub.ClientCount() == 0 {
		return false
	}

	mr, ms, err := b.roster.Partition(ctx)
	if err != nil {
		b.logger.Error("sse failed to read roster", slog.Any("error", err))
		return false
	}
	counts, err := b.roster.Counts(ctx)
	if err != nil {
		b.logger.Error("sse failed to count roster", slog.Any("error", err))
		return false
	}

	var buf bytes.Buffer
	if err := components.RosterPanel(counts, mr, ms).Render(ctx, &buf); err != nil {
		b.logger.Error("sse failed to render roster", slog.Any("error", err))
		return false
	}

	b.hub.BroadcastEvent(EventRosterUpdate, WrapForOOBSwap(components.RosterPanelID, buf.String()))
	return true
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}
