package handler

import (
	"log/slog"
	"net/http"

	"github.com/neu-balayan/pageantscore/internal/services/roster"
	"github.com/neu-balayan/pageantscore/internal/web/middleware"
	"github.com/neu-balayan/pageantscore/internal/web/sse"
	"github.com/neu-balayan/pageantscore/internal/web/templates/layout"
	"github.com/neu-balayan/pageantscore/internal/web/templates/pages"
)

// AdminHandler serves the administrator dashboard
type AdminHandler struct {
	roster *roster.Service
	hub    *sse.Hub
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(rosterService *roster.Service, hub *sse.Hub, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		roster: rosterService,
		hub:    hub,
		logger: logger,
	}
}

// Dashboard renders the selected dashboard tab
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pages.AdminData{
		PageData: layout.PageData{
			Title: "Administrator",
			Flash: middleware.GetFlash(ctx),
			Admin: middleware.Admin(ctx),
		},
		Tab: pages.ParseTab(r.URL.Query().Get("tab")),
	}

	if data.Tab == pages.TabContestants {
		mr, ms, err := h.roster.Partition(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		counts, err := h.roster.Counts(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		data.Mr, data.Ms, data.Counts = mr, ms, counts
	}

	render(w, r, pages.Admin(data))
}

// AddContestant handles the registration form. A blank name is ignored.
func (h *AdminHandler) AddContestant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, "/admin?tab=contestants", http.StatusSeeOther)
		return
	}

	c, err := h.roster.Add(r.Context(), r.FormValue("name"), r.FormValue("category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c != nil {
		middleware.SetFlash(w, middleware.FlashSuccess, "Registered "+c.Name)
	}

	http.Redirect(w, r, "/admin?tab=contestants", http.StatusSeeOther)
}

// Events streams roster updates to the dashboard
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub, middleware.Admin(r.Context()))
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("roster unavailable",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	ServerError(w, r)
}
