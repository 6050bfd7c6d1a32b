package handler

import (
	"net/http"

	"github.com/neu-balayan/pageantscore/internal/web/middleware"
	"github.com/neu-balayan/pageantscore/internal/web/templates/layout"
	"github.com/neu-balayan/pageantscore/internal/web/templates/pages"
)

// HomeHandler handles the landing page and the judge entry point
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
			Admin: middleware.Admin(r.Context()),
		},
	}
	render(w, r, pages.Home(data))
}

// Judge handles the judge panel entry point, which this build does not offer
func (h *HomeHandler) Judge(w http.ResponseWriter, r *http.Request) {
	middleware.SetFlash(w, middleware.FlashInfo, "Judge panel not implemented in this demo")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
