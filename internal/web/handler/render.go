package handler

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	"github.com/neu-balayan/pageantscore/internal/web/templates/layout"
	"github.com/neu-balayan/pageantscore/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

// renderStatus renders into a buffer first so a template failure never
// leaves a half-written page behind
func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ServerError renders the generic 500 page. It also answers requests whose
// handler panicked.
func ServerError(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, r, http.StatusInternalServerError, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Something went wrong"},
		Message:  "Please try again in a moment.",
	}))
}
