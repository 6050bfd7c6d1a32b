package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
	"github.com/neu-balayan/pageantscore/internal/services/gate"
	"github.com/neu-balayan/pageantscore/internal/web/middleware"
	"github.com/neu-balayan/pageantscore/internal/web/templates/components"
	"github.com/neu-balayan/pageantscore/internal/web/templates/layout"
	"github.com/neu-balayan/pageantscore/internal/web/templates/pages"
)

// GateCookie identifies the login form open in this browser
const GateCookie = "login_gate"

// AuthHandler drives the administrator login form and logout
type AuthHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginPage opens the login form, reusing the one already open in this
// browser if it is still live
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	message := ""
	token := h.gateToken(r)
	if _, msg, err := h.authService.LoginState(token); err == nil {
		message = msg
	} else {
		token = h.authService.BeginLogin()
		h.setCookie(w, GateCookie, token, 0)
	}

	h.renderLogin(w, r, "", message)
}

// Login submits the login form
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	session, err := h.authService.SubmitLogin(r.Context(), h.gateToken(r), username, password)
	switch {
	case err == nil:
		h.clearCookie(w, GateCookie)
		h.setCookie(w, middleware.SessionCookie, session.Token, time.Until(session.ExpiresAt))
		http.Redirect(w, r, "/admin", http.StatusSeeOther)

	case errors.Is(err, model.ErrMissingInput):
		h.renderLogin(w, r, username, gate.MessageMissingInput)

	case errors.Is(err, model.ErrInvalidCredentials):
		h.renderLogin(w, r, username, gate.MessageInvalidCredentials)

	case errors.Is(err, gate.ErrVerificationInFlight):
		h.renderLogin(w, r, username, "Verification in progress")

	case errors.Is(err, auth.ErrUnknownGate):
		middleware.SetFlash(w, middleware.FlashError, "Login form expired, please try again")
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)

	default:
		// Cancelled form or abandoned request: nothing to show
		h.logger.Debug("login submission dropped", slog.String("reason", err.Error()))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Cancel dismisses the login form
func (h *AuthHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.authService.CancelLogin(h.gateToken(r))
	h.clearCookie(w, GateCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the administrator session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}
	h.clearCookie(w, middleware.SessionCookie)

	middleware.SetFlash(w, middleware.FlashInfo, "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, username, message string) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Administrator Login",
			Flash: middleware.GetFlash(r.Context()),
		},
		Login: &components.LoginModalData{
			Username: strings.TrimSpace(username),
			Message:  message,
		},
	}
	render(w, r, pages.Home(data))
}

func (h *AuthHandler) gateToken(r *http.Request) string {
	cookie, err := r.Cookie(GateCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
