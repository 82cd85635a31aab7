package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-client/internal/logger"
	"github.com/jwebster45206/adventure-client/internal/session"
	"github.com/jwebster45206/adventure-client/internal/viewmodel"
	"github.com/jwebster45206/adventure-client/internal/views"
	"github.com/jwebster45206/adventure-client/pkg/view"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

// SessionCookie names the cookie holding the browser's session ID.
const SessionCookie = "adventure_session"

// StateResponse is the JSON form of a session's current state.
type StateResponse struct {
	Mode  string    `json:"mode"`
	View  view.View `json:"view"`
	Error string    `json:"error,omitempty"`
}

// GameHandler serves the browser client. Every session has its own
// controller; handlers only call its transition methods.
type GameHandler struct {
	store  *session.Store
	logger *slog.Logger
}

func NewGameHandler(store *session.Store, logger *slog.Logger) *GameHandler {
	return &GameHandler{store: store, logger: logger}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.gamePage)
	r.Get("/state", h.state)
	r.Post("/command", h.submitCommand)
	r.Post("/reset", h.resetGame)
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	h.ensureInitialized(r, sess)

	c := sess.Controller
	render(w, r, views.GamePage(viewmodel.NewGamePage(c.View(), c.LastError())))
}

func (h *GameHandler) state(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	h.ensureInitialized(r, sess)

	c := sess.Controller
	resp := StateResponse{Mode: c.Mode().String(), View: c.View()}
	if err := c.LastError(); err != nil {
		resp.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Error encoding state response", "error", err)
	}
}

func (h *GameHandler) submitCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := h.sessionFor(w, r)
	log := logger.WithSession(h.logger, sess.ID.String())

	err := sess.Controller.SubmitCommand(r.Context(), r.FormValue("command"))
	switch {
	case err == nil:
	case errors.Is(err, viewstate.ErrGameOver), errors.Is(err, viewstate.ErrEmptyCommand):
		log.Debug("Command not sent", "reason", err)
	default:
		// already recorded on the controller and shown on the page
		log.Warn("Command failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GameHandler) resetGame(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if err := sess.Controller.Reset(r.Context()); err != nil {
		logger.WithSession(h.logger, sess.ID.String()).Warn("Reset failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GameHandler) ensureInitialized(r *http.Request, sess *session.Session) {
	if sess.Controller.Initialized() {
		return
	}
	err := sess.Controller.Initialize(r.Context())
	if err != nil && !errors.Is(err, viewstate.ErrAlreadyInitialized) {
		logger.WithSession(h.logger, sess.ID.String()).Warn("Initial load failed", "error", err)
	}
}

// sessionFor returns the caller's session, starting a new one when the
// cookie is missing, malformed, or expired.
func (h *GameHandler) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			if sess, ok := h.store.Get(id); ok {
				return sess
			}
		}
	}

	sess := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.WithSession(h.logger, sess.ID.String()).Info("Session started")
	return sess
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}
