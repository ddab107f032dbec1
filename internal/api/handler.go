package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/utakatalp/prode/internal/league"
	"github.com/utakatalp/prode/internal/service"
	"github.com/utakatalp/prode/internal/store"
)

// Standings is what the handler needs from the group service.
type Standings interface {
	Table(ctx context.Context, groupID int64) (*service.Standings, error)
	GuessedTable(ctx context.Context, groupID int64, userID string) (*service.Standings, error)
	ResolvePosition(ctx context.Context, groupID int64, position int) (string, error)
	Score(ctx context.Context, groupID int64, userID string) (*league.GroupScore, error)
}

// Handler serves group tables over HTTP.
type Handler struct {
	standings Standings
	logger    *logrus.Logger
}

func NewHandler(standings Standings, logger *logrus.Logger) *Handler {
	return &Handler{standings: standings, logger: logger}
}

// Router registers every route on a new mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	g := r.PathPrefix("/groups/{groupID:[0-9]+}").Subrouter()
	g.HandleFunc("/table", h.handleTable).Methods(http.MethodGet)
	g.HandleFunc("/table/users/{userID}", h.handleGuessedTable).Methods(http.MethodGet)
	g.HandleFunc("/positions/{position}", h.handlePosition).Methods(http.MethodGet)
	g.HandleFunc("/scores/users/{userID}", h.handleScore).Methods(http.MethodGet)

	r.Use(h.logRequests)
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("Handling request")
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	standings, err := h.standings.Table(r.Context(), groupID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, standings)
}

func (h *Handler) handleGuessedTable(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	standings, err := h.standings.GuessedTable(r.Context(), groupID, mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, standings)
}

type positionResponse struct {
	GroupID  int64  `json:"group_id"`
	Position int    `json:"position"`
	TeamID   string `json:"team_id"`
}

func (h *Handler) handlePosition(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	position, err := strconv.Atoi(mux.Vars(r)["position"])
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "position must be a number"})
		return
	}
	teamID, err := h.standings.ResolvePosition(r.Context(), groupID, position)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, positionResponse{GroupID: groupID, Position: position, TeamID: teamID})
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	score, err := h.standings.Score(r.Context(), groupID, mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, score)
}

func (h *Handler) groupID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["groupID"], 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid group id"})
		return 0, false
	}
	return id, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrGroupNotFound), errors.Is(err, league.ErrPositionOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, league.ErrInvalidMatchOutcome), errors.Is(err, league.ErrDuplicateTeam):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	entry := h.logger.WithError(err).WithField("status", status)
	if status == http.StatusInternalServerError {
		entry.Error("Request failed")
		h.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	entry.Info("Request rejected")
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to write response")
	}
}
