package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/utils"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeServiceError maps service errors onto status codes. Unexpected
// errors are logged and answered with fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: verr.Error(), Errors: verr.Fields})
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, services.ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// ownerScope resolves the {owner} path segment. Callers may only touch
// their own records unless they are admins.
func ownerScope(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	owner, ok := pathID(w, r, "owner")
	if !ok {
		return 0, false
	}
	if owner != userID && utils.GetRoleFromContext(r.Context()) != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "Forbidden")
		return 0, false
	}
	return owner, true
}

// changes publishes a mutation to push clients and drops the cached
// dashboard summary
type changes struct {
	hub     websocket.Broadcaster
	reports services.ReportService
}

func (c changes) publish(ctx context.Context, kind, action string, id, userID uint) {
	if c.reports != nil {
		c.reports.Invalidate(ctx)
	}
	if c.hub != nil {
		c.hub.Broadcast(models.Message{
			Type:    kind + "_changed",
			Content: models.ChangeEvent{Action: action, ID: id, UserID: userID},
		})
	}
}
