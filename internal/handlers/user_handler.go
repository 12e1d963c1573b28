package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/utils"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

// UserHandler lets admins manage accounts
type UserHandler struct {
	userService services.UserService
	changes     changes
}

func NewUserHandler(userService services.UserService, hub websocket.Broadcaster, reports services.ReportService) *UserHandler {
	return &UserHandler{
		userService: userService,
		changes:     changes{hub: hub, reports: reports},
	}
}

// RegisterRoutes expects an admin-only router
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.GetUsers).Methods("GET")
	router.HandleFunc("/users", h.CreateUser).Methods("POST")
	router.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers()
	if err != nil {
		writeServiceError(w, err, "Failed to load users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates an account with the requested role
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		writeServiceError(w, err, "Failed to create user")
		return
	}

	h.changes.publish(r.Context(), "user", "created", user.ID, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// DeleteUser removes an account and everything it owns
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// Admins cannot delete themselves
	if userID, err := utils.GetUserIDFromContext(r.Context()); err == nil && userID == id {
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		writeServiceError(w, err, "Failed to delete user")
		return
	}

	h.changes.publish(r.Context(), "user", "deleted", id, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
