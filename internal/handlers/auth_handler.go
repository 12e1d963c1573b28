package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.Register).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
}

// Register creates a regular user account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	// Self-registration never grants admin
	req.Role = models.RoleUser
	user, err := h.userService.CreateUser(req)
	if err != nil {
		writeServiceError(w, err, "Could not register user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles user login and returns a JWT token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if !decode(w, r, &loginReq) {
		return
	}

	// Authenticate the user
	user, err := h.authService.Authenticate(loginReq.Email, loginReq.Password)
	if err != nil {
		writeServiceError(w, err, "Login failed")
		return
	}

	// Generate token
	tokenString, err := h.authService.GenerateToken(user)
	if err != nil {
		writeServiceError(w, err, "Could not generate token")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		UserID:      user.ID,
		Role:        user.Role,
	})
}
