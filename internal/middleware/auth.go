package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/utils"
)

// AuthMiddleware checks for a valid bearer token and adds the user ID and
// role to the request context
func AuthMiddleware(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorizationHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
			if !ok || tokenString == "" {
				unauthorized(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			// Parse and validate the token
			claims, err := authService.ParseToken(tokenString)
			if err != nil {
				unauthorized(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := utils.SetUserIDToContext(r.Context(), claims.UserID)
			ctx = utils.SetRoleToContext(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// It must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.GetRoleFromContext(r.Context()) != models.RoleAdmin {
			unauthorized(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
