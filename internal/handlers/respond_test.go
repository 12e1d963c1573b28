package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/utils"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"age": "Please enter a valid age (0-150)"}}, http.StatusBadRequest, "Please enter a valid age (0-150)"},
		{"not found", fmt.Errorf("load: %w", services.ErrNotFound), http.StatusNotFound, "Record not found"},
		{"conflict", services.ErrUserExists, http.StatusConflict, "User already exists"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, "Failed to add pet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			writeServiceError(rr, tt.err, "Failed to add pet")

			assert.Equal(t, tt.status, rr.Code)
			var body errorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestOwnerScope(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		role   string
		owner  string
		status int
	}{
		{"own records", 7, models.RoleUser, "7", http.StatusOK},
		{"someone else", 8, models.RoleUser, "7", http.StatusForbidden},
		{"admin", 1, models.RoleAdmin, "7", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.owner+"/pets", nil)
			ctx := utils.SetUserIDToContext(context.Background(), tt.userID)
			req = mux.SetURLVars(req.WithContext(utils.SetRoleToContext(ctx, tt.role)), map[string]string{"owner": tt.owner})
			rr := httptest.NewRecorder()

			owner, ok := ownerScope(rr, req)

			if tt.status == http.StatusOK {
				require.True(t, ok)
				assert.Equal(t, uint(7), owner)
			} else {
				assert.False(t, ok)
				assert.Equal(t, tt.status, rr.Code)
			}
		})
	}
}

type recordingHub struct{ messages []models.Message }

func (h *recordingHub) Broadcast(msg models.Message) { h.messages = append(h.messages, msg) }

func TestChangesPublish(t *testing.T) {
	hub := &recordingHub{}

	changes{hub: hub}.publish(context.Background(), "pet", "deleted", 3, 7)

	require.Len(t, hub.messages, 1)
	assert.Equal(t, "pet_changed", hub.messages[0].Type)
	assert.Equal(t, models.ChangeEvent{Action: "deleted", ID: 3, UserID: 7}, hub.messages[0].Content)
}
