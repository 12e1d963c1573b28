package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/vikasavnish/carecoord/internal/entity"
)

// Session is an authenticated user scope. Its Token method can be passed to
// WithTokenSource.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
	role   string
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Owner returns the owner scope of the session's collections.
func (s *Session) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      any    `json:"user_id"`
	Role        string `json:"role"`
}

// Login exchanges credentials for a session.
func Login(ctx context.Context, hc *http.Client, baseURL, email, password string) (*Session, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("encode login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: login: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read login: %w", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(resp.StatusCode, data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var lr loginResponse
	if err := dec.Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode login: %w", err)
	}
	id, ok := entity.ParseID(lr.UserID)
	if !ok || lr.AccessToken == "" {
		return nil, errors.New("login response without token or user id")
	}
	return &Session{token: lr.AccessToken, userID: id.String(), role: lr.Role}, nil
}
