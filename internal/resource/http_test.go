package resource

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/carecoord/internal/entity"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(data, &body)

	rec.mu.Lock()
	rec.requests = append(rec.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	status, response := rec.status, rec.response
	rec.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func (rec *recorder) calls() []recordedRequest {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]recordedRequest(nil), rec.requests...)
}

func newTestClient(t *testing.T, kind entity.Kind, rec *recorder) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api/", DefaultRoutes(kind), WithToken("tok"))
}

func TestFamilyRoutes(t *testing.T) {
	rec := &recorder{response: `{"id":101}`}
	c := newTestClient(t, entity.KindFamily, rec)
	ctx := context.Background()

	_, err := c.List(ctx, "7")
	require.NoError(t, err)
	raw, err := c.Create(ctx, "7", map[string]any{"name": "Jane Doe", "age": 30, "relationship": "Spouse"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":101}`, string(raw))
	_, err = c.Update(ctx, "7", "101", map[string]any{"name": "Jane"})
	require.NoError(t, err)
	require.NoError(t, c.Remove(ctx, "7", "101"))

	calls := rec.calls()
	require.Len(t, calls, 4)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/api/family/7/all", calls[0].Path)
	assert.Equal(t, "Bearer tok", calls[0].Auth)
	assert.Equal(t, "/api/family/add/7", calls[1].Path)
	assert.Equal(t, map[string]any{"name": "Jane Doe", "age": float64(30), "relationship": "Spouse"}, calls[1].Body)
	assert.Equal(t, http.MethodPut, calls[2].Method)
	assert.Equal(t, "/api/family/update/101/7", calls[2].Path)
	assert.Equal(t, http.MethodDelete, calls[3].Method)
	assert.Equal(t, "/api/family/delete/101/7", calls[3].Path)
}

func TestCollectionRoutesEscapeSegments(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, entity.KindPet, rec)

	require.NoError(t, c.Remove(context.Background(), "u 1", "a/b"))

	calls := rec.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/users/u%201/pets/a%2Fb", calls[0].Path)
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusConflict, `{"message":"Member was modified"}`, "Member was modified"},
		{"error field", http.StatusBadRequest, `{"error":"bad age"}`, "bad age"},
		{"plain text", http.StatusInternalServerError, "boom", ""},
		{"empty body", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, entity.KindFamily, &recorder{status: tt.status, response: tt.body})

			_, err := c.Update(context.Background(), "7", "1", map[string]any{})

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Code)
			assert.Equal(t, tt.message, se.Message)
			want := tt.message
			if want == "" {
				want = "fallback"
			}
			assert.Equal(t, want, Message(err, "fallback"))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, DefaultRoutes(entity.KindPet))
	_, err := c.List(context.Background(), "1")

	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestCanceledContextIsPreserved(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, entity.KindPet, rec)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx, "1")

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls())
}

func TestPaymentHasOnlyCreate(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, entity.KindPayment, rec)
	ctx := context.Background()

	_, err := c.List(ctx, "1")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.Update(ctx, "1", "2", nil)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, c.Remove(ctx, "1", "2"), ErrUnsupported)
	assert.Empty(t, rec.calls())

	_, err = c.Create(ctx, "1", map[string]any{"service": "Scheduling"})
	require.NoError(t, err)
	assert.Equal(t, "/api/users/1/payment", rec.calls()[0].Path)
}

func TestTokenSourceIsReadPerCall(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	token := "first"
	c := NewHTTPClient(srv.URL, DefaultRoutes(entity.KindElderly), WithTokenSource(func() string { return token }))
	_, err := c.List(context.Background(), "1")
	require.NoError(t, err)
	token = "second"
	_, err = c.List(context.Background(), "1")
	require.NoError(t, err)

	calls := rec.calls()
	assert.Equal(t, "Bearer first", calls[0].Auth)
	assert.Equal(t, "Bearer second", calls[1].Auth)
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"jwt","token_type":"bearer","user_id":42,"role":"user"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, err := Login(context.Background(), srv.Client(), srv.URL+"/api", "a@b.co", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", s.Token())
	assert.Equal(t, "42", s.Owner())
	assert.Equal(t, "user", s.Role())

	_, err = Login(context.Background(), srv.Client(), srv.URL+"/api", "a@b.co", "wrong")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Invalid credentials", se.Message)
}
