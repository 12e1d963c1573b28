package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/db/dbtest"
	"github.com/vikasavnish/carecoord/internal/logging"
	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:   config.JWTConfig{SecretKey: []byte("test-secret"), TTL: time.Hour},
		Redis: config.RedisConfig{SummaryTTL: time.Minute},
	}
}

// newServer serves the full router over a fresh database
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newServerWith(t, Deps{})
}

func newServerWith(t *testing.T, deps Deps) *httptest.Server {
	t.Helper()
	hub := websocket.NewHub(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()

	deps.DB, deps.Hub, deps.Logger = dbtest.Open(t), hub, logging.Discard()
	router := SetupRouter(deps, testConfig())
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body interface{}) (int, map[string]interface{}, []interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	var obj map[string]interface{}
	var arr []interface{}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		require.NoError(c.t, json.Unmarshal(data, &arr))
	} else if len(bytes.TrimSpace(data)) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(data, &obj))
	}
	return resp.StatusCode, obj, arr
}

// login registers email when needed and returns an authenticated client
// plus the user id
func login(t *testing.T, srv *httptest.Server, email, password string, register bool) (*apiClient, string) {
	t.Helper()
	c := &apiClient{t: t, base: srv.URL + "/api"}
	if register {
		status, _, _ := c.do("POST", "/register", map[string]string{"name": "Test", "email": email, "password": password})
		require.Equal(t, http.StatusCreated, status)
	}
	status, body, _ := c.do("POST", "/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status)
	c.token = body["access_token"].(string)
	return c, strconv.Itoa(int(body["user_id"].(float64)))
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	c := &apiClient{t: t, base: srv.URL + "/api"}

	status, body, _ := c.do("GET", "/health", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newServer(t)
	c := &apiClient{t: t, base: srv.URL + "/api"}

	status, body, _ := c.do("POST", "/register", map[string]string{"name": "Ann", "email": "ann@example.com", "phonenumber": "5551234567", "password": "secret1", "role": "admin"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "user", body["role"])
	assert.NotContains(t, body, "hashedPassword")

	status, body, _ = c.do("POST", "/register", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User already exists", body["message"])

	status, body, _ = c.do("POST", "/register", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "password")

	status, body, _ = c.do("POST", "/login", map[string]string{"email": "ann@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestFamilyRoutesEnforceOwner(t *testing.T) {
	srv := newServer(t)
	ann, annID := login(t, srv, "ann@example.com", "secret1", true)
	bob, bobID := login(t, srv, "bob@example.com", "secret1", true)

	status, created, _ := ann.do("POST", "/family/add/"+annID, map[string]interface{}{"name": "Jane Doe", "age": 30, "relationship": "Spouse"})
	require.Equal(t, http.StatusCreated, status)
	memberID := strconv.Itoa(int(created["id"].(float64)))

	status, body, _ := ann.do("GET", "/family/"+annID+"/all", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["members"], 1)

	status, _, _ = bob.do("GET", "/family/"+annID+"/all", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _, _ = bob.do("DELETE", "/family/delete/"+memberID+"/"+bobID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body, _ = ann.do("PUT", "/family/update/"+memberID+"/"+annID, map[string]interface{}{"name": "Jane", "age": -5, "relationship": "Spouse"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please enter a valid age (0-150)", body["message"])

	status, _, _ = ann.do("DELETE", "/family/delete/"+memberID+"/"+annID, nil)
	assert.Equal(t, http.StatusOK, status)

	anon := &apiClient{t: t, base: srv.URL + "/api"}
	status, _, _ = anon.do("GET", "/family/"+annID+"/all", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminRoutes(t *testing.T) {
	srv := newServer(t)
	user, userID := login(t, srv, "ann@example.com", "secret1", true)
	admin, _ := login(t, srv, dbtest.AdminEmail, dbtest.AdminPassword, false)

	status, _, _ := user.do("GET", "/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _, users := admin.do("GET", "/admin/users", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, users, 2)

	// Admins may act inside any owner scope
	status, _, _ = admin.do("POST", "/users/"+userID+"/pets", map[string]interface{}{"name": "Rex", "type": "Dog", "breed": "Beagle", "age": 3})
	assert.Equal(t, http.StatusCreated, status)
	status, _, _ = user.do("POST", "/users/"+userID+"/payment", map[string]interface{}{"service": "Scheduling", "amount": 1, "cardLast4": "4242"})
	assert.Equal(t, http.StatusCreated, status)

	status, dashboard, _ := admin.do("GET", "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), dashboard["pets"])
	assert.Equal(t, float64(20), dashboard["revenue"])

	status, _, services := admin.do("GET", "/admin/services", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, services)
	first := services[0].(map[string]interface{})
	serviceID := strconv.Itoa(int(first["id"].(float64)))
	status, updated, _ := admin.do("PUT", "/admin/services/"+serviceID, map[string]interface{}{"name": "Family Care", "price": 60, "active": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(60), updated["price"])
	status, _, _ = admin.do("DELETE", "/admin/services/"+serviceID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = admin.do("DELETE", "/admin/users/"+userID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = admin.do("DELETE", "/admin/users/"+userID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

type stubReports struct {
	mu          sync.Mutex
	summary     models.DashboardSummary
	invalidated int
}

func (s *stubReports) Summary(context.Context) (models.DashboardSummary, error) {
	return s.summary, nil
}

func (s *stubReports) Refresh(context.Context) (models.DashboardSummary, error) {
	return s.summary, nil
}

func (s *stubReports) Invalidate(context.Context) {
	s.mu.Lock()
	s.invalidated++
	s.mu.Unlock()
}

func (s *stubReports) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

func TestRouterUsesSharedReports(t *testing.T) {
	reports := &stubReports{summary: models.DashboardSummary{Pets: 42}}
	srv := newServerWith(t, Deps{Reports: reports})
	user, userID := login(t, srv, "ann@example.com", "secret1", true)
	admin, _ := login(t, srv, dbtest.AdminEmail, dbtest.AdminPassword, false)

	status, dashboard, _ := admin.do("GET", "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(42), dashboard["pets"])

	before := reports.count()
	status, _, _ = user.do("POST", "/users/"+userID+"/pets", map[string]interface{}{"name": "Rex", "type": "Dog", "breed": "Beagle", "age": 3})
	require.Equal(t, http.StatusCreated, status)
	assert.Greater(t, reports.count(), before)
}

func TestUnknownAPIPathIsJSON(t *testing.T) {
	srv := newServer(t)
	c := &apiClient{t: t, base: srv.URL + "/api"}

	status, body, _ := c.do("GET", "/nowhere/at/all", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", body["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t)
	c := &apiClient{t: t, base: srv.URL + "/api"}
	c.do("GET", "/health", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(data), `route="/api/health"`)
}

func TestPrintRoutes(t *testing.T) {
	router := SetupRouter(Deps{Hub: websocket.NewHub(logging.Discard())}, testConfig())
	var buf bytes.Buffer

	require.NoError(t, PrintRoutes(&buf, router))

	out := buf.String()
	for _, line := range []string{
		"POST\t/api/login",
		"GET\t/api/family/{owner:[0-9]+}/all",
		"PUT\t/api/family/update/{id:[0-9]+}/{owner:[0-9]+}",
		"POST\t/api/users/{owner:[0-9]+}/payment",
		"DELETE\t/api/admin/users/{id:[0-9]+}",
		"ANY\t/ws",
	} {
		assert.True(t, strings.Contains(out, line+"\n"), "missing %q", line)
	}
}
