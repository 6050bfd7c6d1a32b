package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neu-balayan/pageantscore/internal/api"
	"github.com/neu-balayan/pageantscore/internal/api/apierr"
	"github.com/neu-balayan/pageantscore/internal/api/response"
	"github.com/neu-balayan/pageantscore/internal/factory"
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		AuthService:   app.AuthService,
		RosterService: app.RosterService,
		Storage:       app.Storage,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func login(t *testing.T, ts *testServer) string {
	t.Helper()
	body := map[string]string{"username": testutil.AdminUsername, "password": testutil.AdminPassword}
	rr := ts.request(http.MethodPost, "/api/v1/admin/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken
}

func addContestant(t *testing.T, ts *testServer, token, name, category string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request(http.MethodPost, "/api/v1/contestants",
		map[string]string{"name": name, "category": category}, token)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheckReportsStorageDown(t *testing.T) {
	app := factory.NewTestApp()
	defer app.Close()

	router := api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		AuthService:   app.AuthService,
		RosterService: app.RosterService,
		Storage:       downStore{},
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": testutil.AdminUsername, "password": testutil.AdminPassword}
	rr := ts.request(http.MethodPost, "/api/v1/admin/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, testutil.AdminUsername, resp.Username)
	assert.True(t, ts.app.MockClock.Now().Add(24*time.Hour).Equal(resp.ExpiresAt))
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)

	tests := []map[string]string{
		{"username": testutil.AdminUsername, "password": "wrong"},
		{"username": "Admin", "password": testutil.AdminPassword},
	}
	for _, body := range tests {
		rr := ts.request(http.MethodPost, "/api/v1/admin/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		apiErr := decodeError(t, rr)
		assert.Equal(t, apierr.CodeInvalidCredentials, apiErr.Code)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
	}
}

func TestLoginMissingInput(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeMissingInput, apiErr.Code)
	assert.Equal(t, "Enter username and password", apiErr.Message)
}

func TestLoginMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/contestants"},
		{http.MethodPost, "/api/v1/contestants"},
		{http.MethodGet, "/api/v1/contestants/counts"},
		{http.MethodPost, "/api/v1/admin/logout"},
		{http.MethodGet, "/api/v1/admin/me"},
	} {
		rr := ts.request(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
		assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, rr).Code)
	}
}

func TestSessionExpires(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	ts.app.MockClock.Advance(25 * time.Hour)

	rr := ts.request(http.MethodGet, "/api/v1/contestants", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	rr := ts.request(http.MethodGet, "/api/v1/admin/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/admin/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAddAndListContestants(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	rr := addContestant(t, ts, token, "  Juan  ", model.CategoryMr)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response.Contestant
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Juan", created.Name)
	assert.Equal(t, model.CategoryMr, created.Category)

	// Blank name is a silent no-op
	rr = addContestant(t, ts, token, "   ", model.CategoryMs)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = addContestant(t, ts, token, "Maria", model.CategoryMs)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, 2, created.ID)

	// Missing category defaults to Mr
	rr = addContestant(t, ts, token, "Pedro", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, model.CategoryMr, created.Category)

	rr = ts.request(http.MethodGet, "/api/v1/contestants", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var list response.ContestantList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Contestants, 3)
	assert.Equal(t, "Juan", list.Contestants[0].Name)
	assert.Equal(t, "Maria", list.Contestants[1].Name)
	assert.Equal(t, "Pedro", list.Contestants[2].Name)

	rr = ts.request(http.MethodGet, "/api/v1/contestants?category=Mr", nil, token)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Contestants, 2)
	assert.Equal(t, 1, list.Contestants[0].ID)
	assert.Equal(t, 3, list.Contestants[1].ID)

	rr = ts.request(http.MethodGet, "/api/v1/contestants/counts", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total":3,"mr":2,"ms":1}`, rr.Body.String())
}

func TestListNoMatchIsEmptyArray(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	rr := ts.request(http.MethodGet, "/api/v1/contestants?category=Ms", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"contestants":[]}`, rr.Body.String())
}

func TestAddContestantMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contestants", bytes.NewBufferString("not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionCookieAccepted(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contestants/counts", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthorizationSchemeIsCaseInsensitive(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Basic "+token)
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestResponsesAreNotCached(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/login",
		map[string]string{"username": testutil.AdminUsername, "password": testutil.AdminPassword}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}
