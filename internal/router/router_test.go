package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grievance-portal/internal/app"
	"grievance-portal/internal/config"
	"grievance-portal/internal/repository/memory"
	"grievance-portal/internal/seed"
	"grievance-portal/internal/upload"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
}

type harness struct {
	t   *testing.T
	srv *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Config{
		Env:           "dev",
		SessionSecret: "test-secret",
		TokenTTL:      time.Hour,
		Origin:        "http://localhost:3000",
	}
	store, err := memory.NewSeeded()
	require.NoError(t, err)
	files, err := upload.NewDiskStore(t.TempDir(), "", 1<<10)
	require.NoError(t, err)
	svc := app.NewServices(app.Repositories{
		Grievances:  store.Grievances(),
		Users:       store.Users(),
		Departments: store.Departments(),
	}, files, cfg, zerolog.Nop())

	srv := httptest.NewServer(New(zerolog.Nop(), svc, cfg))
	t.Cleanup(srv.Close)
	return &harness{t: t, srv: srv}
}

func (h *harness) do(method, path, token string, body io.Reader, contentType string) (*http.Response, envelope) {
	h.t.Helper()
	req, err := http.NewRequest(method, h.srv.URL+path, body)
	require.NoError(h.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.srv.Client().Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (h *harness) json(method, path, token string, v any) (*http.Response, envelope) {
	var body io.Reader
	if v != nil {
		raw, err := json.Marshal(v)
		require.NoError(h.t, err)
		body = bytes.NewReader(raw)
	}
	return h.do(method, path, token, body, "application/json")
}

func (h *harness) login(email string) string {
	resp, env := h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": seed.DemoPassword})
	require.Equal(h.t, http.StatusOK, resp.StatusCode, env.Error)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(h.t, out.Token)
	return out.Token
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	resp, env := h.do(http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestLoginSetsCookie(t *testing.T) {
	h := newHarness(t)
	resp, env := h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "citizen@demo.com", "password": seed.DemoPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.NotEmpty(t, resp.Cookies())

	resp, env = h.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "citizen@demo.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", env.Kind)
	assert.Empty(t, resp.Cookies())
}

func TestListFiltersAndHeaders(t *testing.T) {
	h := newHarness(t)
	resp, env := h.do(http.MethodGet, "/api/grievances?status=resolved&department=Water%20Department", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Total-Count"))

	var page struct {
		Items []struct {
			ID           string `json:"id"`
			CitizenEmail string `json:"citizenEmail"`
		} `json:"items"`
		TotalPages int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "grievance-2", page.Items[0].ID)
	assert.Empty(t, page.Items[0].CitizenEmail)

	resp, env = h.do(http.MethodGet, "/api/grievances?status=bogus", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", env.Kind)
}

func TestGrievanceFlow(t *testing.T) {
	h := newHarness(t)
	citizen := h.login("citizen@demo.com")
	dept := h.login("dept@demo.com")

	resp, _ := h.json(http.MethodPost, "/api/grievances", "", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := h.json(http.MethodPost, "/api/grievances", citizen, map[string]any{
		"title":       "Pothole on Birch Lane",
		"description": "Deep enough to damage tyres",
		"category":    "Road & Infrastructure",
		"department":  "Public Works",
		"status":      "resolved",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var g struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Version int    `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &g))
	assert.Equal(t, "pending", g.Status)

	resp, _ = h.json(http.MethodPut, "/api/grievances/"+g.ID+"/status", citizen, map[string]any{"status": "in_progress"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = h.json(http.MethodPut, "/api/grievances/"+g.ID+"/status", dept, map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", env.Kind)

	resp, env = h.json(http.MethodPut, "/api/grievances/"+g.ID+"/status", dept, map[string]any{"status": "in_progress", "version": g.Version})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	resp, env = h.json(http.MethodPost, "/api/grievances/"+g.ID+"/comments", citizen, map[string]any{"message": "Thanks!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	resp, _ = h.json(http.MethodGet, "/api/grievances/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.do(http.MethodPost, "/api/grievances", citizen, strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsAndUsers(t *testing.T) {
	h := newHarness(t)
	citizen := h.login("citizen@demo.com")
	admin := h.login("admin@demo.com")

	resp, _ := h.do(http.MethodGet, "/api/analytics?timeframe=7d", citizen, nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, env := h.do(http.MethodGet, "/api/analytics?timeframe=7d", admin, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	resp, _ = h.do(http.MethodGet, "/api/users/admin-1", citizen, nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = h.do(http.MethodGet, "/api/users/user-1", citizen, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(http.MethodPatch, "/api/users/user-1/role", citizen, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, env = h.json(http.MethodPatch, "/api/users/user-1/role", admin, map[string]string{"role": "department", "department": "Transportation"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
}

func multipartFile(t *testing.T, name string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAndServe(t *testing.T) {
	h := newHarness(t)
	citizen := h.login("citizen@demo.com")

	body, ct := multipartFile(t, "note.txt", []byte("water leaking since Monday"))
	resp, _ := h.do(http.MethodPost, "/api/upload", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, ct = multipartFile(t, "note.txt", []byte("water leaking since Monday"))
	resp, env := h.do(http.MethodPost, "/api/upload", citizen, body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var f struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &f))
	require.True(t, strings.HasPrefix(f.URL, "/uploads/"), f.URL)

	get, err := h.srv.Client().Get(h.srv.URL + f.URL)
	require.NoError(t, err)
	defer get.Body.Close()
	raw, _ := io.ReadAll(get.Body)
	assert.Equal(t, http.StatusOK, get.StatusCode)
	assert.Equal(t, "water leaking since Monday", string(raw))
	assert.Equal(t, "nosniff", get.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, get.Header.Get("Content-Security-Policy"), "sandbox")

	body, ct = multipartFile(t, "x.html", []byte("<!DOCTYPE html><script>alert(1)</script>"))
	resp, env = h.do(http.MethodPost, "/api/upload", citizen, body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", env.Kind)

	body, ct = multipartFile(t, "big.txt", bytes.Repeat([]byte("a"), 2<<10))
	resp, env = h.do(http.MethodPost, "/api/upload", citizen, body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", env.Kind)

	resp, _ = h.do(http.MethodGet, "/uploads/", "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
