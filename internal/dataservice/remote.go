package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/service"
)

const maxResponseBytes = 8 << 20

// Remote talks to the portal HTTP API.
type Remote struct {
	base string
	hc   *http.Client

	mu    sync.RWMutex
	token string
}

// NewRemote targets baseURL (scheme and host, no /api suffix). A nil hc gets a 30s timeout client.
func NewRemote(baseURL string, hc *http.Client) *Remote {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{base: strings.TrimRight(baseURL, "/") + "/api", hc: hc}
}

func (r *Remote) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

func (r *Remote) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	err         error
}

func jsonRequest(method, path string, v any) request {
	raw, err := json.Marshal(v)
	if err != nil {
		return request{err: fmt.Errorf("encode %s body: %w", path, err)}
	}
	return request{method: method, path: path, body: bytes.NewReader(raw), contentType: "application/json"}
}

func transportFail[T any](format string, args ...any) Result[T] {
	return Result[T]{Error: fmt.Sprintf(format, args...), Kind: models.KindTransport}
}

func call[T any](ctx context.Context, r *Remote, req request) Result[T] {
	if req.err != nil {
		return transportFail[T]("%v", req.err)
	}
	u := r.base + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	hreq, err := http.NewRequestWithContext(ctx, req.method, u, req.body)
	if err != nil {
		return transportFail[T]("build request: %v", err)
	}
	hreq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		hreq.Header.Set("Content-Type", req.contentType)
	}
	if tok := r.Token(); tok != "" {
		hreq.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := r.hc.Do(hreq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return transportFail[T]("request cancelled")
		}
		return transportFail[T]("network error: %v", err)
	}
	defer resp.Body.Close()

	var out Result[T]
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return transportFail[T]("unexpected response (HTTP %d): %v", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 {
		out.Success = false
		if out.Error == "" {
			out.Error = http.StatusText(resp.StatusCode)
		}
		if out.Kind == "" {
			out.Kind = models.KindTransport
		}
	}
	return out
}

func (r *Remote) Login(ctx context.Context, email, password string) Result[models.LoginResult] {
	res := call[models.LoginResult](ctx, r, jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	}))
	if res.Success {
		r.SetToken(res.Data.Token)
	}
	return res
}

func (r *Remote) Register(ctx context.Context, in service.RegisterInput) Result[models.User] {
	return call[models.User](ctx, r, jsonRequest(http.MethodPost, "/auth/register", in))
}

// Logout forgets the token even when the server cannot be reached.
func (r *Remote) Logout(ctx context.Context) Result[struct{}] {
	res := call[struct{}](ctx, r, request{method: http.MethodPost, path: "/auth/logout"})
	r.SetToken("")
	return res
}

func (r *Remote) Me(ctx context.Context) Result[models.User] {
	return call[models.User](ctx, r, request{method: http.MethodGet, path: "/auth/me"})
}

func (r *Remote) UpdateUserRole(ctx context.Context, userID, role, department string) Result[models.User] {
	return call[models.User](ctx, r, jsonRequest(http.MethodPatch, "/users/"+url.PathEscape(userID)+"/role", map[string]string{
		"role": role, "department": department,
	}))
}

func (r *Remote) ListGrievances(ctx context.Context, f repository.GrievanceFilter) Result[models.Page[models.Grievance]] {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("ownerId", f.OwnerID)
	set("status", f.Status)
	set("category", f.Category)
	set("department", f.Department)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return call[models.Page[models.Grievance]](ctx, r, request{method: http.MethodGet, path: "/grievances", query: q})
}

func (r *Remote) GetGrievance(ctx context.Context, id string) Result[models.Grievance] {
	return call[models.Grievance](ctx, r, request{method: http.MethodGet, path: "/grievances/" + url.PathEscape(id)})
}

func (r *Remote) CreateGrievance(ctx context.Context, in service.CreateGrievanceInput) Result[models.Grievance] {
	return call[models.Grievance](ctx, r, jsonRequest(http.MethodPost, "/grievances", in))
}

func (r *Remote) UpdateGrievanceStatus(ctx context.Context, id string, status models.Status, comment string, version int) Result[models.Grievance] {
	return call[models.Grievance](ctx, r, jsonRequest(http.MethodPut, "/grievances/"+url.PathEscape(id)+"/status", map[string]any{
		"status": status, "comment": comment, "version": version,
	}))
}

func (r *Remote) AssignGrievance(ctx context.Context, id, assigneeID string, version int) Result[models.Grievance] {
	return call[models.Grievance](ctx, r, jsonRequest(http.MethodPut, "/grievances/"+url.PathEscape(id)+"/assign", map[string]any{
		"assignedTo": assigneeID, "version": version,
	}))
}

func (r *Remote) AddComment(ctx context.Context, grievanceID, message string, isInternal bool) Result[models.Comment] {
	return call[models.Comment](ctx, r, jsonRequest(http.MethodPost, "/grievances/"+url.PathEscape(grievanceID)+"/comments", map[string]any{
		"message": message, "isInternal": isInternal,
	}))
}

func (r *Remote) ListDepartments(ctx context.Context) Result[[]models.Department] {
	return call[[]models.Department](ctx, r, request{method: http.MethodGet, path: "/departments"})
}

func (r *Remote) UploadFile(ctx context.Context, filename string, src io.Reader) Result[models.UploadedFile] {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return transportFail[models.UploadedFile]("build upload: %v", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return transportFail[models.UploadedFile]("read %s: %v", filename, err)
	}
	if err := mw.Close(); err != nil {
		return transportFail[models.UploadedFile]("build upload: %v", err)
	}
	return call[models.UploadedFile](ctx, r, request{
		method:      http.MethodPost,
		path:        "/upload",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
}

func (r *Remote) GetAnalytics(ctx context.Context, timeframe string) Result[models.Analytics] {
	q := url.Values{}
	if timeframe != "" {
		q.Set("timeframe", timeframe)
	}
	return call[models.Analytics](ctx, r, request{method: http.MethodGet, path: "/analytics", query: q})
}
