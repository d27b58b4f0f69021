package dataservice

import (
	"context"
	"io"
	"sync"

	"grievance-portal/internal/app"
	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/service"
	"grievance-portal/internal/utils"
)

// Local serves calls from in-process services. The token is verified on every
// call exactly as the HTTP middleware would.
type Local struct {
	svc *app.Services

	mu    sync.RWMutex
	token string
}

func NewLocal(svc *app.Services) *Local {
	return &Local{svc: svc}
}

func (l *Local) SetToken(token string) {
	l.mu.Lock()
	l.token = token
	l.mu.Unlock()
}

func (l *Local) Token() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.token
}

// as attaches the caller identity. An invalid token makes the call anonymous.
func (l *Local) as(ctx context.Context) context.Context {
	tok := l.Token()
	if tok == "" {
		return ctx
	}
	actor, err := l.svc.Auth.Authenticate(tok)
	if err != nil {
		return ctx
	}
	return utils.WithActor(ctx, actor)
}

func (l *Local) Login(ctx context.Context, email, password string) Result[models.LoginResult] {
	token, u, err := l.svc.Auth.Login(ctx, email, password)
	if err != nil {
		return fail[models.LoginResult](err)
	}
	l.SetToken(token)
	return ok(models.LoginResult{User: *u, Token: token})
}

func (l *Local) Register(ctx context.Context, in service.RegisterInput) Result[models.User] {
	return from(l.svc.Auth.Register(ctx, in))
}

func (l *Local) Logout(context.Context) Result[struct{}] {
	l.SetToken("")
	return Result[struct{}]{Success: true, Message: "logged out"}
}

func (l *Local) Me(ctx context.Context) Result[models.User] {
	return from(l.svc.Auth.Me(l.as(ctx)))
}

func (l *Local) UpdateUserRole(ctx context.Context, userID, role, department string) Result[models.User] {
	return from(l.svc.Auth.UpdateUserRole(l.as(ctx), userID, role, department))
}

func (l *Local) ListGrievances(ctx context.Context, f repository.GrievanceFilter) Result[models.Page[models.Grievance]] {
	page, err := l.svc.Grievances.List(l.as(ctx), f)
	if err != nil {
		return fail[models.Page[models.Grievance]](err)
	}
	return ok(page)
}

func (l *Local) GetGrievance(ctx context.Context, id string) Result[models.Grievance] {
	return from(l.svc.Grievances.Get(l.as(ctx), id))
}

func (l *Local) CreateGrievance(ctx context.Context, in service.CreateGrievanceInput) Result[models.Grievance] {
	return from(l.svc.Grievances.Create(l.as(ctx), in))
}

func (l *Local) UpdateGrievanceStatus(ctx context.Context, id string, status models.Status, comment string, version int) Result[models.Grievance] {
	return from(l.svc.Grievances.UpdateStatus(l.as(ctx), id, status, comment, version))
}

func (l *Local) AssignGrievance(ctx context.Context, id, assigneeID string, version int) Result[models.Grievance] {
	return from(l.svc.Grievances.Assign(l.as(ctx), id, assigneeID, version))
}

func (l *Local) AddComment(ctx context.Context, grievanceID, message string, isInternal bool) Result[models.Comment] {
	return from(l.svc.Grievances.AddComment(l.as(ctx), grievanceID, message, isInternal))
}

func (l *Local) ListDepartments(ctx context.Context) Result[[]models.Department] {
	depts, err := l.svc.Grievances.Departments(ctx)
	if err != nil {
		return fail[[]models.Department](err)
	}
	return ok(depts)
}

func (l *Local) UploadFile(ctx context.Context, filename string, r io.Reader) Result[models.UploadedFile] {
	return from(l.svc.Uploads.Upload(l.as(ctx), filename, r))
}

func (l *Local) GetAnalytics(ctx context.Context, timeframe string) Result[models.Analytics] {
	return from(l.svc.Analytics.Analytics(l.as(ctx), timeframe))
}
