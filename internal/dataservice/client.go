// Package dataservice is the single entry point clients use for portal data.
// Every call yields a Result; failures are reported in it rather than as Go errors.
package dataservice

import (
	"context"
	"fmt"
	"io"

	"grievance-portal/internal/app"
	"grievance-portal/internal/config"
	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/service"

	"github.com/rs/zerolog"
)

// Result mirrors the HTTP envelope.
type Result[T any] struct {
	Success bool        `json:"success"`
	Data    T           `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Kind    models.Kind `json:"kind,omitempty"`
}

type Client interface {
	// SetToken replaces the credential sent with later calls. An empty token signs out locally.
	SetToken(token string)
	Token() string

	Login(ctx context.Context, email, password string) Result[models.LoginResult]
	Register(ctx context.Context, in service.RegisterInput) Result[models.User]
	Logout(ctx context.Context) Result[struct{}]
	Me(ctx context.Context) Result[models.User]
	UpdateUserRole(ctx context.Context, userID, role, department string) Result[models.User]

	ListGrievances(ctx context.Context, f repository.GrievanceFilter) Result[models.Page[models.Grievance]]
	GetGrievance(ctx context.Context, id string) Result[models.Grievance]
	CreateGrievance(ctx context.Context, in service.CreateGrievanceInput) Result[models.Grievance]
	UpdateGrievanceStatus(ctx context.Context, id string, status models.Status, comment string, version int) Result[models.Grievance]
	AssignGrievance(ctx context.Context, id, assigneeID string, version int) Result[models.Grievance]
	AddComment(ctx context.Context, grievanceID, message string, isInternal bool) Result[models.Comment]
	ListDepartments(ctx context.Context) Result[[]models.Department]
	UploadFile(ctx context.Context, filename string, r io.Reader) Result[models.UploadedFile]
	GetAnalytics(ctx context.Context, timeframe string) Result[models.Analytics]
}

// New builds the client selected by cfg.DataMode. The returned func releases
// whatever the client opened.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (Client, func(), error) {
	switch cfg.DataMode {
	case config.ModeMock:
		svc, closeFn, err := app.Build(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewLocal(svc), closeFn, nil
	case config.ModeNetwork:
		return NewRemote(cfg.APIURL, nil), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown data mode %q", cfg.DataMode)
}

func ok[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: v}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Error: err.Error(), Kind: models.KindOf(err)}
}

// from converts a service call's (value, error) pair.
func from[T any](v *T, err error) Result[T] {
	if err != nil {
		return fail[T](err)
	}
	return ok(*v)
}
