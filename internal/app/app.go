// Package app assembles repositories and services from configuration.
package app

import (
	"context"
	"fmt"

	"grievance-portal/internal/config"
	"grievance-portal/internal/database"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/repository/memory"
	"grievance-portal/internal/repository/postgres"
	"grievance-portal/internal/service"
	"grievance-portal/internal/upload"

	"github.com/rs/zerolog"
)

// Services bundles everything the HTTP API and the in-process data service call.
type Services struct {
	Auth       *service.AuthService
	Grievances *service.GrievanceService
	Analytics  *service.AnalyticsService
	Uploads    *service.UploadService
	Files      *upload.DiskStore
}

type Repositories struct {
	Grievances  repository.GrievanceRepository
	Users       repository.UserRepository
	Departments repository.DepartmentRepository
}

// Build picks Postgres when DB_DSN is set and the seeded in-memory store otherwise.
// The returned func releases backend resources.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Services, func(), error) {
	repos, closeFn, err := OpenRepositories(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	files, err := upload.NewDiskStore(cfg.UploadDir, cfg.PublicURL, cfg.UploadMaxBytes)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return NewServices(repos, files, cfg, log), closeFn, nil
}

func OpenRepositories(ctx context.Context, cfg config.Config, log zerolog.Logger) (Repositories, func(), error) {
	if cfg.DBURL == "" {
		store, err := memory.NewSeeded(memory.WithLatency(cfg.MockLatency))
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("seed memory store: %w", err)
		}
		log.Info().Dur("latency", cfg.MockLatency).Msg("using in-memory backend")
		return Repositories{
			Grievances:  store.Grievances(),
			Users:       store.Users(),
			Departments: store.Departments(),
		}, func() {}, nil
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		return Repositories{}, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return Repositories{}, nil, fmt.Errorf("migrate: %w", err)
	}
	if err := postgres.Seed(ctx, pool); err != nil {
		pool.Close()
		return Repositories{}, nil, fmt.Errorf("seed: %w", err)
	}
	log.Info().Msg("using postgres backend")
	return Repositories{
		Grievances:  postgres.NewGrievanceRepo(pool),
		Users:       postgres.NewUserRepo(pool),
		Departments: postgres.NewDepartmentRepo(pool),
	}, pool.Close, nil
}

func NewServices(r Repositories, files *upload.DiskStore, cfg config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:       service.NewAuthService(r.Users, r.Departments, cfg.SessionSecret, cfg.TokenTTL, log),
		Grievances: service.NewGrievanceService(r.Grievances, r.Users, r.Departments, log),
		Analytics:  service.NewAnalyticsService(r.Grievances, r.Users, r.Departments, nil),
		Uploads:    service.NewUploadService(files, log),
		Files:      files,
	}
}
