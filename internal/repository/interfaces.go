package repository

import (
	"context"

	"grievance-portal/internal/models"
)

// GrievanceRepository is implemented by the in-memory mock backend and by Postgres.
// Lookups of unknown ids return models.ErrNotFound.
type GrievanceRepository interface {
	List(ctx context.Context, f GrievanceFilter) (models.Page[models.Grievance], error)
	All(ctx context.Context) ([]models.Grievance, error)
	Get(ctx context.Context, id string) (*models.Grievance, error)
	Create(ctx context.Context, g *models.Grievance) error
	// Update applies fn to the stored grievance and persists the result.
	// When expectedVersion > 0 and differs from the stored version it fails with
	// models.ErrVersionConflict without calling fn.
	Update(ctx context.Context, id string, expectedVersion int, fn func(g *models.Grievance) error) (*models.Grievance, error)
	AddComment(ctx context.Context, c *models.Comment) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, id, role, department string) (*models.User, error)
}

type DepartmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
}
