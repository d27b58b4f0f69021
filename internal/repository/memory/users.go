package memory

import (
	"context"
	"fmt"

	"grievance-portal/internal/models"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	if err := r.s.wait(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := models.NormalizeEmail(u.Email)
	for _, rec := range r.s.users {
		if models.NormalizeEmail(rec.user.Email) == email {
			return fmt.Errorf("user with email %s: %w", email, models.ErrConflict)
		}
		if rec.user.ID == u.ID {
			return fmt.Errorf("user %s: %w", u.ID, models.ErrConflict)
		}
	}
	r.s.users = append(r.s.users, userRecord{user: *u, hash: passwordHash})
	return nil
}

// GetByEmail returns (nil, "", nil) when no user has that email.
func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, "", err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = models.NormalizeEmail(email)
	for _, rec := range r.s.users {
		if models.NormalizeEmail(rec.user.Email) == email {
			u := rec.user
			return &u, rec.hash, nil
		}
	}
	return nil, "", nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rec := range r.s.users {
		if rec.user.ID == id {
			u := rec.user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}

func (r userRepo) UpdateRole(ctx context.Context, id, role, department string) (*models.User, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].user.ID == id {
			r.s.users[i].user.Role = role
			r.s.users[i].user.Department = department
			u := r.s.users[i].user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}

type departmentRepo struct{ s *Store }

func (r departmentRepo) List(ctx context.Context) ([]models.Department, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]models.Department(nil), r.s.departments...), nil
}

func (r departmentRepo) GetByName(ctx context.Context, name string) (*models.Department, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.departments {
		if d.Name == name {
			out := d
			return &out, nil
		}
	}
	return nil, fmt.Errorf("department %q: %w", name, models.ErrNotFound)
}
