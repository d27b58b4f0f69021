package postgres

import (
	"context"
	"errors"
	"fmt"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) repository.UserRepository { return &UserRepo{db: db} }

// Create user (stores bcrypt hash in password_h)
func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, department, password_h)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, models.NormalizeEmail(u.Email), u.Phone, u.Role, u.Department, passwordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user with email %s: %w", u.Email, models.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, role, department, password_h
		FROM users WHERE email=$1`, models.NormalizeEmail(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Department, &ph)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, role, department
		FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id, role, department string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET role=$1, department=$2
		WHERE id=$3
		RETURNING id, name, email, phone, role, department
	`, role, department, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

type DepartmentRepo struct{ db *pgxpool.Pool }

func NewDepartmentRepo(db *pgxpool.Pool) repository.DepartmentRepository {
	return &DepartmentRepo{db: db}
}

func (r *DepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, email, phone, head FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Email, &d.Phone, &d.Head); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DepartmentRepo) GetByName(ctx context.Context, name string) (*models.Department, error) {
	var d models.Department
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, email, phone, head FROM departments WHERE name=$1`, name).
		Scan(&d.ID, &d.Name, &d.Description, &d.Email, &d.Phone, &d.Head)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("department %q: %w", name, models.ErrNotFound)
		}
		return nil, err
	}
	return &d, nil
}
