package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"grievance-portal/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded migration in name order. Statements are idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// Seed loads the demo dataset when the departments table is empty.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, d := range seed.Departments() {
		if _, err := db.Exec(ctx, `
			INSERT INTO departments (id, name, description, email, phone, head)
			VALUES ($1,$2,$3,$4,$5,$6)`, d.ID, d.Name, d.Description, d.Email, d.Phone, d.Head); err != nil {
			return err
		}
	}
	hash, err := seed.DemoPasswordHash()
	if err != nil {
		return err
	}
	users := NewUserRepo(db)
	for _, u := range seed.Users() {
		if err := users.Create(ctx, &u, hash); err != nil {
			return err
		}
	}
	grievances := NewGrievanceRepo(db)
	for _, g := range seed.Grievances(time.Now()) {
		if err := grievances.Create(ctx, &g); err != nil {
			return err
		}
	}
	return nil
}
