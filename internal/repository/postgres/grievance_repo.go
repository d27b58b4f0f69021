package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type GrievanceRepo struct{ db *pgxpool.Pool }

func NewGrievanceRepo(db *pgxpool.Pool) *GrievanceRepo { return &GrievanceRepo{db: db} }

const grievanceColumns = `
	g.id, g.title, g.description, g.category, g.department, g.priority, g.status,
	g.citizen_id, g.citizen_name, g.citizen_email, g.citizen_phone, g.attachments,
	g.address, g.latitude, g.longitude, COALESCE(g.assigned_to, ''),
	g.created_at, g.updated_at, g.resolved_at, g.version`

// -----------------------------------------------------------------------------
// Listing with filters + pagination
// -----------------------------------------------------------------------------

// List returns one page of grievances, newest first, plus the filtered total.
// Comments are not loaded for list rows.
func (r *GrievanceRepo) List(ctx context.Context, f repository.GrievanceFilter) (models.Page[models.Grievance], error) {
	f = f.Normalize()
	whereSQL, args := buildGrievanceWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM grievances g `+whereSQL, args...).Scan(&total); err != nil {
		return models.Page[models.Grievance]{}, err
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM grievances g
		%s
		ORDER BY g.created_at DESC, g.id
		LIMIT $%d OFFSET $%d
	`, grievanceColumns, whereSQL, len(args)+1, len(args)+2)
	args = append(args, f.PageSize, f.Offset())

	items, err := r.query(ctx, r.db, sql, args...)
	if err != nil {
		return models.Page[models.Grievance]{}, err
	}
	return models.Page[models.Grievance]{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		TotalPages: repository.TotalPages(total, f.PageSize),
	}, nil
}

func (r *GrievanceRepo) All(ctx context.Context) ([]models.Grievance, error) {
	return r.query(ctx, r.db, `SELECT `+grievanceColumns+` FROM grievances g ORDER BY g.created_at DESC`)
}

// -----------------------------------------------------------------------------
// Single grievance + create/update + comments
// -----------------------------------------------------------------------------

func (r *GrievanceRepo) Get(ctx context.Context, id string) (*models.Grievance, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *GrievanceRepo) get(ctx context.Context, q querier, id string, forUpdate bool) (*models.Grievance, error) {
	sql := `SELECT ` + grievanceColumns + ` FROM grievances g WHERE g.id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	g, err := scanGrievance(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("grievance %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, grievance_id, user_id, user_name, user_role, message, is_internal, created_at
		FROM comments
		WHERE grievance_id = $1
		ORDER BY created_at ASC, id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	g.Comments = []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.GrievanceID, &c.UserID, &c.UserName, &c.UserRole, &c.Message, &c.IsInternal, &c.CreatedAt); err != nil {
			return nil, err
		}
		g.Comments = append(g.Comments, c)
	}
	return &g, rows.Err()
}

func (r *GrievanceRepo) Create(ctx context.Context, g *models.Grievance) error {
	if g.Version == 0 {
		g.Version = 1
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		addr, lat, lng := locationArgs(g.Location)
		_, err := tx.Exec(ctx, `
			INSERT INTO grievances (
				id, title, description, category, department, priority, status,
				citizen_id, citizen_name, citizen_email, citizen_phone, attachments,
				address, latitude, longitude, assigned_to, created_at, updated_at, resolved_at, version)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		`,
			g.ID, g.Title, g.Description, g.Category, g.Department, g.Priority, string(g.Status),
			g.CitizenID, g.CitizenName, g.CitizenEmail, g.CitizenPhone, attachmentsArg(g.Attachments),
			addr, lat, lng, nullIfEmpty(g.AssignedTo), g.CreatedAt, g.UpdatedAt, g.ResolvedAt, g.Version,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("grievance %s: %w", g.ID, models.ErrConflict)
			}
			return err
		}
		for i := range g.Comments {
			if err := insertComment(ctx, tx, &g.Comments[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update locks the row, checks the expected version, applies fn and writes the
// result back. Comments appended by fn are inserted.
func (r *GrievanceRepo) Update(ctx context.Context, id string, expectedVersion int, fn func(g *models.Grievance) error) (*models.Grievance, error) {
	var out *models.Grievance
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		g, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if expectedVersion > 0 && g.Version != expectedVersion {
			return fmt.Errorf("grievance %s at version %d: %w", id, g.Version, models.ErrVersionConflict)
		}
		before := len(g.Comments)
		if err := fn(g); err != nil {
			return err
		}
		addr, lat, lng := locationArgs(g.Location)
		ct, err := tx.Exec(ctx, `
			UPDATE grievances SET
				title=$1, description=$2, category=$3, department=$4, priority=$5, status=$6,
				attachments=$7, address=$8, latitude=$9, longitude=$10, assigned_to=$11,
				updated_at=$12, resolved_at=$13, version=version+1
			WHERE id=$14 AND version=$15
		`,
			g.Title, g.Description, g.Category, g.Department, g.Priority, string(g.Status),
			attachmentsArg(g.Attachments), addr, lat, lng, nullIfEmpty(g.AssignedTo),
			g.UpdatedAt, g.ResolvedAt, g.ID, g.Version,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("grievance %s: %w", id, models.ErrVersionConflict)
		}
		g.Version++
		for i := before; i < len(g.Comments); i++ {
			if err := insertComment(ctx, tx, &g.Comments[i]); err != nil {
				return err
			}
		}
		out = g
		return nil
	})
	return out, err
}

func (r *GrievanceRepo) AddComment(ctx context.Context, c *models.Comment) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `UPDATE grievances SET updated_at=$1, version=version+1 WHERE id=$2`, c.CreatedAt, c.GrievanceID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("grievance %s: %w", c.GrievanceID, models.ErrNotFound)
		}
		return insertComment(ctx, tx, c)
	})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (r *GrievanceRepo) query(ctx context.Context, q querier, sql string, args ...any) ([]models.Grievance, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Grievance{}
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		g.Comments = []models.Comment{}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGrievance(row pgx.Row) (models.Grievance, error) {
	var (
		g        models.Grievance
		status   string
		addr     *string
		lat, lng *float64
	)
	err := row.Scan(
		&g.ID, &g.Title, &g.Description, &g.Category, &g.Department, &g.Priority, &status,
		&g.CitizenID, &g.CitizenName, &g.CitizenEmail, &g.CitizenPhone, &g.Attachments,
		&addr, &lat, &lng, &g.AssignedTo,
		&g.CreatedAt, &g.UpdatedAt, &g.ResolvedAt, &g.Version,
	)
	if err != nil {
		return g, err
	}
	g.Status = models.Status(status)
	if addr != nil {
		g.Location = &models.Location{Address: *addr, Latitude: lat, Longitude: lng}
	}
	return g, nil
}

func insertComment(ctx context.Context, q querier, c *models.Comment) error {
	_, err := q.Exec(ctx, `
		INSERT INTO comments (id, grievance_id, user_id, user_name, user_role, message, is_internal, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, c.ID, c.GrievanceID, c.UserID, c.UserName, c.UserRole, c.Message, c.IsInternal, c.CreatedAt)
	return err
}

// buildGrievanceWhere composes the WHERE clause and args in filter order:
// owner, status, category, department.
func buildGrievanceWhere(f repository.GrievanceFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	add := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		clauses = append(clauses, "g."+col+" = $"+strconv.Itoa(len(args)))
	}
	add("citizen_id", f.OwnerID)
	add("status", f.Status)
	add("category", f.Category)
	add("department", f.Department)

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func locationArgs(l *models.Location) (any, any, any) {
	if l == nil {
		return nil, nil, nil
	}
	return l.Address, l.Latitude, l.Longitude
}

func attachmentsArg(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
