package memory

import (
	"context"
	"fmt"
	"sort"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
)

type grievanceRepo struct{ s *Store }

// List filters conjunctively (owner, status, category, department), sorts by
// createdAt descending and slices out the requested page.
func (r grievanceRepo) List(ctx context.Context, f repository.GrievanceFilter) (models.Page[models.Grievance], error) {
	if err := r.s.wait(ctx); err != nil {
		return models.Page[models.Grievance]{}, err
	}
	f = f.Normalize()

	r.s.mu.RLock()
	matched := make([]models.Grievance, 0, len(r.s.grievances))
	for _, g := range r.s.grievances {
		if f.Matches(g) {
			matched = append(matched, g.Clone())
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := f.Offset()
	end := start + f.PageSize
	if start < 0 || start > total {
		start = total
	}
	if end < start || end > total {
		end = total
	}
	return models.Page[models.Grievance]{
		Items:      matched[start:end],
		Total:      total,
		Page:       f.Page,
		TotalPages: repository.TotalPages(total, f.PageSize),
	}, nil
}

func (r grievanceRepo) All(ctx context.Context) ([]models.Grievance, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Grievance, 0, len(r.s.grievances))
	for _, g := range r.s.grievances {
		out = append(out, g.Clone())
	}
	return out, nil
}

func (r grievanceRepo) Get(ctx context.Context, id string) (*models.Grievance, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("grievance %s: %w", id, models.ErrNotFound)
	}
	g := r.s.grievances[i].Clone()
	return &g, nil
}

// Create inserts at the head of the collection.
func (r grievanceRepo) Create(ctx context.Context, g *models.Grievance) error {
	if err := r.s.wait(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.index(g.ID) >= 0 {
		return fmt.Errorf("grievance %s: %w", g.ID, models.ErrConflict)
	}
	if g.Version == 0 {
		g.Version = 1
	}
	r.s.grievances = append([]models.Grievance{g.Clone()}, r.s.grievances...)
	return nil
}

func (r grievanceRepo) Update(ctx context.Context, id string, expectedVersion int, fn func(g *models.Grievance) error) (*models.Grievance, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("grievance %s: %w", id, models.ErrNotFound)
	}
	if expectedVersion > 0 && r.s.grievances[i].Version != expectedVersion {
		return nil, fmt.Errorf("grievance %s at version %d: %w", id, r.s.grievances[i].Version, models.ErrVersionConflict)
	}
	g := r.s.grievances[i].Clone()
	if err := fn(&g); err != nil {
		return nil, err
	}
	g.Version = r.s.grievances[i].Version + 1
	r.s.grievances[i] = g
	out := g.Clone()
	return &out, nil
}

func (r grievanceRepo) AddComment(ctx context.Context, c *models.Comment) error {
	if err := r.s.wait(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(c.GrievanceID)
	if i < 0 {
		return fmt.Errorf("grievance %s: %w", c.GrievanceID, models.ErrNotFound)
	}
	g := &r.s.grievances[i]
	g.Comments = append(g.Comments, *c)
	g.UpdatedAt = c.CreatedAt
	g.Version++
	return nil
}

// index must be called with the lock held.
func (r grievanceRepo) index(id string) int {
	for i := range r.s.grievances {
		if r.s.grievances[i].ID == id {
			return i
		}
	}
	return -1
}
