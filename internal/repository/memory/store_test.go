package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newSeeded(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := NewSeeded(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, err)
	return s
}

func ids(gs []models.Grievance) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}

func TestListSeedNewestFirst(t *testing.T) {
	s := newSeeded(t)
	page, err := s.Grievances().List(context.Background(), repository.GrievanceFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"grievance-3", "grievance-1", "grievance-2"}, ids(page.Items))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListConjunctiveFilter(t *testing.T) {
	s := newSeeded(t)
	page, err := s.Grievances().List(context.Background(), repository.GrievanceFilter{
		Status:     "resolved",
		Department: "Water Department",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"grievance-2"}, ids(page.Items))
	assert.Equal(t, 1, page.Total)

	page, err = s.Grievances().List(context.Background(), repository.GrievanceFilter{
		Status:     "resolved",
		Department: "Public Works",
	})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListAllIsSkipped(t *testing.T) {
	s := newSeeded(t)
	page, err := s.Grievances().List(context.Background(), repository.GrievanceFilter{Status: "all", Category: "all", Department: "all"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}

func TestPagination(t *testing.T) {
	s := New(WithClock(func() time.Time { return fixedNow }))
	repo := s.Grievances()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, &models.Grievance{
			ID:        fmt.Sprintf("g-%02d", i),
			Status:    models.StatusPending,
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	var seen []string
	for p := 1; p <= 3; p++ {
		page, err := repo.List(ctx, repository.GrievanceFilter{Page: p, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		seen = append(seen, ids(page.Items)...)
	}
	require.Len(t, seen, 25)
	assert.Equal(t, "g-24", seen[0])
	assert.Equal(t, "g-00", seen[24])

	again, err := repo.List(ctx, repository.GrievanceFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, seen[10:20], ids(again.Items))

	past, err := repo.List(ctx, repository.GrievanceFilter{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 25, past.Total)
}

func TestListHugePageIsEmpty(t *testing.T) {
	repo := newSeeded(t).Grievances()
	page, err := repo.List(context.Background(), repository.GrievanceFilter{Page: 1e18})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, repository.MaxPage, page.Page)
}

func TestCreateDuplicateID(t *testing.T) {
	s := newSeeded(t)
	err := s.Grievances().Create(context.Background(), &models.Grievance{ID: "grievance-1"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUpdateVersioning(t *testing.T) {
	s := newSeeded(t)
	repo := s.Grievances()
	ctx := context.Background()

	g, err := repo.Update(ctx, "grievance-3", 1, func(g *models.Grievance) error {
		g.Status = models.StatusInProgress
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Version)

	_, err = repo.Update(ctx, "grievance-3", 1, func(g *models.Grievance) error { return nil })
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	_, err = repo.Update(ctx, "missing", 0, func(g *models.Grievance) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateFailureLeavesRecordUntouched(t *testing.T) {
	s := newSeeded(t)
	repo := s.Grievances()
	ctx := context.Background()

	_, err := repo.Update(ctx, "grievance-3", 0, func(g *models.Grievance) error {
		g.Title = "changed"
		return models.ErrForbidden
	})
	require.ErrorIs(t, err, models.ErrForbidden)

	g, err := repo.Get(ctx, "grievance-3")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", g.Title)
	assert.Equal(t, 1, g.Version)
}

func TestGetReturnsCopy(t *testing.T) {
	s := newSeeded(t)
	g, err := s.Grievances().Get(context.Background(), "grievance-1")
	require.NoError(t, err)
	g.Comments[0].Message = "tampered"

	again, err := s.Grievances().Get(context.Background(), "grievance-1")
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.Comments[0].Message)
}

func TestLatencyHonoursCancellation(t *testing.T) {
	s := newSeeded(t, WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Grievances().List(ctx, repository.GrievanceFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUsersEmailIsCaseInsensitive(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	u, hash, err := s.Users().GetByEmail(ctx, "Citizen@Demo.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "user-1", u.ID)
	assert.NotEmpty(t, hash)

	err = s.Users().Create(ctx, &models.User{ID: "user-x", Email: "CITIZEN@demo.com"}, "h")
	assert.ErrorIs(t, err, models.ErrConflict)

	missing, _, err := s.Users().GetByEmail(ctx, "nobody@demo.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateRole(t *testing.T) {
	s := newSeeded(t)
	u, err := s.Users().UpdateRole(context.Background(), "user-1", models.RoleDepartment, "Water Department")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDepartment, u.Role)
	assert.Equal(t, "Water Department", u.Department)

	_, err = s.Users().UpdateRole(context.Background(), "nobody", models.RoleAdmin, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDepartments(t *testing.T) {
	s := newSeeded(t)
	depts, err := s.Departments().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, depts, 4)

	d, err := s.Departments().GetByName(context.Background(), "Transportation")
	require.NoError(t, err)
	assert.Equal(t, "Robert Martinez", d.Head)

	_, err = s.Departments().GetByName(context.Background(), "Parks")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
