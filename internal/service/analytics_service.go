package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
)

const DefaultTimeframe = "30d"

var timeframes = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// ParseTimeframe accepts 7d, 30d, 90d or 1y. Empty means DefaultTimeframe.
func ParseTimeframe(tf string) (string, time.Duration, error) {
	tf = strings.ToLower(strings.TrimSpace(tf))
	if tf == "" {
		tf = DefaultTimeframe
	}
	d, ok := timeframes[tf]
	if !ok {
		return "", 0, models.Invalid("timeframe", "must be 7d, 30d, 90d or 1y")
	}
	return tf, d, nil
}

type AnalyticsService struct {
	grievances  repository.GrievanceRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	now         func() time.Time
}

func NewAnalyticsService(g repository.GrievanceRepository, u repository.UserRepository, d repository.DepartmentRepository, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{grievances: g, users: u, departments: d, now: now}
}

// Analytics aggregates grievances created inside the timeframe. Staff only.
func (s *AnalyticsService) Analytics(ctx context.Context, timeframe string) (*models.Analytics, error) {
	_, actor, err := currentActor(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		return nil, fmt.Errorf("analytics are staff only: %w", models.ErrForbidden)
	}
	tf, window, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	all, err := s.grievances.All(ctx)
	if err != nil {
		return nil, err
	}
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	since := now.Add(-window)
	in := make([]models.Grievance, 0, len(all))
	for _, g := range all {
		if !g.CreatedAt.Before(since) {
			in = append(in, g)
		}
	}
	return Aggregate(tf, in, depts, since, now), nil
}

// Aggregate computes the analytics payload over gs. Trend buckets are calendar
// months (UTC) from since to now, zero-filled, oldest first.
func Aggregate(timeframe string, gs []models.Grievance, depts []models.Department, since, now time.Time) *models.Analytics {
	out := &models.Analytics{Timeframe: timeframe, TotalGrievances: len(gs)}

	byStatus := map[models.Status]int{}
	var resolvedDays float64
	var resolvedN int
	for _, g := range gs {
		byStatus[g.Status]++
		if g.ResolvedAt != nil {
			resolvedDays += g.ResolvedAt.Sub(g.CreatedAt).Hours() / 24
			resolvedN++
		}
	}
	out.ResolvedGrievances = byStatus[models.StatusResolved]
	out.PendingGrievances = byStatus[models.StatusPending]
	if resolvedN > 0 {
		out.AverageResolutionTime = math.Round(resolvedDays/float64(resolvedN)*10) / 10
	}

	for _, st := range models.Statuses {
		out.StatusDistribution = append(out.StatusDistribution, models.StatusCount{Status: st, Count: byStatus[st]})
	}

	out.DepartmentStats = make([]models.DepartmentStat, 0, len(depts))
	for _, d := range depts {
		stat := models.DepartmentStat{Department: d.Name}
		for _, g := range gs {
			if g.Department != d.Name {
				continue
			}
			stat.Count++
			if g.Status == models.StatusResolved {
				stat.Resolved++
			}
		}
		out.DepartmentStats = append(out.DepartmentStats, stat)
	}

	counts := map[string]int{}
	for _, g := range gs {
		counts[g.CreatedAt.UTC().Format("2006-01")]++
	}
	since, now = since.UTC(), now.UTC()
	m := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !m.After(last) {
		key := m.Format("2006-01")
		out.MonthlyTrends = append(out.MonthlyTrends, models.TrendPoint{Month: key, Count: counts[key]})
		m = m.AddDate(0, 1, 0)
	}
	return out
}
