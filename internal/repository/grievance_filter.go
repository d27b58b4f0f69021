package repository

import (
	"math"
	"strings"

	"grievance-portal/internal/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps Offset inside int32 on every platform.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// GrievanceFilter is applied conjunctively. Empty or "all" values are skipped.
type GrievanceFilter struct {
	OwnerID    string
	Status     string
	Category   string
	Department string
	Page       int // 1-based
	PageSize   int
}

// Normalize trims fields, folds "all" to empty and clamps pagination.
func (f GrievanceFilter) Normalize() GrievanceFilter {
	f.OwnerID = strings.TrimSpace(f.OwnerID)
	f.Status = skipAll(f.Status)
	f.Category = skipAll(f.Category)
	f.Department = skipAll(f.Department)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Matches reports whether g passes every non-empty filter field.
func (f GrievanceFilter) Matches(g models.Grievance) bool {
	if f.OwnerID != "" && g.CitizenID != f.OwnerID {
		return false
	}
	if f.Status != "" && string(g.Status) != f.Status {
		return false
	}
	if f.Category != "" && g.Category != f.Category {
		return false
	}
	if f.Department != "" && g.Department != f.Department {
		return false
	}
	return true
}

// Offset is the index of the first item on the requested page.
func (f GrievanceFilter) Offset() int { return (f.Page - 1) * f.PageSize }

// TotalPages is ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func skipAll(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
