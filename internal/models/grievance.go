package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Categories offered by the submission form. Free text is accepted too.
var Categories = []string{
	"Water Supply",
	"Electricity",
	"Road & Infrastructure",
	"Sanitation",
	"Public Transport",
	"Healthcare",
	"Education",
	"Police & Security",
	"Environment",
	"Tax & Revenue",
	"Other",
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Grievance is a citizen complaint. The Citizen* fields are a snapshot of the
// submitting user taken at creation time and are never rewritten.
type Grievance struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Department   string     `json:"department"`
	Priority     string     `json:"priority"`
	Status       Status     `json:"status"`
	CitizenID    string     `json:"citizenId"`
	CitizenName  string     `json:"citizenName"`
	CitizenEmail string     `json:"citizenEmail,omitempty"`
	CitizenPhone string     `json:"citizenPhone,omitempty"`
	Attachments  []string   `json:"attachments,omitempty"`
	Location     *Location  `json:"location,omitempty"`
	AssignedTo   string     `json:"assignedTo,omitempty"`
	Comments     []Comment  `json:"comments"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
	Version      int        `json:"version"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (g Grievance) Clone() Grievance {
	out := g
	if g.Attachments != nil {
		out.Attachments = append([]string(nil), g.Attachments...)
	}
	out.Comments = append([]Comment{}, g.Comments...)
	if g.Location != nil {
		loc := *g.Location
		if loc.Latitude != nil {
			v := *loc.Latitude
			loc.Latitude = &v
		}
		if loc.Longitude != nil {
			v := *loc.Longitude
			loc.Longitude = &v
		}
		out.Location = &loc
	}
	if g.ResolvedAt != nil {
		t := *g.ResolvedAt
		out.ResolvedAt = &t
	}
	return out
}

type Comment struct {
	ID          string    `json:"id"`
	GrievanceID string    `json:"grievanceId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserRole    string    `json:"userRole"`
	Message     string    `json:"message"`
	IsInternal  bool      `json:"isInternal"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

type UploadedFile struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type DepartmentStat struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
	Resolved   int    `json:"resolved"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

type TrendPoint struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

type Analytics struct {
	Timeframe             string           `json:"timeframe"`
	TotalGrievances       int              `json:"totalGrievances"`
	ResolvedGrievances    int              `json:"resolvedGrievances"`
	PendingGrievances     int              `json:"pendingGrievances"`
	AverageResolutionTime float64          `json:"averageResolutionTime"` // days
	DepartmentStats       []DepartmentStat `json:"departmentStats"`
	StatusDistribution    []StatusCount    `json:"statusDistribution"`
	MonthlyTrends         []TrendPoint     `json:"monthlyTrends"`
}
