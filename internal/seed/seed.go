// Package seed holds the demo dataset loaded into a fresh backend.
package seed

import (
	"sync"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/utils"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "password123"

var (
	hashOnce sync.Once
	hash     string
	hashErr  error
)

// DemoPasswordHash returns the bcrypt hash of DemoPassword, computed once per process.
func DemoPasswordHash() (string, error) {
	hashOnce.Do(func() {
		hash, hashErr = utils.HashPassword(DemoPassword)
	})
	return hash, hashErr
}

func Users() []models.User {
	return []models.User{
		{ID: "user-1", Name: "John Citizen", Email: "citizen@demo.com", Phone: "+1-234-567-8900", Role: models.RoleCitizen},
		{ID: "admin-1", Name: "Admin User", Email: "admin@demo.com", Phone: "+1-234-567-8901", Role: models.RoleAdmin},
		{ID: "dept-1", Name: "Department Officer", Email: "dept@demo.com", Phone: "+1-234-567-8902", Role: models.RoleDepartment, Department: "Public Works"},
	}
}

func Departments() []models.Department {
	return []models.Department{
		{ID: "dept-public-works", Name: "Public Works", Description: "Roads, infrastructure, and maintenance", Email: "publicworks@city.gov", Phone: "+1-234-567-9001", Head: "Sarah Johnson"},
		{ID: "dept-water", Name: "Water Department", Description: "Water supply, drainage, and sewage", Email: "water@city.gov", Phone: "+1-234-567-9002", Head: "Mike Wilson"},
		{ID: "dept-health", Name: "Health Department", Description: "Public health and sanitation", Email: "health@city.gov", Phone: "+1-234-567-9003", Head: "Dr. Lisa Chen"},
		{ID: "dept-transport", Name: "Transportation", Description: "Public transport and traffic management", Email: "transport@city.gov", Phone: "+1-234-567-9004", Head: "Robert Martinez"},
	}
}

// Grievances returns the three demo grievances, newest first, with times relative to now.
func Grievances(now time.Time) []models.Grievance {
	day := 24 * time.Hour
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	lat, lng := 40.7128, -74.0060
	resolved := ago(time.Hour)

	return []models.Grievance{
		{
			ID:           "grievance-3",
			Title:        "Garbage collection missed for two weeks",
			Description:  "The garbage collection service has not visited our street (Pine Street) for the past two weeks. The accumulated waste is causing hygiene issues and attracting pests.",
			Category:     "Sanitation",
			Department:   "Health Department",
			Priority:     models.PriorityUrgent,
			Status:       models.StatusPending,
			CitizenID:    "user-1",
			CitizenName:  "John Citizen",
			CitizenEmail: "citizen@demo.com",
			CitizenPhone: "+1-234-567-8900",
			Location:     &models.Location{Address: "Pine Street, Block 5"},
			Comments:     []models.Comment{},
			CreatedAt:    ago(day),
			UpdatedAt:    ago(day),
			Version:      1,
		},
		{
			ID:           "grievance-1",
			Title:        "Broken street light on Main Street",
			Description:  "The street light at the corner of Main Street and Oak Avenue has been broken for over a week. This is creating safety concerns for pedestrians and drivers, especially during night hours.",
			Category:     "Road & Infrastructure",
			Department:   "Public Works",
			Priority:     models.PriorityMedium,
			Status:       models.StatusInProgress,
			CitizenID:    "user-1",
			CitizenName:  "John Citizen",
			CitizenEmail: "citizen@demo.com",
			CitizenPhone: "+1-234-567-8900",
			Location:     &models.Location{Address: "Corner of Main Street and Oak Avenue", Latitude: &lat, Longitude: &lng},
			AssignedTo:   "dept-1",
			Comments: []models.Comment{
				{
					ID: "comment-1", GrievanceID: "grievance-1", UserID: "admin-1", UserName: "Admin User", UserRole: models.RoleAdmin,
					Message:   "Thank you for reporting this issue. We have assigned this to the Public Works department for immediate attention.",
					CreatedAt: ago(2 * day),
				},
				{
					ID: "comment-2", GrievanceID: "grievance-1", UserID: "dept-1", UserName: "Department Officer", UserRole: models.RoleDepartment,
					Message:   "Our maintenance team has inspected the light and ordered replacement parts. Expected repair completion by end of week.",
					CreatedAt: ago(day),
				},
			},
			CreatedAt: ago(5 * day),
			UpdatedAt: ago(day),
			Version:   1,
		},
		{
			ID:           "grievance-2",
			Title:        "Water supply interruption in residential area",
			Description:  "Residents in the Maple Gardens area have been experiencing frequent water supply interruptions for the past three days. The water pressure is very low even when supply is available.",
			Category:     "Water Supply",
			Department:   "Water Department",
			Priority:     models.PriorityHigh,
			Status:       models.StatusResolved,
			CitizenID:    "user-1",
			CitizenName:  "John Citizen",
			CitizenEmail: "citizen@demo.com",
			CitizenPhone: "+1-234-567-8900",
			Location:     &models.Location{Address: "Maple Gardens Residential Area"},
			Comments: []models.Comment{
				{
					ID: "comment-3", GrievanceID: "grievance-2", UserID: "dept-1", UserName: "Water Department", UserRole: models.RoleDepartment,
					Message:   "Issue has been identified and resolved. A faulty valve in the main distribution line was replaced. Water supply should be normal now.",
					CreatedAt: resolved,
				},
			},
			CreatedAt:  ago(7 * day),
			UpdatedAt:  resolved,
			ResolvedAt: &resolved,
			Version:    1,
		},
	}
}
