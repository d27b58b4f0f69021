package models

import "strings"

const (
	RoleCitizen    = "citizen"
	RoleAdmin      = "admin"
	RoleDepartment = "department"
)

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"` // citizen | admin | department
	Department string `json:"department,omitempty"`
}

// IsStaff reports whether the user may triage grievances.
func (u User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleDepartment
}

func ValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleAdmin, RoleDepartment:
		return true
	}
	return false
}

// NormalizeEmail is the form emails are compared and stored in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Head        string `json:"head"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID     string
	Role       string
	Department string
}

func (a Actor) IsStaff() bool { return a.Role == RoleAdmin || a.Role == RoleDepartment }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
