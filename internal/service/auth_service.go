package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AuthService struct {
	users         repository.UserRepository
	departments   repository.DepartmentRepository
	sessionSecret string
	tokenTTL      time.Duration
	log           zerolog.Logger
}

func NewAuthService(users repository.UserRepository, departments repository.DepartmentRepository, sessionSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:         users,
		departments:   departments,
		sessionSecret: sessionSecret,
		tokenTTL:      tokenTTL,
		log:           log.With().Str("component", "auth").Logger(),
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a citizen account. Self-registration never grants staff roles.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := sanitizeLine(in.Name)
	email := models.NormalizeEmail(in.Email)
	if name == "" {
		return nil, models.Invalid("name", "is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, models.Invalid("email", "is not a valid address")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordLength) {
			return nil, models.Invalid("password", err.Error())
		}
		return nil, err
	}

	u := &models.User{
		ID:    "user-" + uuid.NewString(),
		Name:  name,
		Email: email,
		Phone: sanitizeLine(in.Phone),
		Role:  models.RoleCitizen,
	}
	if err := a.users.Create(ctx, u, hash); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("user with this email already exists: %w", models.ErrConflict)
		}
		return nil, err
	}
	a.log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Login checks credentials and issues a signed session token.
func (a *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	u, hash, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return "", nil, models.ErrInvalidCredentials
	}
	tok, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role, u.Department, a.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	a.log.Debug().Str("user_id", u.ID).Msg("login")
	return tok, u, nil
}

// Authenticate resolves a session token into the caller's identity.
func (a *AuthService) Authenticate(token string) (models.Actor, error) {
	claims, err := utils.ParseJWT(a.sessionSecret, token)
	if err != nil {
		return models.Actor{}, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return models.Actor{UserID: claims.UserID, Role: claims.Role, Department: claims.Department}, nil
}

// Me loads the full profile of the caller.
func (a *AuthService) Me(ctx context.Context) (*models.User, error) {
	actor, ok := utils.ActorFrom(ctx)
	if !ok {
		return nil, models.ErrUnauthorized
	}
	return a.users.GetByID(ctx, actor.UserID)
}

// UpdateUserRole reassigns a user's role and department. Admin only.
func (a *AuthService) UpdateUserRole(ctx context.Context, id, role, department string) (*models.User, error) {
	_, actor, err := currentActor(ctx, a.users)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only administrators can change roles: %w", models.ErrForbidden)
	}
	role = strings.ToLower(strings.TrimSpace(role))
	department = strings.TrimSpace(department)
	if !models.ValidRole(role) {
		return nil, models.Invalid("role", "must be citizen, admin or department")
	}
	if role == models.RoleDepartment {
		if department == "" {
			return nil, models.Invalid("department", "is required for department staff")
		}
		if _, err := a.departments.GetByName(ctx, department); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.Invalid("department", "unknown department "+department)
			}
			return nil, err
		}
	} else {
		department = ""
	}
	u, err := a.users.UpdateRole(ctx, id, role, department)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("user_id", id).Str("role", role).Str("by", actor.UserID).Msg("role updated")
	return u, nil
}

// User returns a profile visible to the caller: their own, or anyone's for staff.
func (a *AuthService) User(ctx context.Context, id string) (*models.User, error) {
	_, actor, err := currentActor(ctx, a.users)
	if err != nil {
		return nil, err
	}
	if actor.UserID != id && !actor.IsStaff() {
		return nil, models.ErrForbidden
	}
	return a.users.GetByID(ctx, id)
}
