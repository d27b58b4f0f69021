package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
	maxCommentLen     = 2000
	maxAttachments    = 10
)

// GrievanceService applies validation, authorization and the status lifecycle
// in front of the grievance repository.
type GrievanceService struct {
	grievances  repository.GrievanceRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	log         zerolog.Logger
	now         func() time.Time
}

type Option func(*GrievanceService)

func WithClock(now func() time.Time) Option { return func(s *GrievanceService) { s.now = now } }

func NewGrievanceService(g repository.GrievanceRepository, u repository.UserRepository, d repository.DepartmentRepository, log zerolog.Logger, opts ...Option) *GrievanceService {
	s := &GrievanceService{
		grievances:  g,
		users:       u,
		departments: d,
		log:         log.With().Str("component", "grievances").Logger(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CreateGrievanceInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Department  string           `json:"department"`
	Priority    string           `json:"priority"`
	Location    *models.Location `json:"location,omitempty"`
	Attachments []string         `json:"attachments,omitempty"`
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// List is public. Contact details and internal comments are hidden according to the caller.
func (s *GrievanceService) List(ctx context.Context, f repository.GrievanceFilter) (models.Page[models.Grievance], error) {
	if st := strings.TrimSpace(f.Status); st != "" && !strings.EqualFold(st, "all") && !models.Status(st).Valid() {
		return models.Page[models.Grievance]{}, models.Invalid("status", "unknown status "+st)
	}
	page, err := s.grievances.List(ctx, f)
	if err != nil {
		return page, err
	}
	actor, err := viewer(ctx, s.users)
	if err != nil {
		return models.Page[models.Grievance]{}, err
	}
	for i := range page.Items {
		redact(&page.Items[i], actor)
	}
	return page, nil
}

func (s *GrievanceService) Get(ctx context.Context, id string) (*models.Grievance, error) {
	g, err := s.grievances.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	actor, err := viewer(ctx, s.users)
	if err != nil {
		return nil, err
	}
	redact(g, actor)
	return g, nil
}

// -----------------------------------------------------------------------------
// Mutations
// -----------------------------------------------------------------------------

// Create files a new grievance for the caller. Status, comments and timestamps
// are always set here, never taken from input.
func (s *GrievanceService) Create(ctx context.Context, in CreateGrievanceInput) (*models.Grievance, error) {
	if _, ok := utils.ActorFrom(ctx); !ok {
		return nil, models.ErrUnauthorized
	}
	g, err := s.validateCreate(ctx, in)
	if err != nil {
		return nil, err
	}
	citizen, _, err := currentActor(ctx, s.users)
	if err != nil {
		return nil, err
	}

	now := s.now()
	g.ID = uuid.NewString()
	g.Status = models.StatusPending
	g.CitizenID = citizen.ID
	g.CitizenName = citizen.Name
	g.CitizenEmail = citizen.Email
	g.CitizenPhone = citizen.Phone
	g.Comments = []models.Comment{}
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.grievances.Create(ctx, g); err != nil {
		return nil, err
	}
	s.log.Info().Str("grievance_id", g.ID).Str("department", g.Department).Str("citizen_id", g.CitizenID).Msg("grievance created")
	return g, nil
}

// UpdateStatus moves a grievance along the lifecycle. A non-empty comment is
// recorded under the acting user. expectedVersion of 0 skips the concurrency check.
func (s *GrievanceService) UpdateStatus(ctx context.Context, id string, status models.Status, comment string, expectedVersion int) (*models.Grievance, error) {
	author, actor, err := s.staff(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, models.Invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	comment = sanitizeText(comment)
	if len(comment) > maxCommentLen {
		return nil, models.Invalid("comment", "is too long")
	}

	var from models.Status
	g, err := s.grievances.Update(ctx, strings.TrimSpace(id), expectedVersion, func(g *models.Grievance) error {
		if err := canManage(actor, g); err != nil {
			return err
		}
		if err := models.CheckTransition(g.Status, status); err != nil {
			return err
		}
		now := s.now()
		from = g.Status
		g.Status = status
		g.UpdatedAt = now
		if status == models.StatusResolved && g.ResolvedAt == nil {
			g.ResolvedAt = &now
		}
		if comment != "" {
			g.Comments = append(g.Comments, newComment(g.ID, author, comment, false, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("grievance_id", g.ID).Str("from", string(from)).Str("to", string(status)).Str("by", actor.UserID).Msg("status updated")
	return g, nil
}

// Assign hands an open grievance to a staff member.
func (s *GrievanceService) Assign(ctx context.Context, id, assigneeID string, expectedVersion int) (*models.Grievance, error) {
	_, actor, err := s.staff(ctx)
	if err != nil {
		return nil, err
	}
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, models.Invalid("assignedTo", "is required")
	}
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.Invalid("assignedTo", "unknown user "+assigneeID)
		}
		return nil, err
	}
	if !assignee.IsStaff() {
		return nil, models.Invalid("assignedTo", "assignee must be staff")
	}

	g, err := s.grievances.Update(ctx, strings.TrimSpace(id), expectedVersion, func(g *models.Grievance) error {
		if err := canManage(actor, g); err != nil {
			return err
		}
		if g.Status.Terminal() {
			return fmt.Errorf("grievance is %s: %w", g.Status, models.ErrInvalidTransition)
		}
		if assignee.Role == models.RoleDepartment && assignee.Department != g.Department {
			return models.Invalid("assignedTo", "assignee belongs to "+assignee.Department)
		}
		g.AssignedTo = assignee.ID
		g.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("grievance_id", g.ID).Str("assignee", assignee.ID).Str("by", actor.UserID).Msg("grievance assigned")
	return g, nil
}

// AddComment appends to a grievance's thread. Citizens may only comment on their
// own grievances and never internally.
func (s *GrievanceService) AddComment(ctx context.Context, grievanceID, message string, isInternal bool) (*models.Comment, error) {
	if _, ok := utils.ActorFrom(ctx); !ok {
		return nil, models.ErrUnauthorized
	}
	message = sanitizeText(message)
	if message == "" {
		return nil, models.Invalid("message", "is required")
	}
	if len(message) > maxCommentLen {
		return nil, models.Invalid("message", "is too long")
	}
	author, _, err := currentActor(ctx, s.users)
	if err != nil {
		return nil, err
	}
	g, err := s.grievances.Get(ctx, strings.TrimSpace(grievanceID))
	if err != nil {
		return nil, err
	}
	if !author.IsStaff() {
		if isInternal {
			return nil, fmt.Errorf("internal comments are staff only: %w", models.ErrForbidden)
		}
		if g.CitizenID != author.ID {
			return nil, fmt.Errorf("not your grievance: %w", models.ErrForbidden)
		}
	}

	c := newComment(g.ID, author, message, isInternal, s.now())
	if err := s.grievances.AddComment(ctx, &c); err != nil {
		return nil, err
	}
	s.log.Info().Str("grievance_id", g.ID).Str("comment_id", c.ID).Bool("internal", isInternal).Msg("comment added")
	return &c, nil
}

func (s *GrievanceService) Departments(ctx context.Context) ([]models.Department, error) {
	return s.departments.List(ctx)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *GrievanceService) validateCreate(ctx context.Context, in CreateGrievanceInput) (*models.Grievance, error) {
	g := &models.Grievance{
		Title:       sanitizeLine(in.Title),
		Description: sanitizeText(in.Description),
		Category:    sanitizeLine(in.Category),
		Department:  strings.TrimSpace(in.Department),
		Priority:    strings.ToLower(strings.TrimSpace(in.Priority)),
	}
	switch {
	case g.Title == "":
		return nil, models.Invalid("title", "is required")
	case len(g.Title) > maxTitleLen:
		return nil, models.Invalid("title", "is too long")
	case g.Description == "":
		return nil, models.Invalid("description", "is required")
	case len(g.Description) > maxDescriptionLen:
		return nil, models.Invalid("description", "is too long")
	case g.Category == "":
		return nil, models.Invalid("category", "is required")
	case g.Department == "":
		return nil, models.Invalid("department", "is required")
	}
	if g.Priority == "" {
		g.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(g.Priority) {
		return nil, models.Invalid("priority", "must be low, medium, high or urgent")
	}
	if _, err := s.departments.GetByName(ctx, g.Department); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.Invalid("department", "unknown department "+g.Department)
		}
		return nil, err
	}

	if in.Location != nil {
		loc := *in.Location
		loc.Address = sanitizeLine(loc.Address)
		if loc.Latitude != nil && (*loc.Latitude < -90 || *loc.Latitude > 90) {
			return nil, models.Invalid("location.latitude", "out of range")
		}
		if loc.Longitude != nil && (*loc.Longitude < -180 || *loc.Longitude > 180) {
			return nil, models.Invalid("location.longitude", "out of range")
		}
		if loc.Address != "" || loc.Latitude != nil || loc.Longitude != nil {
			g.Location = &loc
		}
	}

	if len(in.Attachments) > maxAttachments {
		return nil, models.Invalid("attachments", fmt.Sprintf("at most %d files", maxAttachments))
	}
	for _, a := range in.Attachments {
		if a = strings.TrimSpace(a); a != "" {
			g.Attachments = append(g.Attachments, a)
		}
	}
	return g, nil
}

// staff returns the caller's profile and current role, rejecting anonymous and citizen callers.
func (s *GrievanceService) staff(ctx context.Context) (*models.User, models.Actor, error) {
	u, actor, err := currentActor(ctx, s.users)
	if err != nil {
		return nil, actor, err
	}
	if !actor.IsStaff() {
		return nil, actor, fmt.Errorf("staff only: %w", models.ErrForbidden)
	}
	return u, actor, nil
}

// canManage restricts department staff to their own department.
func canManage(actor models.Actor, g *models.Grievance) error {
	if actor.Role == models.RoleDepartment && actor.Department != g.Department {
		return fmt.Errorf("grievance belongs to %s: %w", g.Department, models.ErrForbidden)
	}
	return nil
}

func newComment(grievanceID string, author *models.User, msg string, internal bool, at time.Time) models.Comment {
	return models.Comment{
		ID:          uuid.NewString(),
		GrievanceID: grievanceID,
		UserID:      author.ID,
		UserName:    author.Name,
		UserRole:    author.Role,
		Message:     msg,
		IsInternal:  internal,
		CreatedAt:   at,
	}
}

// redact hides internal comments from non-staff and contact details from
// everyone but staff and the submitting citizen.
func redact(g *models.Grievance, actor models.Actor) {
	if actor.IsStaff() {
		return
	}
	if actor.UserID != g.CitizenID {
		g.CitizenEmail = ""
		g.CitizenPhone = ""
	}
	visible := make([]models.Comment, 0, len(g.Comments))
	for _, c := range g.Comments {
		if !c.IsInternal {
			visible = append(visible, c)
		}
	}
	g.Comments = visible
}
