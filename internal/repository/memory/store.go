// Package memory is the in-memory backend used for demos, tests and the CLI's mock mode.
// A Store lives for the lifetime of the process and is discarded on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/seed"
)

type userRecord struct {
	user models.User
	hash string
}

// Store owns the three collections. One RWMutex guards all of them.
type Store struct {
	mu          sync.RWMutex
	users       []userRecord
	departments []models.Department
	grievances  []models.Grievance // newest first

	now     func() time.Time
	latency time.Duration
}

type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithLatency delays every operation by d to exercise client loading states.
func WithLatency(d time.Duration) Option { return func(s *Store) { s.latency = d } }

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSeeded returns a store loaded with the demo dataset.
func NewSeeded(opts ...Option) (*Store, error) {
	s := New(opts...)
	hash, err := seed.DemoPasswordHash()
	if err != nil {
		return nil, err
	}
	for _, u := range seed.Users() {
		s.users = append(s.users, userRecord{user: u, hash: hash})
	}
	s.departments = seed.Departments()
	s.grievances = seed.Grievances(s.now())
	return s, nil
}

func (s *Store) Grievances() repository.GrievanceRepository { return grievanceRepo{s} }

func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (s *Store) Departments() repository.DepartmentRepository { return departmentRepo{s} }

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
