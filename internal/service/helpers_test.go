package service

import (
	"context"
	"testing"
	"time"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository/memory"
	"grievance-portal/internal/utils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	auth       *AuthService
	grievances *GrievanceService
	analytics  *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	store, err := memory.NewSeeded(memory.WithClock(clock))
	require.NoError(t, err)
	log := zerolog.Nop()
	return &fixture{
		store:      store,
		auth:       NewAuthService(store.Users(), store.Departments(), "test-secret", time.Hour, log),
		grievances: NewGrievanceService(store.Grievances(), store.Users(), store.Departments(), log, WithClock(clock)),
		analytics:  NewAnalyticsService(store.Grievances(), store.Users(), store.Departments(), clock),
	}
}

func asCitizen() context.Context {
	return utils.WithActor(context.Background(), models.Actor{UserID: "user-1", Role: models.RoleCitizen})
}

func asAdmin() context.Context {
	return utils.WithActor(context.Background(), models.Actor{UserID: "admin-1", Role: models.RoleAdmin})
}

func asPublicWorks() context.Context {
	return utils.WithActor(context.Background(), models.Actor{UserID: "dept-1", Role: models.RoleDepartment, Department: "Public Works"})
}

func streetLight() CreateGrievanceInput {
	return CreateGrievanceInput{
		Title:       "Street light out on Elm Road",
		Description: "The light outside number 12 has been dark for three nights.",
		Category:    "Road & Infrastructure",
		Department:  "Public Works",
		Priority:    "high",
		Location:    &models.Location{Address: "12 Elm Road"},
	}
}
