package service

import (
	"context"
	"errors"
	"testing"

	"grievance-portal/internal/models"
	"grievance-portal/internal/seed"
	"grievance-portal/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSeededCitizen(t *testing.T) {
	f := newFixture(t)
	tok, u, err := f.auth.Login(context.Background(), "citizen@demo.com", seed.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, models.RoleCitizen, u.Role)

	actor, err := f.auth.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: "user-1", Role: models.RoleCitizen}, actor)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	for _, c := range []struct{ email, password string }{
		{"citizen@demo.com", "wrongpass"},
		{"nobody@demo.com", seed.DemoPassword},
		{"", ""},
	} {
		tok, u, err := f.auth.Login(context.Background(), c.email, c.password)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials, c.email)
		assert.Empty(t, tok)
		assert.Nil(t, u)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Authenticate("not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.auth.Register(ctx, RegisterInput{Name: "Ada Resident", Email: "Ada@Example.org", Phone: "555", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCitizen, u.Role)
	assert.Equal(t, "ada@example.org", u.Email)

	_, got, err := f.auth.Login(ctx, "ada@example.org", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "Ada Again", Email: "ADA@example.org", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	for name, in := range map[string]RegisterInput{
		"no name":        {Email: "a@b.org", Password: "secret1"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret1"},
		"display name":   {Name: "A", Email: "Bob <bob@b.org>", Password: "secret1"},
		"short password": {Name: "A", Email: "a@b.org", Password: "123"},
	} {
		_, err := f.auth.Register(context.Background(), in)
		var ve *models.ValidationError
		assert.True(t, errors.As(err, &ve), name)
	}
}

func TestUpdateUserRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.UpdateUserRole(asCitizen(), "user-1", models.RoleAdmin, "")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.auth.UpdateUserRole(asAdmin(), "user-1", models.RoleDepartment, "")
	var ve *models.ValidationError
	assert.True(t, errors.As(err, &ve))

	u, err := f.auth.UpdateUserRole(asAdmin(), "user-1", models.RoleDepartment, "Water Department")
	require.NoError(t, err)
	assert.Equal(t, "Water Department", u.Department)

	u, err = f.auth.UpdateUserRole(asAdmin(), "user-1", models.RoleCitizen, "Water Department")
	require.NoError(t, err)
	assert.Empty(t, u.Department)
}

func TestUserVisibility(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.User(asCitizen(), "admin-1")
	assert.ErrorIs(t, err, models.ErrForbidden)

	u, err := f.auth.User(asCitizen(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "John Citizen", u.Name)

	_, err = f.auth.User(asAdmin(), "user-1")
	assert.NoError(t, err)

	_, err = f.auth.Me(context.Background())
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	me, err := f.auth.Me(utils.WithActor(context.Background(), models.Actor{UserID: "dept-1", Role: models.RoleDepartment}))
	require.NoError(t, err)
	assert.Equal(t, "Public Works", me.Department)
}

func TestDemotedAdminLosesRights(t *testing.T) {
	f := newFixture(t)
	eve, err := f.auth.Register(context.Background(), RegisterInput{Name: "Eve", Email: "eve@example.org", Password: "secret123"})
	require.NoError(t, err)
	_, err = f.auth.UpdateUserRole(asAdmin(), eve.ID, models.RoleAdmin, "")
	require.NoError(t, err)

	tok, _, err := f.auth.Login(context.Background(), "eve@example.org", "secret123")
	require.NoError(t, err)
	actor, err := f.auth.Authenticate(tok)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, actor.Role)
	ctx := utils.WithActor(context.Background(), actor)

	_, err = f.auth.UpdateUserRole(asAdmin(), eve.ID, models.RoleCitizen, "")
	require.NoError(t, err)

	_, err = f.auth.UpdateUserRole(ctx, eve.ID, models.RoleAdmin, "")
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.analytics.Analytics(ctx, "30d")
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.auth.User(ctx, "user-1")
	assert.ErrorIs(t, err, models.ErrForbidden)

	g, err := f.grievances.Get(ctx, "grievance-1")
	require.NoError(t, err)
	assert.Empty(t, g.CitizenEmail)
	for _, c := range g.Comments {
		assert.False(t, c.IsInternal)
	}
	_, err = f.grievances.AddComment(ctx, "grievance-1", "note", true)
	assert.ErrorIs(t, err, models.ErrForbidden)

	u, err := f.auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCitizen, u.Role)
}
