package service

import (
	"context"
	"errors"

	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/utils"
)

// currentActor loads the caller's stored profile. Role and department come from
// the stored record, so a token issued before a role change carries no extra rights.
func currentActor(ctx context.Context, users repository.UserRepository) (*models.User, models.Actor, error) {
	actor, ok := utils.ActorFrom(ctx)
	if !ok {
		return nil, actor, models.ErrUnauthorized
	}
	u, err := users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, actor, models.ErrUnauthorized
		}
		return nil, actor, err
	}
	actor.Role, actor.Department = u.Role, u.Department
	return u, actor, nil
}

// viewer is currentActor for public reads: anonymous callers and deleted
// accounts get the zero Actor.
func viewer(ctx context.Context, users repository.UserRepository) (models.Actor, error) {
	_, actor, err := currentActor(ctx, users)
	if errors.Is(err, models.ErrUnauthorized) {
		return models.Actor{}, nil
	}
	return actor, err
}
