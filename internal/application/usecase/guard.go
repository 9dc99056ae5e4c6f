package usecase

import (
	"context"
	"errors"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
)

// Guard re-verifies the caller on every operation. The identity attached by
// the HTTP middleware is only a claim until the user row is found.
type Guard struct {
	users   *repository.UserRepository
	courses *repository.CourseRepository
}

func NewGuard(users *repository.UserRepository, courses *repository.CourseRepository) *Guard {
	return &Guard{users: users, courses: courses}
}

func (g *Guard) RequireUser(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil || identity.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := g.users.GetByID(ctx, identity.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequireCourseOwner returns the course only when the caller owns it. A
// missing course and a foreign one are indistinguishable.
func (g *Guard) RequireCourseOwner(ctx context.Context, identity *domain.Identity, courseID string) (*domain.Course, error) {
	user, err := g.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	course, err := g.courses.GetOwned(ctx, courseID, user.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}
