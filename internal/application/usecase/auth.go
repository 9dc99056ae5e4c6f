package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/cache"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
}

func NewAuthUseCase(
	ur *repository.UserRepository,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     ur,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(in); err != nil {
		return "", err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (*TokenPair, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(in); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := uc.hasher.Compare(user.Password, in.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return uc.generateAndSaveTokens(ctx, user)
}

// Refresh rotates a stored refresh token. The old token is revoked.
func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (*TokenPair, error) {
	userID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if errors.Is(err, cache.ErrMiss) || (err == nil && cachedID != userID) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return uc.generateAndSaveTokens(ctx, user)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

// Authenticate resolves an access token into the caller's identity.
func (uc *AuthUseCase) Authenticate(token string) (*domain.Identity, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, refresh, err := uc.tokenManager.Generate(user)
	if err != nil {
		return nil, err
	}

	if err := uc.tokenCache.SaveRefresh(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
