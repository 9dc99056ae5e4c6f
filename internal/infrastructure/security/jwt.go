package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/waste3d/coursehub/internal/domain"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// Generate issues an access/refresh pair for the user.
func (m *TokenManager) Generate(user *domain.User) (string, string, error) {
	now := m.now()

	at := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   now.Add(AccessTTL).Unix(),
		"iat":   now.Unix(),
		"type":  "access",
	})
	accessToken, err := at.SignedString(m.accessSecret)
	if err != nil {
		return "", "", err
	}

	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"exp":  now.Add(RefreshTTL).Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
		"type": "refresh",
	})
	refreshToken, err := rt.SignedString(m.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateAccessToken resolves the caller carried by an access token.
func (m *TokenManager) ValidateAccessToken(tokenStr string) (*domain.Identity, error) {
	claims, err := m.validate(tokenStr, m.accessSecret, "access")
	if err != nil {
		return nil, err
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &domain.Identity{ID: claims["sub"].(string), Email: email, Role: role}, nil
}

// ValidateRefreshToken returns the user id of a refresh token.
func (m *TokenManager) ValidateRefreshToken(tokenStr string) (string, error) {
	claims, err := m.validate(tokenStr, m.refreshSecret, "refresh")
	if err != nil {
		return "", err
	}
	return claims["sub"].(string), nil
}

func (m *TokenManager) validate(tokenStr string, secret []byte, kind string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if t, _ := claims["type"].(string); t != kind {
		return nil, ErrInvalidToken
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
