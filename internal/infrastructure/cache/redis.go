package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshTTL      = 7 * 24 * time.Hour
	courseDetailTTL = time.Hour
)

// ErrMiss means the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) SaveRefresh(ctx context.Context, userID string, refreshToken string) error {
	return c.client.Set(ctx, "refresh_token:"+refreshToken, userID, refreshTTL).Err()
}

// CheckRefresh returns the user a stored refresh token belongs to.
func (c *TokenCache) CheckRefresh(ctx context.Context, refreshToken string) (string, error) {
	val, err := c.client.Get(ctx, "refresh_token:"+refreshToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, refreshToken string) error {
	return c.client.Del(ctx, "refresh_token:"+refreshToken).Err()
}

// CourseCache stores the public, caller-independent view of a course.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client) *CourseCache {
	return &CourseCache{client: client, ttl: courseDetailTTL}
}

func courseKey(courseID string) string {
	return "course:detail:" + courseID
}

// Get decodes the cached entry into dst.
func (c *CourseCache) Get(ctx context.Context, courseID string, dst any) error {
	raw, err := c.client.Get(ctx, courseKey(courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (c *CourseCache) Set(ctx context.Context, courseID string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, courseKey(courseID), raw, c.ttl).Err()
}

func (c *CourseCache) Evict(ctx context.Context, courseID string) error {
	return c.client.Del(ctx, courseKey(courseID)).Err()
}
