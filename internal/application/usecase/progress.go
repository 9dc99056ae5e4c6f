package usecase

import (
	"context"
	"fmt"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
)

type SetProgressInput struct {
	IsCompleted bool `json:"isCompleted"`
}

type ProgressUseCase struct {
	guard    *Guard
	progress *repository.ProgressRepository
	chapters *repository.ChapterRepository
}

func NewProgressUseCase(g *Guard, pr *repository.ProgressRepository, chr *repository.ChapterRepository) *ProgressUseCase {
	return &ProgressUseCase{guard: g, progress: pr, chapters: chr}
}

// SetProgress records the caller's completion flag for a chapter. Repeating
// the call with the same flag leaves a single row with that value. The
// chapter must exist; purchase is not checked.
func (uc *ProgressUseCase) SetProgress(ctx context.Context, identity *domain.Identity, chapterID string, in SetProgressInput) (*domain.UserProgress, error) {
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	if _, err := uc.chapters.Get(ctx, chapterID); err != nil {
		return nil, err
	}
	row, err := uc.progress.Upsert(ctx, user.ID, chapterID, in.IsCompleted)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return row, nil
}

func (uc *ProgressUseCase) CourseProgress(ctx context.Context, identity *domain.Identity, courseID string) (float64, error) {
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return 0, err
	}
	return courseProgress(ctx, uc.progress, uc.chapters, user.ID, courseID)
}

// courseProgress is completed chapters over all chapters of the course, in
// percent. It is computed on every read.
func courseProgress(ctx context.Context, progress *repository.ProgressRepository, chapters *repository.ChapterRepository, userID, courseID string) (float64, error) {
	total, err := chapters.CountByCourse(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("count chapters: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	done, err := progress.CountCompleted(ctx, userID, courseID)
	if err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return domain.Percent(done, total), nil
}
