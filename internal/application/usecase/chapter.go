package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
)

type CreateChapterInput struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type ChapterUpdate struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	IsFree      *bool   `json:"isFree"`
}

type ChapterVideoInput struct {
	VideoURL string `json:"videoUrl" validate:"required,url"`
}

type ReorderInput struct {
	List []domain.ChapterPosition `json:"list" validate:"required,min=1,dive"`
}

type ChapterUseCase struct {
	guard    *Guard
	courses  *repository.CourseRepository
	chapters *repository.ChapterRepository
	video    VideoProvider
	cache    CourseCache
	logger   *slog.Logger
}

func NewChapterUseCase(
	g *Guard,
	cr *repository.CourseRepository,
	chr *repository.ChapterRepository,
	v VideoProvider,
	c CourseCache,
	logger *slog.Logger,
) *ChapterUseCase {
	return &ChapterUseCase{
		guard:    g,
		courses:  cr,
		chapters: chr,
		video:    v,
		cache:    c,
		logger:   logger,
	}
}

func (uc *ChapterUseCase) CreateChapter(ctx context.Context, identity *domain.Identity, courseID string, in CreateChapterInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return "", err
	}
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return "", err
	}

	chapter := &domain.Chapter{CourseID: course.ID, Title: in.Title}
	if err := uc.chapters.CreateAtEnd(ctx, chapter); err != nil {
		return "", fmt.Errorf("create chapter: %w", err)
	}
	return chapter.ID, nil
}

func (uc *ChapterUseCase) UpdateChapter(ctx context.Context, identity *domain.Identity, courseID, chapterID string, in ChapterUpdate) error {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if err := check(in); err != nil {
		return err
	}
	if in.Title == nil && in.Description == nil && in.IsFree == nil {
		return fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	chapter, err := uc.ownedChapter(ctx, identity, courseID, chapterID)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsFree != nil {
		updates["is_free"] = *in.IsFree
	}
	if err := uc.chapters.Update(ctx, chapter.ID, updates); err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	evictCourse(ctx, uc.cache, uc.logger, courseID)
	return nil
}

// UpdateChapterVideo replaces the chapter's video. Any existing asset is
// deleted remotely and locally before the new one is created.
func (uc *ChapterUseCase) UpdateChapterVideo(ctx context.Context, identity *domain.Identity, courseID, chapterID string, in ChapterVideoInput) error {
	if err := check(in); err != nil {
		return err
	}
	chapter, err := uc.ownedChapter(ctx, identity, courseID, chapterID)
	if err != nil {
		return err
	}

	if chapter.MuxData != nil {
		if err := uc.video.DeleteAsset(ctx, chapter.MuxData.AssetID); err != nil {
			return fmt.Errorf("delete old asset: %w", err)
		}
		if err := uc.chapters.DeleteAsset(ctx, chapter.ID); err != nil {
			return fmt.Errorf("delete old asset record: %w", err)
		}
	}

	asset, err := uc.video.CreateAsset(ctx, in.VideoURL)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	record := &domain.MuxData{AssetID: asset.ID}
	if asset.PlaybackID != "" {
		record.PlaybackID = &asset.PlaybackID
	}
	if err := uc.chapters.ReplaceAsset(ctx, chapter.ID, in.VideoURL, record); err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	evictCourse(ctx, uc.cache, uc.logger, courseID)
	return nil
}

// DeleteChapter removes the chapter and its asset, then demotes the course
// if no published chapter is left.
func (uc *ChapterUseCase) DeleteChapter(ctx context.Context, identity *domain.Identity, courseID, chapterID string) error {
	chapter, err := uc.ownedChapter(ctx, identity, courseID, chapterID)
	if err != nil {
		return err
	}

	if chapter.MuxData != nil {
		if err := uc.video.DeleteAsset(ctx, chapter.MuxData.AssetID); err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}
	}
	if err := uc.chapters.Delete(ctx, chapter.ID); err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	return uc.afterDraft(ctx, courseID)
}

func (uc *ChapterUseCase) PublishChapter(ctx context.Context, identity *domain.Identity, courseID, chapterID string) error {
	chapter, err := uc.ownedChapter(ctx, identity, courseID, chapterID)
	if err != nil {
		return err
	}
	return uc.publish(ctx, chapter)
}

func (uc *ChapterUseCase) UnpublishChapter(ctx context.Context, identity *domain.Identity, courseID, chapterID string) error {
	chapter, err := uc.ownedChapter(ctx, identity, courseID, chapterID)
	if err != nil {
		return err
	}
	return uc.unpublish(ctx, chapter)
}

// ToggleChapterPublish flips the chapter and reports the new state.
func (uc *ChapterUseCase) ToggleChapterPublish(ctx context.Context, identity *domain.Identity, courseID, chapterID string) (bool, error) {
	chapter, err := uc.ownedChapter(ctx, identity, courseID, chapterID)
	if err != nil {
		return false, err
	}
	if chapter.IsPublished {
		return false, uc.unpublish(ctx, chapter)
	}
	if err := uc.publish(ctx, chapter); err != nil {
		return false, err
	}
	return true, nil
}

// ReorderChapters applies the caller's positions atomically. Entries are
// matched by chapter id only; membership in courseID is not re-checked.
func (uc *ChapterUseCase) ReorderChapters(ctx context.Context, identity *domain.Identity, courseID string, in ReorderInput) error {
	if err := check(in); err != nil {
		return err
	}
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return err
	}
	if err := uc.chapters.Reorder(ctx, in.List); err != nil {
		return fmt.Errorf("reorder chapters: %w", err)
	}
	evictCourse(ctx, uc.cache, uc.logger, course.ID)
	return nil
}

// publish never touches the course's own state.
func (uc *ChapterUseCase) publish(ctx context.Context, chapter *domain.Chapter) error {
	if r := chapter.Readiness(chapter.MuxData); !r.Ready() {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, strings.Join(r.Missing, ", "))
	}
	if err := uc.chapters.SetPublished(ctx, chapter.ID, true); err != nil {
		return fmt.Errorf("publish chapter: %w", err)
	}
	evictCourse(ctx, uc.cache, uc.logger, chapter.CourseID)
	return nil
}

func (uc *ChapterUseCase) unpublish(ctx context.Context, chapter *domain.Chapter) error {
	if err := uc.chapters.SetPublished(ctx, chapter.ID, false); err != nil {
		return fmt.Errorf("unpublish chapter: %w", err)
	}
	return uc.afterDraft(ctx, chapter.CourseID)
}

// afterDraft forces the course back to draft once it has no published
// chapter. It never publishes.
func (uc *ChapterUseCase) afterDraft(ctx context.Context, courseID string) error {
	defer evictCourse(ctx, uc.cache, uc.logger, courseID)

	published, err := uc.chapters.CountPublished(ctx, courseID)
	if err != nil {
		return fmt.Errorf("count published chapters: %w", err)
	}
	if published > 0 {
		return nil
	}
	if err := uc.courses.SetPublished(ctx, courseID, false); err != nil {
		return fmt.Errorf("demote course: %w", err)
	}
	return nil
}

func (uc *ChapterUseCase) ownedChapter(ctx context.Context, identity *domain.Identity, courseID, chapterID string) (*domain.Chapter, error) {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return nil, err
	}
	return uc.chapters.GetInCourse(ctx, course.ID, chapterID)
}
