package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
)

type CreateCourseInput struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// CourseUpdate carries the fields an owner may edit. Nil fields are left
// untouched.
type CourseUpdate struct {
	Title       *string  `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string  `json:"description" validate:"omitnil,min=1"`
	ImageURL    *string  `json:"imageUrl" validate:"omitnil,url"`
	CategoryID  *string  `json:"categoryId" validate:"omitnil,min=1"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
}

func (u CourseUpdate) empty() bool {
	return u.Title == nil && u.Description == nil && u.ImageURL == nil && u.CategoryID == nil && u.Price == nil
}

// OwnCourse is the authoring view of a course.
type OwnCourse struct {
	*domain.Course
	Readiness domain.Readiness `json:"readiness"`
}

type CourseUseCase struct {
	guard       *Guard
	courses     *repository.CourseRepository
	chapters    *repository.ChapterRepository
	categories  *repository.CategoryRepository
	attachments *repository.AttachmentRepository
	video       VideoProvider
	cache       CourseCache
	logger      *slog.Logger
}

func NewCourseUseCase(
	g *Guard,
	cr *repository.CourseRepository,
	chr *repository.ChapterRepository,
	catr *repository.CategoryRepository,
	ar *repository.AttachmentRepository,
	v VideoProvider,
	c CourseCache,
	logger *slog.Logger,
) *CourseUseCase {
	return &CourseUseCase{
		guard:       g,
		courses:     cr,
		chapters:    chr,
		categories:  catr,
		attachments: ar,
		video:       v,
		cache:       c,
		logger:      logger,
	}
}

func (uc *CourseUseCase) CreateCourse(ctx context.Context, identity *domain.Identity, in CreateCourseInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return "", err
	}
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return "", err
	}

	course := &domain.Course{UserID: user.ID, Title: in.Title}
	if err := uc.courses.Create(ctx, course); err != nil {
		return "", fmt.Errorf("create course: %w", err)
	}
	return course.ID, nil
}

func (uc *CourseUseCase) UpdateCourse(ctx context.Context, identity *domain.Identity, courseID string, in CourseUpdate) error {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if err := check(in); err != nil {
		return err
	}
	if in.empty() {
		return fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
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
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.CategoryID != nil {
		if _, err := uc.categories.GetByID(ctx, *in.CategoryID); err != nil {
			return err
		}
		updates["category_id"] = *in.CategoryID
	}

	if err := uc.courses.Update(ctx, course.ID, updates); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	uc.evict(ctx, course.ID)
	return nil
}

// DeleteCourse removes every remote video asset first, once each, and only
// then deletes the course and its rows in one transaction. A failed remote
// delete leaves the course in place.
func (uc *CourseUseCase) DeleteCourse(ctx context.Context, identity *domain.Identity, courseID string) error {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return err
	}
	full, err := uc.courses.GetWithContent(ctx, course.ID)
	if err != nil {
		return err
	}

	for _, ch := range full.Chapters {
		if ch.MuxData == nil {
			continue
		}
		if err := uc.video.DeleteAsset(ctx, ch.MuxData.AssetID); err != nil {
			return fmt.Errorf("delete asset of chapter %s: %w", ch.ID, err)
		}
	}

	if err := uc.courses.DeleteCascade(ctx, course.ID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	uc.evict(ctx, course.ID)
	return nil
}

func (uc *CourseUseCase) PublishCourse(ctx context.Context, identity *domain.Identity, courseID string) error {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return err
	}
	return uc.publish(ctx, course)
}

func (uc *CourseUseCase) UnpublishCourse(ctx context.Context, identity *domain.Identity, courseID string) error {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return err
	}
	return uc.unpublish(ctx, course)
}

// ToggleCoursePublish flips the course to the opposite state and reports
// the new one.
func (uc *CourseUseCase) ToggleCoursePublish(ctx context.Context, identity *domain.Identity, courseID string) (bool, error) {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return false, err
	}
	if course.IsPublished {
		return false, uc.unpublish(ctx, course)
	}
	if err := uc.publish(ctx, course); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *CourseUseCase) publish(ctx context.Context, course *domain.Course) error {
	chapters, err := uc.chapters.ListByCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	if r := course.Readiness(chapters); !r.Ready() {
		return fmt.Errorf("%w: %s", domain.ErrMissingFields, strings.Join(r.Missing, ", "))
	}
	if err := uc.courses.SetPublished(ctx, course.ID, true); err != nil {
		return fmt.Errorf("publish course: %w", err)
	}
	uc.evict(ctx, course.ID)
	return nil
}

func (uc *CourseUseCase) unpublish(ctx context.Context, course *domain.Course) error {
	if err := uc.courses.SetPublished(ctx, course.ID, false); err != nil {
		return fmt.Errorf("unpublish course: %w", err)
	}
	uc.evict(ctx, course.ID)
	return nil
}

func (uc *CourseUseCase) ListOwnCourses(ctx context.Context, identity *domain.Identity) ([]domain.Course, error) {
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return uc.courses.ListByOwner(ctx, user.ID)
}

func (uc *CourseUseCase) GetOwnCourse(ctx context.Context, identity *domain.Identity, courseID string) (*OwnCourse, error) {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return nil, err
	}
	full, err := uc.courses.GetWithContent(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return &OwnCourse{Course: full, Readiness: full.Readiness(full.Chapters)}, nil
}

type CreateAttachmentInput struct {
	URL string `json:"url" validate:"required,url"`
}

func (uc *CourseUseCase) CreateAttachment(ctx context.Context, identity *domain.Identity, courseID string, in CreateAttachmentInput) (string, error) {
	if err := check(in); err != nil {
		return "", err
	}
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return "", err
	}

	attachment := &domain.Attachment{
		CourseID: course.ID,
		URL:      in.URL,
		Name:     domain.AttachmentName(in.URL),
	}
	if err := uc.attachments.Create(ctx, attachment); err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}
	return attachment.ID, nil
}

func (uc *CourseUseCase) DeleteAttachment(ctx context.Context, identity *domain.Identity, courseID, attachmentID string) error {
	course, err := uc.guard.RequireCourseOwner(ctx, identity, courseID)
	if err != nil {
		return err
	}
	return uc.attachments.DeleteInCourse(ctx, course.ID, attachmentID)
}

// evict drops the cached public view. Failures are logged only.
func (uc *CourseUseCase) evict(ctx context.Context, courseID string) {
	evictCourse(ctx, uc.cache, uc.logger, courseID)
}

func evictCourse(ctx context.Context, c CourseCache, logger *slog.Logger, courseID string) {
	if c == nil {
		return
	}
	if err := c.Evict(ctx, courseID); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("course cache evict failed", "course_id", courseID, "error", err)
	}
}
