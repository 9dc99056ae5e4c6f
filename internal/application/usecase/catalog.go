package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
)

// CourseCard is a course as listed in search results and the dashboard.
type CourseCard struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ImageURL      *string  `json:"imageUrl"`
	Price         *float64 `json:"price"`
	Category      string   `json:"category"`
	ChaptersCount int      `json:"chaptersCount"`
	Progress      *float64 `json:"progress"`
}

type ChapterItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	IsFree      bool   `json:"isFree"`
	IsLocked    bool   `json:"isLocked"`
	IsCompleted bool   `json:"isCompleted"`
}

// CourseDetail is the learner's view of a published course. Everything but
// the caller-specific fields is cached.
type CourseDetail struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	ImageURL    *string       `json:"imageUrl"`
	Price       *float64      `json:"price"`
	Category    string        `json:"category"`
	Chapters    []ChapterItem `json:"chapters"`
	Purchased   bool          `json:"purchased"`
	Progress    *float64      `json:"progress"`
}

// ChapterView is a single chapter as a learner sees it.
type ChapterView struct {
	Chapter       *domain.Chapter      `json:"chapter"`
	CourseTitle   string               `json:"courseTitle"`
	Price         *float64             `json:"price"`
	Purchased     bool                 `json:"purchased"`
	PlaybackID    *string              `json:"playbackId"`
	Attachments   []domain.Attachment  `json:"attachments"`
	NextChapterID *string              `json:"nextChapterId"`
	UserProgress  *domain.UserProgress `json:"userProgress"`
}

type Dashboard struct {
	Completed  []CourseCard `json:"completed"`
	InProgress []CourseCard `json:"inProgress"`
}

type CatalogUseCase struct {
	guard       *Guard
	categories  *repository.CategoryRepository
	courses     *repository.CourseRepository
	chapters    *repository.ChapterRepository
	attachments *repository.AttachmentRepository
	purchases   *repository.PurchaseRepository
	progress    *repository.ProgressRepository
	cache       CourseCache
	logger      *slog.Logger
}

func NewCatalogUseCase(
	g *Guard,
	catr *repository.CategoryRepository,
	cr *repository.CourseRepository,
	chr *repository.ChapterRepository,
	ar *repository.AttachmentRepository,
	pr *repository.PurchaseRepository,
	prog *repository.ProgressRepository,
	c CourseCache,
	logger *slog.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		guard:       g,
		categories:  catr,
		courses:     cr,
		chapters:    chr,
		attachments: ar,
		purchases:   pr,
		progress:    prog,
		cache:       c,
		logger:      logger,
	}
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.List(ctx)
}

// SearchCourses lists published courses. Progress is filled in only for
// courses the caller purchased.
func (uc *CatalogUseCase) SearchCourses(ctx context.Context, identity *domain.Identity, title, categoryID string) ([]CourseCard, error) {
	courses, err := uc.courses.SearchPublished(ctx, title, categoryID)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	cards := make([]CourseCard, 0, len(courses))
	for i := range courses {
		card := newCourseCard(&courses[i])
		if identity != nil {
			owned, err := uc.purchases.Exists(ctx, identity.ID, courses[i].ID)
			if err != nil {
				return nil, err
			}
			if owned {
				p, err := courseProgress(ctx, uc.progress, uc.chapters, identity.ID, courses[i].ID)
				if err != nil {
					return nil, err
				}
				card.Progress = &p
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// GetCourse returns a published course with its published chapters. A
// chapter is locked unless it is free or the caller purchased the course.
func (uc *CatalogUseCase) GetCourse(ctx context.Context, identity *domain.Identity, courseID string) (*CourseDetail, error) {
	public, err := uc.publicCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	detail := *public
	detail.Chapters = make([]ChapterItem, len(public.Chapters))
	copy(detail.Chapters, public.Chapters)

	var done map[string]bool
	if identity != nil {
		if detail.Purchased, err = uc.purchases.Exists(ctx, identity.ID, courseID); err != nil {
			return nil, err
		}
		if done, err = uc.progress.CompletedChapterIDs(ctx, identity.ID, courseID); err != nil {
			return nil, err
		}
		if detail.Purchased {
			p, err := courseProgress(ctx, uc.progress, uc.chapters, identity.ID, courseID)
			if err != nil {
				return nil, err
			}
			detail.Progress = &p
		}
	}

	for i := range detail.Chapters {
		ch := &detail.Chapters[i]
		ch.IsLocked = !ch.IsFree && !detail.Purchased
		ch.IsCompleted = done[ch.ID]
	}
	return &detail, nil
}

func (uc *CatalogUseCase) publicCourse(ctx context.Context, courseID string) (*CourseDetail, error) {
	if uc.cache != nil {
		var cached CourseDetail
		err := uc.cache.Get(ctx, courseID, &cached)
		if err == nil {
			return &cached, nil
		}
		uc.logger.Debug("course cache miss", "course_id", courseID, "error", err)
	}

	course, err := uc.courses.GetPublished(ctx, courseID)
	if err != nil {
		return nil, err
	}
	chapters, err := uc.chapters.ListPublishedByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		ImageURL:    course.ImageURL,
		Price:       course.Price,
		Category:    categoryName(course.Category),
		Chapters:    make([]ChapterItem, 0, len(chapters)),
	}
	for _, ch := range chapters {
		detail.Chapters = append(detail.Chapters, ChapterItem{
			ID:       ch.ID,
			Title:    ch.Title,
			Position: ch.Position,
			IsFree:   ch.IsFree,
		})
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, courseID, detail); err != nil {
			uc.logger.Warn("course cache set failed", "course_id", courseID, "error", err)
		}
	}
	return detail, nil
}

// GetChapter serves one published chapter. The playback id and the next
// chapter are revealed when the chapter is free or purchased; attachments
// only when purchased.
func (uc *CatalogUseCase) GetChapter(ctx context.Context, identity *domain.Identity, courseID, chapterID string) (*ChapterView, error) {
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	course, err := uc.courses.GetPublished(ctx, courseID)
	if err != nil {
		return nil, err
	}
	chapter, err := uc.chapters.GetInCourse(ctx, course.ID, chapterID)
	if err != nil {
		return nil, err
	}
	if !chapter.IsPublished {
		return nil, domain.ErrNotFound
	}

	purchased, err := uc.purchases.Exists(ctx, user.ID, course.ID)
	if err != nil {
		return nil, err
	}

	view := &ChapterView{
		Chapter:     chapter,
		CourseTitle: course.Title,
		Price:       course.Price,
		Purchased:   purchased,
		Attachments: []domain.Attachment{},
	}

	if purchased {
		if view.Attachments, err = uc.attachments.ListByCourse(ctx, course.ID); err != nil {
			return nil, err
		}
	}

	if chapter.IsFree || purchased {
		if chapter.MuxData != nil {
			view.PlaybackID = chapter.MuxData.PlaybackID
		}
		next, err := uc.chapters.NextPublished(ctx, course.ID, chapter.Position)
		switch {
		case err == nil:
			view.NextChapterID = &next.ID
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	} else {
		chapter.VideoURL = nil
	}
	chapter.MuxData = nil

	row, err := uc.progress.Get(ctx, user.ID, chapter.ID)
	switch {
	case err == nil:
		view.UserProgress = row
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return view, nil
}

// Dashboard splits the caller's purchased courses by completion.
func (uc *CatalogUseCase) Dashboard(ctx context.Context, identity *domain.Identity) (*Dashboard, error) {
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	courses, err := uc.purchases.ListCourses(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchased courses: %w", err)
	}

	dash := &Dashboard{Completed: []CourseCard{}, InProgress: []CourseCard{}}
	for i := range courses {
		card := newCourseCard(&courses[i])
		p, err := courseProgress(ctx, uc.progress, uc.chapters, user.ID, courses[i].ID)
		if err != nil {
			return nil, err
		}
		card.Progress = &p
		if p >= 100 {
			dash.Completed = append(dash.Completed, card)
		} else {
			dash.InProgress = append(dash.InProgress, card)
		}
	}
	return dash, nil
}

func newCourseCard(c *domain.Course) CourseCard {
	return CourseCard{
		ID:            c.ID,
		Title:         c.Title,
		ImageURL:      c.ImageURL,
		Price:         c.Price,
		Category:      categoryName(c.Category),
		ChaptersCount: len(c.Chapters),
	}
}

func categoryName(c *domain.Category) string {
	if c == nil {
		return ""
	}
	return c.Name
}
