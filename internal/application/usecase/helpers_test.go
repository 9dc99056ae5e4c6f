package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/billing"
	"github.com/waste3d/coursehub/internal/infrastructure/cache"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
	"github.com/waste3d/coursehub/internal/infrastructure/video"
	"github.com/waste3d/coursehub/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_test"

type fakeVideo struct {
	mu        sync.Mutex
	seq       int
	created   []string
	deleted   []string
	deleteErr error
}

func (f *fakeVideo) CreateAsset(_ context.Context, sourceURL string) (video.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("asset-%d", f.seq)
	f.created = append(f.created, sourceURL)
	return video.Asset{ID: id, PlaybackID: "pb-" + id}, nil
}

func (f *fakeVideo) DeleteAsset(_ context.Context, assetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, assetID)
	return nil
}

type fakeBilling struct {
	mu        sync.Mutex
	customers []string
	sessions  []billing.CheckoutSessionParams
}

func (f *fakeBilling) CreateCustomer(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers = append(f.customers, email)
	return fmt.Sprintf("cus_%d", len(f.customers)), nil
}

func (f *fakeBilling) CreateCheckoutSession(_ context.Context, p billing.CheckoutSessionParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, p)
	return fmt.Sprintf("https://checkout.test/s/%d", len(f.sessions)), nil
}

func (f *fakeBilling) counts() (customers, sessions int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.customers), len(f.sessions)
}

type env struct {
	db  *gorm.DB
	mr  *miniredis.Miniredis
	ctx context.Context

	video   *fakeVideo
	billing *fakeBilling

	guard    *Guard
	auth     *AuthUseCase
	courses  *CourseUseCase
	chapters *ChapterUseCase
	catalog  *CatalogUseCase
	checkout *CheckoutUseCase
	progress *ProgressUseCase
	webhook  *WebhookUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	courses := repository.NewCourseRepository(db)
	chapters := repository.NewChapterRepository(db)
	attachments := repository.NewAttachmentRepository(db)
	purchases := repository.NewPurchaseRepository(db)
	progress := repository.NewProgressRepository(db)
	customers := repository.NewCustomerRepository(db)
	courseCache := cache.NewCourseCache(rdb)

	vid := &fakeVideo{}
	bill := &fakeBilling{}
	guard := NewGuard(users, courses)

	authUC := NewAuthUseCase(users, cache.NewTokenCache(rdb),
		security.NewPasswordHasherWithCost(bcrypt.MinCost), security.NewTokenManager("access", "refresh"))

	return &env{
		db:       db,
		mr:       mr,
		ctx:      context.Background(),
		video:    vid,
		billing:  bill,
		guard:    guard,
		auth:     authUC,
		courses:  NewCourseUseCase(guard, courses, chapters, categories, attachments, vid, courseCache, logger),
		chapters: NewChapterUseCase(guard, courses, chapters, vid, courseCache, logger),
		catalog:  NewCatalogUseCase(guard, categories, courses, chapters, attachments, purchases, progress, courseCache, logger),
		checkout: NewCheckoutUseCase(guard, courses, purchases, customers, bill, "http://app.test", logger),
		progress: NewProgressUseCase(guard, progress, chapters),
		webhook:  NewWebhookUseCase(billing.NewWebhookVerifier(webhookSecret), purchases, logger),
	}
}

func (e *env) user(t *testing.T, email string) *domain.Identity {
	t.Helper()
	u := testutil.SeedUser(t, e.db, email)
	return &domain.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (e *env) category(t *testing.T) string {
	t.Helper()
	cat := &domain.Category{Name: "Category " + uuid.NewString()}
	require.NoError(t, e.db.Create(cat).Error)
	return cat.ID
}

// readyChapter creates a chapter that satisfies every publish precondition.
func (e *env) readyChapter(t *testing.T, owner *domain.Identity, courseID, title string) string {
	t.Helper()
	id, err := e.chapters.CreateChapter(e.ctx, owner, courseID, CreateChapterInput{Title: title})
	require.NoError(t, err)
	desc := title + " description"
	require.NoError(t, e.chapters.UpdateChapter(e.ctx, owner, courseID, id, ChapterUpdate{Description: &desc}))
	require.NoError(t, e.chapters.UpdateChapterVideo(e.ctx, owner, courseID, id, ChapterVideoInput{VideoURL: "https://cdn.test/" + title + ".mp4"}))
	return id
}

// publishedCourse builds a course with every field set and one published
// chapter per title, then publishes it.
func (e *env) publishedCourse(t *testing.T, owner *domain.Identity, titles ...string) (string, []string) {
	t.Helper()
	courseID, err := e.courses.CreateCourse(e.ctx, owner, CreateCourseInput{Title: "Intro"})
	require.NoError(t, err)

	desc, img, price, cat := "About Go", "https://cdn.test/img.png", 19.99, e.category(t)
	require.NoError(t, e.courses.UpdateCourse(e.ctx, owner, courseID, CourseUpdate{
		Description: &desc, ImageURL: &img, Price: &price, CategoryID: &cat,
	}))

	var chapterIDs []string
	for _, title := range titles {
		id := e.readyChapter(t, owner, courseID, title)
		require.NoError(t, e.chapters.PublishChapter(e.ctx, owner, courseID, id))
		chapterIDs = append(chapterIDs, id)
	}
	require.NoError(t, e.courses.PublishCourse(e.ctx, owner, courseID))
	return courseID, chapterIDs
}

func (e *env) coursePublished(t *testing.T, courseID string) bool {
	t.Helper()
	var c domain.Course
	require.NoError(t, e.db.First(&c, "id = ?", courseID).Error)
	return c.IsPublished
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
