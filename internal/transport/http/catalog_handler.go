package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/middleware"
)

// CatalogHandler serves browsing, learning and progress endpoints.
type CatalogHandler struct {
	responder
	catalog  *usecase.CatalogUseCase
	progress *usecase.ProgressUseCase
}

func NewCatalogHandler(catalog *usecase.CatalogUseCase, progress *usecase.ProgressUseCase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{responder: responder{logger: logger}, catalog: catalog, progress: progress}
}

// GET /api/v1/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c)
	if err != nil {
		h.fail(c, "CATEGORIES", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GET /api/v1/courses?title=&categoryId=
func (h *CatalogHandler) Search(c *gin.Context) {
	cards, err := h.catalog.SearchCourses(c, middleware.Identity(c), c.Query("title"), c.Query("categoryId"))
	if err != nil {
		h.fail(c, "COURSES_SEARCH", err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GET /api/v1/courses/:courseId
func (h *CatalogHandler) Course(c *gin.Context) {
	detail, err := h.catalog.GetCourse(c, middleware.Identity(c), c.Param("courseId"))
	if err != nil {
		h.fail(c, "COURSE_ID", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GET /api/v1/courses/:courseId/chapters/:chapterId
func (h *CatalogHandler) Chapter(c *gin.Context) {
	view, err := h.catalog.GetChapter(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		h.fail(c, "CHAPTER_ID", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/v1/dashboard
func (h *CatalogHandler) Dashboard(c *gin.Context) {
	dash, err := h.catalog.Dashboard(c, middleware.Identity(c))
	if err != nil {
		h.fail(c, "DASHBOARD", err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// PUT /api/v1/courses/:courseId/chapters/:chapterId/progress
//
// Answers 403 without a caller and returns the stored row on success.
func (h *CatalogHandler) SetProgress(c *gin.Context) {
	if middleware.Identity(c) == nil {
		c.JSON(http.StatusForbidden, Result{Error: msgUnauthorized})
		return
	}

	var req usecase.SetProgressInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "CHAPTER_ID_PROGRESS", err)
		return
	}

	row, err := h.progress.SetProgress(c, middleware.Identity(c), c.Param("chapterId"), req)
	if errors.Is(err, domain.ErrUnauthorized) {
		c.JSON(http.StatusForbidden, Result{Error: msgUnauthorized})
		return
	}
	if err != nil {
		h.fail(c, "CHAPTER_ID_PROGRESS", err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// GET /api/v1/courses/:courseId/progress
func (h *CatalogHandler) CourseProgress(c *gin.Context) {
	pct, err := h.progress.CourseProgress(c, middleware.Identity(c), c.Param("courseId"))
	if err != nil {
		h.fail(c, "COURSE_ID_PROGRESS", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": pct})
}
