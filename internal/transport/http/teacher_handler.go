package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/middleware"
)

// TeacherHandler serves the owner-only authoring endpoints.
type TeacherHandler struct {
	responder
	courses  *usecase.CourseUseCase
	chapters *usecase.ChapterUseCase
}

func NewTeacherHandler(courses *usecase.CourseUseCase, chapters *usecase.ChapterUseCase, logger *slog.Logger) *TeacherHandler {
	return &TeacherHandler{responder: responder{logger: logger}, courses: courses, chapters: chapters}
}

// GET /api/v1/teacher/courses
func (h *TeacherHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.ListOwnCourses(c, middleware.Identity(c))
	if err != nil {
		h.fail(c, "TEACHER_COURSES", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// POST /api/v1/teacher/courses
func (h *TeacherHandler) CreateCourse(c *gin.Context) {
	var req usecase.CreateCourseInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "COURSE_CREATE", err)
		return
	}
	id, err := h.courses.CreateCourse(c, middleware.Identity(c), req)
	if err != nil {
		h.fail(c, "COURSE_CREATE", err)
		return
	}
	h.success(c, http.StatusCreated, "Course Created!", id)
}

// GET /api/v1/teacher/courses/:courseId
func (h *TeacherHandler) GetCourse(c *gin.Context) {
	course, err := h.courses.GetOwnCourse(c, middleware.Identity(c), c.Param("courseId"))
	if err != nil {
		h.fail(c, "COURSE_ID", err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// PATCH /api/v1/teacher/courses/:courseId
func (h *TeacherHandler) UpdateCourse(c *gin.Context) {
	var req usecase.CourseUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, "COURSE_ID_UPDATE", err)
		return
	}
	if err := h.courses.UpdateCourse(c, middleware.Identity(c), c.Param("courseId"), req); err != nil {
		h.fail(c, "COURSE_ID_UPDATE", err)
		return
	}
	h.success(c, http.StatusOK, "Course updated!", "")
}

// DELETE /api/v1/teacher/courses/:courseId
func (h *TeacherHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.DeleteCourse(c, middleware.Identity(c), c.Param("courseId")); err != nil {
		h.fail(c, "COURSE_ID_DELETE", err)
		return
	}
	h.success(c, http.StatusOK, "Course deleted!", "")
}

// POST /api/v1/teacher/courses/:courseId/publish
func (h *TeacherHandler) PublishCourse(c *gin.Context) {
	if err := h.courses.PublishCourse(c, middleware.Identity(c), c.Param("courseId")); err != nil {
		h.fail(c, "COURSE_ID_PUBLISH", err)
		return
	}
	h.success(c, http.StatusOK, "Course published!", "")
}

// POST /api/v1/teacher/courses/:courseId/unpublish
func (h *TeacherHandler) UnpublishCourse(c *gin.Context) {
	if err := h.courses.UnpublishCourse(c, middleware.Identity(c), c.Param("courseId")); err != nil {
		h.fail(c, "COURSE_ID_UNPUBLISH", err)
		return
	}
	h.success(c, http.StatusOK, "Course unpublished!", "")
}

// POST /api/v1/teacher/courses/:courseId/toggle-publish
func (h *TeacherHandler) ToggleCoursePublish(c *gin.Context) {
	published, err := h.courses.ToggleCoursePublish(c, middleware.Identity(c), c.Param("courseId"))
	if err != nil {
		h.fail(c, "COURSE_ID_TOGGLE", err)
		return
	}
	h.success(c, http.StatusOK, publishedMessage("Course", published), "")
}

// POST /api/v1/teacher/courses/:courseId/attachments
func (h *TeacherHandler) CreateAttachment(c *gin.Context) {
	var req usecase.CreateAttachmentInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "COURSE_ID_ATTACHMENTS", err)
		return
	}
	id, err := h.courses.CreateAttachment(c, middleware.Identity(c), c.Param("courseId"), req)
	if err != nil {
		h.fail(c, "COURSE_ID_ATTACHMENTS", err)
		return
	}
	h.success(c, http.StatusCreated, "Attachment Created!", id)
}

// DELETE /api/v1/teacher/courses/:courseId/attachments/:attachmentId
func (h *TeacherHandler) DeleteAttachment(c *gin.Context) {
	err := h.courses.DeleteAttachment(c, middleware.Identity(c), c.Param("courseId"), c.Param("attachmentId"))
	if err != nil {
		h.fail(c, "ATTACHMENT_ID", err)
		return
	}
	h.success(c, http.StatusOK, "Attachment Deleted!", "")
}

// POST /api/v1/teacher/courses/:courseId/chapters
func (h *TeacherHandler) CreateChapter(c *gin.Context) {
	var req usecase.CreateChapterInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "COURSE_ID_CHAPTERS", err)
		return
	}
	id, err := h.chapters.CreateChapter(c, middleware.Identity(c), c.Param("courseId"), req)
	if err != nil {
		h.fail(c, "COURSE_ID_CHAPTERS", err)
		return
	}
	h.success(c, http.StatusCreated, "Chapter created", id)
}

// PUT /api/v1/teacher/courses/:courseId/chapters/reorder
func (h *TeacherHandler) ReorderChapters(c *gin.Context) {
	var req usecase.ReorderInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "COURSE_ID_REORDER", err)
		return
	}
	if err := h.chapters.ReorderChapters(c, middleware.Identity(c), c.Param("courseId"), req); err != nil {
		h.fail(c, "COURSE_ID_REORDER", err)
		return
	}
	h.success(c, http.StatusOK, "Chapters reordered!", "")
}

// PATCH /api/v1/teacher/courses/:courseId/chapters/:chapterId
func (h *TeacherHandler) UpdateChapter(c *gin.Context) {
	var req usecase.ChapterUpdate
	if err := bind(c, &req); err != nil {
		h.fail(c, "CHAPTER_ID_UPDATE", err)
		return
	}
	err := h.chapters.UpdateChapter(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId"), req)
	if err != nil {
		h.fail(c, "CHAPTER_ID_UPDATE", err)
		return
	}
	h.success(c, http.StatusOK, "Chapter updated!", "")
}

// PUT /api/v1/teacher/courses/:courseId/chapters/:chapterId/video
func (h *TeacherHandler) UpdateChapterVideo(c *gin.Context) {
	var req usecase.ChapterVideoInput
	if err := bind(c, &req); err != nil {
		h.fail(c, "CHAPTER_ID_VIDEO", err)
		return
	}
	err := h.chapters.UpdateChapterVideo(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId"), req)
	if err != nil {
		h.fail(c, "CHAPTER_ID_VIDEO", err)
		return
	}
	h.success(c, http.StatusOK, "Video updated!", "")
}

// DELETE /api/v1/teacher/courses/:courseId/chapters/:chapterId
func (h *TeacherHandler) DeleteChapter(c *gin.Context) {
	if err := h.chapters.DeleteChapter(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId")); err != nil {
		h.fail(c, "CHAPTER_ID_DELETE", err)
		return
	}
	h.success(c, http.StatusOK, "Chapter deleted!", "")
}

// POST /api/v1/teacher/courses/:courseId/chapters/:chapterId/publish
func (h *TeacherHandler) PublishChapter(c *gin.Context) {
	if err := h.chapters.PublishChapter(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId")); err != nil {
		h.fail(c, "CHAPTER_ID_PUBLISH", err)
		return
	}
	h.success(c, http.StatusOK, "Chapter published!", "")
}

// POST /api/v1/teacher/courses/:courseId/chapters/:chapterId/unpublish
func (h *TeacherHandler) UnpublishChapter(c *gin.Context) {
	if err := h.chapters.UnpublishChapter(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId")); err != nil {
		h.fail(c, "CHAPTER_ID_UNPUBLISH", err)
		return
	}
	h.success(c, http.StatusOK, "Chapter unpublished!", "")
}

// POST /api/v1/teacher/courses/:courseId/chapters/:chapterId/toggle-publish
func (h *TeacherHandler) ToggleChapterPublish(c *gin.Context) {
	published, err := h.chapters.ToggleChapterPublish(c, middleware.Identity(c), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		h.fail(c, "CHAPTER_ID_TOGGLE", err)
		return
	}
	h.success(c, http.StatusOK, publishedMessage("Chapter", published), "")
}

func publishedMessage(what string, published bool) string {
	if published {
		return what + " published!"
	}
	return what + " unpublished!"
}
