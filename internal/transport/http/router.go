package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Teacher *TeacherHandler
	Catalog *CatalogHandler
	Payment *PaymentHandler
}

// NewRouter builds the engine. Forwarded client addresses are honoured only
// from trustedProxies; with none, the rate limiter keys on the peer address.
func NewRouter(h Handlers, auth middleware.Authenticator, limiter *middleware.RateLimiter, allowedOrigins, trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	// Signed by the payment provider, no bearer token.
	r.POST("/api/webhook", h.Payment.Webhook)

	api := r.Group("/api/v1")
	api.Use(middleware.IdentityMiddleware(auth))
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", limiter.Limit("login", 5, 1*time.Minute), h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", h.Auth.Logout)
		}

		api.GET("/categories", h.Catalog.Categories)
		api.GET("/dashboard", h.Catalog.Dashboard)

		course := api.Group("/courses")
		{
			course.GET("", h.Catalog.Search)
			course.GET("/:courseId", h.Catalog.Course)
			course.GET("/:courseId/progress", h.Catalog.CourseProgress)
			course.GET("/:courseId/chapters/:chapterId", h.Catalog.Chapter)
			course.PUT("/:courseId/chapters/:chapterId/progress", h.Catalog.SetProgress)
			course.POST("/:courseId/checkout", limiter.Limit("checkout", 10, 1*time.Minute), h.Payment.Checkout)
		}

		teacher := api.Group("/teacher/courses")
		{
			teacher.GET("", h.Teacher.ListCourses)
			teacher.POST("", h.Teacher.CreateCourse)
			teacher.GET("/:courseId", h.Teacher.GetCourse)
			teacher.PATCH("/:courseId", h.Teacher.UpdateCourse)
			teacher.DELETE("/:courseId", h.Teacher.DeleteCourse)
			teacher.POST("/:courseId/publish", h.Teacher.PublishCourse)
			teacher.POST("/:courseId/unpublish", h.Teacher.UnpublishCourse)
			teacher.POST("/:courseId/toggle-publish", h.Teacher.ToggleCoursePublish)

			teacher.POST("/:courseId/attachments", h.Teacher.CreateAttachment)
			teacher.DELETE("/:courseId/attachments/:attachmentId", h.Teacher.DeleteAttachment)

			teacher.POST("/:courseId/chapters", h.Teacher.CreateChapter)
			teacher.PUT("/:courseId/chapters/reorder", h.Teacher.ReorderChapters)
			teacher.PATCH("/:courseId/chapters/:chapterId", h.Teacher.UpdateChapter)
			teacher.DELETE("/:courseId/chapters/:chapterId", h.Teacher.DeleteChapter)
			teacher.PUT("/:courseId/chapters/:chapterId/video", h.Teacher.UpdateChapterVideo)
			teacher.POST("/:courseId/chapters/:chapterId/publish", h.Teacher.PublishChapter)
			teacher.POST("/:courseId/chapters/:chapterId/unpublish", h.Teacher.UnpublishChapter)
			teacher.POST("/:courseId/chapters/:chapterId/toggle-publish", h.Teacher.ToggleChapterPublish)
		}
	}

	return r, nil
}
