package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.NoRoute(util.NotFound)

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	requireAuth := middleware.AuthMiddleware(cfg, repos.user)

	a.registerAuthRoutes(api.Group("/auth"), c, requireAuth)

	courses := api.Group("/courses")
	courses.Use(requireAuth)
	a.registerCourseRoutes(courses, c)
}

func (a *App) registerAuthRoutes(auth *gin.RouterGroup, c *controllers, requireAuth gin.HandlerFunc) {
	auth.POST("/register", c.auth.Register)
	auth.POST("/login", c.auth.Login)

	authorized := auth.Group("")
	authorized.Use(requireAuth)
	{
		authorized.GET("/profile", c.auth.GetProfile)
		authorized.PUT("/profile", c.auth.UpdateProfile)
		authorized.PUT("/change-password", c.auth.ChangePassword)
	}

	admin := authorized.Group("/users")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("", c.user.ListUsers)
		admin.PUT("/:userId/role", c.user.UpdateRole)
		admin.PUT("/:userId/toggle-status", c.user.ToggleStatus)
		admin.DELETE("/:userId", c.user.DeleteUser)
	}
}

func (a *App) registerCourseRoutes(courses *gin.RouterGroup, c *controllers) {
	authors := middleware.RoleMiddleware(model.RoleAdmin, model.RoleManager)

	courses.GET("", c.course.ListCourses)
	courses.POST("", authors, c.course.CreateCourse)
	courses.POST("/images", authors, c.upload.UploadCourseImage)
	courses.POST("/admin/publish-all", middleware.RoleMiddleware(model.RoleAdmin), c.course.PublishAll)

	courses.GET("/:id", c.course.GetCourse)
	courses.PUT("/:id", c.course.UpdateCourse)
	courses.DELETE("/:id", c.course.DeleteCourse)

	courses.POST("/:id/enroll", c.enrollment.Enroll)
	courses.DELETE("/:id/enroll", c.enrollment.Unenroll)

	courses.POST("/:id/lessons", c.lesson.AddLesson)
	courses.PUT("/:id/lessons/:lessonId", c.lesson.UpdateLesson)
	courses.DELETE("/:id/lessons/:lessonId", c.lesson.DeleteLesson)
	courses.POST("/:id/lessons/:lessonId/complete", c.enrollment.CompleteLesson)
}
