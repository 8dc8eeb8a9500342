package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/academy-api/internal/middleware"
	"github.com/noah-isme/academy-api/internal/models"
)

// Handlers groups every HTTP handler mounted by SetupRoutes.
type Handlers struct {
	Auth    *AuthHandler
	Class   *ClassHandler
	Student *StudentHandler
	Teacher *TeacherHandler
	Fixture *FixtureHandler
	Portal  *TeacherPortalHandler
	Report  *ReportHandler
	Metrics *MetricsHandler
}

// RouterConfig controls how routes are mounted.
type RouterConfig struct {
	APIPrefix  string
	EnableDocs bool
	Validator  middleware.TokenValidator
}

// SetupRoutes registers ops endpoints at the root and the API under cfg.APIPrefix.
func SetupRoutes(router *gin.Engine, h Handlers, cfg RouterConfig) {
	if h.Metrics != nil {
		router.GET("/health", h.Metrics.Health)
		router.GET("/ready", h.Metrics.Ready)
		router.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.EnableDocs {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := router.Group(prefix)
	authenticated := middleware.JWT(cfg.Validator)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/change-password", authenticated, h.Auth.ChangePassword)
	}

	admin := api.Group("/admin", authenticated, middleware.RequireRoles(models.RoleAdmin))
	{
		fixtures := admin.Group("/fixtures")
		fixtures.GET("", h.Fixture.List)
		fixtures.POST("", h.Fixture.Create)
		fixtures.GET("/export", h.Fixture.Export)
		fixtures.GET("/:id", h.Fixture.Get)
		fixtures.PUT("/:id", h.Fixture.Update)
		fixtures.PATCH("/:id", h.Fixture.Update)
		fixtures.DELETE("/:id", h.Fixture.Delete)

		classes := admin.Group("/classes")
		classes.GET("", h.Class.List)
		classes.POST("", h.Class.Create)
		classes.GET("/:id", h.Class.Get)
		classes.PUT("/:id", h.Class.Update)
		classes.PATCH("/:id", h.Class.Update)
		classes.DELETE("/:id", h.Class.Delete)
		admin.GET("/classrooms", h.Class.Classrooms)

		students := admin.Group("/students")
		students.GET("", h.Student.List)
		students.POST("", h.Student.Create)
		students.GET("/:id", h.Student.Get)
		students.PUT("/:id", h.Student.Update)
		students.PATCH("/:id", h.Student.Update)
		students.DELETE("/:id", h.Student.Delete)

		teachers := admin.Group("/teachers")
		teachers.GET("", h.Teacher.List)
		teachers.POST("", h.Teacher.Create)
		teachers.GET("/:id", h.Teacher.Get)
		teachers.PUT("/:id", h.Teacher.Update)
		teachers.PATCH("/:id", h.Teacher.Update)
		teachers.DELETE("/:id", h.Teacher.Delete)
	}

	teacher := api.Group("/teacher", authenticated, middleware.RequireRoles(models.RoleTeacher))
	{
		teacher.GET("/me", h.Portal.Me)
		teacher.GET("/classes", h.Portal.Classes)
		teacher.GET("/classes/:id", h.Portal.ClassTodos)
		teacher.GET("/classes/:id/todos", h.Portal.ClassTodos)
		teacher.GET("/classes/:id/students", h.Portal.ClassStudents)
		teacher.GET("/fixtures", h.Fixture.All)
		teacher.POST("/reports", h.Report.Dispatch)
		teacher.GET("/students/:id/reports", h.Report.ListByStudent)
	}
}
