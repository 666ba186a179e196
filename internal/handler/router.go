package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/middleware"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
)

// Handlers groups every HTTP handler for route registration.
type Handlers struct {
	Students  *StudentHandler
	Teachers  *TeacherHandler
	Courses   *CourseHandler
	Rooms     *RoomHandler
	Campuses  *CampusHandler
	Schedules *ScheduleHandler
	Optimizer *OptimizerHandler
	Reports   *ReportHandler
	Search    *SearchHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts all API routes under the prefix group. Read routes
// accept any authenticated role; mutations and generation runs require
// admin or operator.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, tokens *service.TokenService, metrics *service.MetricsService) {
	api := r.Group(prefix)
	api.Use(middleware.Metrics(metrics))
	api.Use(middleware.JWT(tokens))

	writeRoles := middleware.RequireRoles(models.RoleAdmin, models.RoleOperator)

	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.GET("/:id", h.Students.Get)
		students.POST("", writeRoles, h.Students.Create)
		students.PUT("/:id", writeRoles, h.Students.Update)
		students.DELETE("/:id", writeRoles, h.Students.Delete)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.POST("", writeRoles, h.Teachers.Create)
		teachers.PUT("/:id", writeRoles, h.Teachers.Update)
		teachers.DELETE("/:id", writeRoles, h.Teachers.Delete)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.POST("", writeRoles, h.Courses.Create)
		courses.PUT("/:id", writeRoles, h.Courses.Update)
		courses.DELETE("/:id", writeRoles, h.Courses.Delete)
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", h.Rooms.List)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.POST("", writeRoles, h.Rooms.Create)
		rooms.PUT("/:id", writeRoles, h.Rooms.Update)
		rooms.DELETE("/:id", writeRoles, h.Rooms.Delete)
	}

	campuses := api.Group("/campuses")
	{
		campuses.GET("", h.Campuses.List)
		campuses.GET("/:id", h.Campuses.Get)
		campuses.POST("", writeRoles, h.Campuses.Create)
	}

	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.Schedules.List)
		schedules.GET("/compare", h.Optimizer.Compare)
		schedules.GET("/:id", h.Schedules.Get)
		schedules.POST("", writeRoles, h.Schedules.Create)
		schedules.DELETE("/:id", writeRoles, h.Schedules.Delete)
		schedules.POST("/:id/generate", writeRoles, h.Optimizer.Generate)
		schedules.POST("/:id/reports", h.Reports.Request)
	}

	optimizer := api.Group("/optimizer")
	{
		optimizer.GET("/health", h.Optimizer.Health)
		optimizer.GET("/modes", h.Optimizer.Modes)
		optimizer.GET("/jobs/:jobId", h.Optimizer.JobStatus)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/:id", h.Reports.Get)
	}

	api.GET("/search", h.Search.Search)
	api.GET("/dashboard", h.Dashboard.Summary)

	// Token-authenticated download endpoint, the signed token carries the
	// authorization so no JWT middleware applies.
	r.GET(prefix+"/reports/download", h.Reports.Download)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
