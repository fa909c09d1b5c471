package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/aau-dhms/dhms-api/internal/handler"
	"github.com/aau-dhms/dhms-api/internal/middleware"
	"github.com/aau-dhms/dhms-api/internal/models"
	"github.com/aau-dhms/dhms-api/internal/service"
	"github.com/aau-dhms/dhms-api/pkg/config"
	"github.com/aau-dhms/dhms-api/pkg/logger"
	corsmiddleware "github.com/aau-dhms/dhms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aau-dhms/dhms-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler wired into the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Student  *handler.StudentHandler
	Proctor  *handler.ProctorHandler
	Staff    *handler.StaffHandler
	Security *handler.SecurityHandler
	Public   *handler.PublicLaundryHandler
	Rooms    *handler.RoomHandler
	Metrics  *handler.MetricsHandler
}

// New builds the gin engine with all routes and middleware attached.
func New(cfg *config.Config, logr *zap.Logger, authService *service.AuthService, metricsService *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", middleware.JWT(authService), h.Auth.Logout)
		auth.GET("/me", middleware.JWT(authService), h.Auth.Me)
	}

	// Possession of the slip's form code is the credential on these routes.
	// The GET variant is what the slip QR encodes, so a plain camera scan
	// redeems the form.
	public := api.Group("/public/laundry")
	{
		public.GET("/:code", h.Public.Status)
		public.GET("/:code/taken", h.Public.TakeOut)
		public.POST("/:code/take-out", h.Public.TakeOut)
	}

	student := api.Group("/student", middleware.JWT(authService), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/dashboard", h.Student.Dashboard)
		student.GET("/room", h.Student.MyRoom)
		student.POST("/maintenance", h.Student.SubmitMaintenance)
		student.GET("/maintenance", h.Student.ListMaintenance)
		student.GET("/maintenance/:id", h.Student.GetMaintenance)
		student.POST("/laundry", h.Student.SubmitLaundry)
		student.GET("/laundry", h.Student.ListLaundry)
		student.GET("/laundry/:id", h.Student.GetLaundry)
		student.GET("/laundry/:id/slip", h.Student.LaundrySlip)
		student.GET("/penalties", h.Student.ListPenalties)
	}

	proctor := api.Group("/proctor", middleware.JWT(authService), middleware.RequireRoles(models.RoleProctor))
	{
		proctor.GET("/dashboard", h.Proctor.Dashboard)
		proctor.GET("/students", h.Proctor.Students)
		proctor.GET("/maintenance/pending", h.Proctor.PendingMaintenance)
		proctor.POST("/maintenance/:id/approve", h.Proctor.ApproveMaintenance)
		proctor.POST("/maintenance/:id/reject", h.Proctor.RejectMaintenance)
		proctor.GET("/laundry/pending", h.Proctor.PendingLaundry)
		proctor.POST("/laundry/:id/approve", h.Proctor.ApproveLaundry)
		proctor.POST("/laundry/:id/reject", h.Proctor.RejectLaundry)
		proctor.POST("/assignments", h.Proctor.AssignRoom)
		proctor.POST("/penalties", h.Proctor.CreatePenalty)
		proctor.GET("/penalties", h.Proctor.ListPenalties)
		proctor.GET("/penalties/export", h.Proctor.ExportPenalties)
	}

	rooms := api.Group("", middleware.JWT(authService), middleware.RequireRoles(models.RoleProctor))
	{
		rooms.GET("/dorms", h.Rooms.ListDorms)
		rooms.GET("/dorms/:id/rooms", h.Rooms.ListRooms)
		rooms.GET("/rooms/available", h.Rooms.ListAvailableRooms)
		rooms.GET("/rooms/:id", h.Rooms.GetRoom)
	}

	staff := api.Group("/staff", middleware.JWT(authService), middleware.RequireRoles(models.RoleStaff))
	{
		staff.GET("/dashboard", h.Staff.Dashboard)
		staff.GET("/maintenance/available", h.Staff.AvailableJobs)
		staff.GET("/maintenance/assigned", h.Staff.AssignedJobs)
		staff.POST("/maintenance/:id/accept", h.Staff.AcceptJob)
		staff.POST("/maintenance/:id/start", h.Staff.StartJob)
		staff.POST("/maintenance/:id/complete", h.Staff.CompleteJob)
	}

	security := api.Group("/security", middleware.JWT(authService), middleware.RequireRoles(models.RoleSecurity))
	{
		security.GET("/dashboard", h.Security.Dashboard)
		security.GET("/laundry/pending", h.Security.PendingVerification)
		security.POST("/laundry/:id/verify", h.Security.VerifyLaundry)
		security.POST("/laundry/:id/take-out", h.Security.TakeOut)
		security.POST("/laundry/scan", h.Security.ScanQR)
	}

	return r
}
