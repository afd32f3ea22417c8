package handler

import (
	"hospital-or-scheduling/internal/config"
	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the router dispatches to.
type Services struct {
	Auth          AuthService
	Schedule      ScheduleService
	Surgeries     SurgeryService
	Rooms         RoomService
	Patients      PatientService
	Doctors       DoctorService
	Notifications NotificationService
	DB            Pinger
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg *config.Config, svc Services, tokens *utils.TokenManager, log *zap.Logger) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	r.Use(middleware.CORS(cfg.CORS))

	authHandler := NewAuthHandler(svc.Auth, cfg.IsProduction())
	scheduleHandler := NewScheduleHandler(svc.Schedule)
	surgeryHandler := NewSurgeryHandler(svc.Surgeries)
	roomHandler := NewRoomHandler(svc.Rooms)
	patientHandler := NewPatientHandler(svc.Patients)
	doctorHandler := NewDoctorHandler(svc.Doctors)
	notificationHandler := NewNotificationHandler(svc.Notifications)
	healthHandler := NewHealthHandler(svc.DB)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(tokens), authHandler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(tokens), authHandler.Me)
		auth.PUT("/profile", middleware.AuthMiddleware(tokens), authHandler.UpdateProfile)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/calendar/month/:year/:month", scheduleHandler.GetMonth)
		protected.GET("/or-schedule/day/:date", scheduleHandler.GetDay)
		protected.POST("/or-schedule/book", scheduleHandler.Book)

		surgeries := protected.Group("/surgeries")
		surgeries.GET("", surgeryHandler.List)
		surgeries.POST("", surgeryHandler.Create)
		surgeries.GET("/:id", surgeryHandler.Get)
		surgeries.PUT("/:id", surgeryHandler.Update)
		surgeries.PATCH("/:id/status", surgeryHandler.UpdateStatus)
		surgeries.POST("/:id/participants", surgeryHandler.AddParticipant)
		surgeries.POST("/:id/delay", surgeryHandler.Delay)
		surgeries.POST("/:id/cancel", surgeryHandler.Cancel)
		surgeries.POST("/:id/complete", surgeryHandler.Complete)

		rooms := protected.Group("/operating-rooms")
		rooms.GET("", roomHandler.GetAllRooms)
		rooms.POST("", middleware.RequireAdmin(), roomHandler.CreateRoom)
		rooms.PATCH("/:id/status", middleware.RequireAdmin(), roomHandler.UpdateStatus)

		patients := protected.Group("/patients")
		patients.GET("", patientHandler.List)
		patients.POST("", patientHandler.Create)
		patients.GET("/:id", patientHandler.Get)
		patients.PUT("/:id", patientHandler.Update)
		patients.DELETE("/:id", patientHandler.Delete)
		patients.GET("/:id/surgeries", patientHandler.Surgeries)

		doctors := protected.Group("/doctors")
		doctors.GET("/:id", doctorHandler.Get)
		doctors.GET("/:id/details", doctorHandler.Details)
		doctors.GET("/:id/surgeries/:view", doctorHandler.Surgeries)

		notifications := protected.Group("/notifications")
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread", notificationHandler.Unread)
		notifications.PATCH("/:id/read", notificationHandler.MarkRead)
	}

	return r, nil
}
