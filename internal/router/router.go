package router

import (
	"fittrack/internal/config"
	"fittrack/internal/handler"
	"fittrack/internal/middleware"
	"fittrack/internal/notify"
	"fittrack/internal/report"
	"fittrack/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires all handlers. The store,
// notification manager and audit DB are passed in, never global.
func SetupRouter(cfg *config.Config, st *store.Store, nm *notify.Manager, auditDB *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(st, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, st),
		middleware.AuditMiddleware(auditDB),
	)

	userHandler := handler.NewUserHandler(st)
	protected.GET("/me", userHandler.GetMe)
	protected.POST("/settings", userHandler.UpdateSettings)
	protected.POST("/account/delete", userHandler.DeleteAccount)

	workoutHandler := handler.NewWorkoutHandler(st, nm)
	protected.POST("/workouts", workoutHandler.CreateWorkout)
	protected.GET("/workouts", workoutHandler.ListWorkouts)
	protected.GET("/reports/summary", workoutHandler.Summary)

	challengeHandler := handler.NewChallengeHandler(st, nm)
	protected.GET("/challenges", challengeHandler.ListChallenges)
	protected.POST("/challenges", challengeHandler.CreateChallenge)
	protected.POST("/challenges/:id/join", challengeHandler.JoinChallenge)

	notifHandler := handler.NewNotificationHandler(st, nm)
	protected.GET("/notifications", notifHandler.ListNotifications)
	protected.POST("/notifications/:id/read", notifHandler.MarkRead)
	protected.POST("/water", notifHandler.LogWater)
	protected.POST("/reminders", notifHandler.AddReminder)
	protected.GET("/reminders", notifHandler.ListReminders)

	reportGen := report.NewGenerator(st, cfg.Report.Dir)
	reportHandler := handler.NewReportHandler(reportGen)
	protected.GET("/reports/capability", reportHandler.Capability)
	protected.POST("/reports/pdf", reportHandler.GeneratePDF)

	backupHandler := handler.NewBackupHandler(st)
	protected.POST("/backups", backupHandler.CreateBackup)

	exportHandler := handler.NewExportHandler(st)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(auditDB)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
