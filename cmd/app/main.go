package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	accountfx "kayipbul/cmd/fx/account_fx"
	configfx "kayipbul/cmd/fx/config_fx"
	dbfx "kayipbul/cmd/fx/db_fx"
	matchingfx "kayipbul/cmd/fx/matching_fx"
	notificationfx "kayipbul/cmd/fx/notification_fx"
	reportfx "kayipbul/cmd/fx/report_fx"
	"kayipbul/internal/api/controllers"
	"kayipbul/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	app := fx.New(
		dbfx.Module,
		configfx.Module,
		accountfx.Module,
		reportfx.Module,
		matchingfx.Module,
		notificationfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	authController *controllers.AuthController,
	reportController *controllers.ReportController,
	matchController *controllers.MatchController,
	notificationController *controllers.NotificationController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, authController, reportController, matchController, notificationController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	authController *controllers.AuthController,
	reportController *controllers.ReportController,
	matchController *controllers.MatchController,
	notificationController *controllers.NotificationController) {

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)

	reportGroup := r.Group("/reports")
	reportGroup.Use(middleware.JWTAuthMiddleware())
	reportGroup.POST("", reportController.CreateReport)
	reportGroup.GET("/mine", reportController.ListOwnReports)
	reportGroup.POST("/:id/status", reportController.UpdateStatus)

	matchGroup := r.Group("/matches")
	matchGroup.Use(middleware.JWTAuthMiddleware())
	matchGroup.GET("/:reportId", matchController.FindMatches)
	matchGroup.POST("/:reportId/save", matchController.SaveMatches)
	matchGroup.POST("/verify/:matchId", matchController.VerifyMatch)

	notificationGroup := r.Group("/notifications")
	notificationGroup.Use(middleware.JWTAuthMiddleware())
	notificationGroup.GET("", notificationController.ListNotifications)
	notificationGroup.GET("/count", notificationController.NotificationCount)
	notificationGroup.POST("/viewed", notificationController.MarkViewed)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware())
	adminGroup.POST("/reindex", matchController.Reindex)
	adminGroup.GET("/stats", matchController.Stats)
}
