package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/openwall/openwall-be/app"
	"github.com/openwall/openwall-be/config"
	"github.com/openwall/openwall-be/db/jsonfile"
	"github.com/openwall/openwall-be/middleware"
	"github.com/openwall/openwall-be/monitoring"
	"github.com/openwall/openwall-be/routes"
	"github.com/openwall/openwall-be/services"
)

func main() {
	cfg := config.Load()
	configureLogging(cfg)

	database, err := jsonfile.GetDatabase(cfg.DataFile)
	if err != nil {
		log.WithError(err).Fatal("could not open the snapshot store")
	}
	defer database.Close()

	media, err := services.NewMediaStore(cfg.UploadDir, cfg.UploadBaseURL, cfg.MaxUploadBytes)
	if err != nil {
		log.WithError(err).Fatal("could not initialize the media store")
	}

	core := app.New(database, media)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(monitoring.Middleware())
	if len(cfg.FEOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.FEOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.AdminTokenHeader},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(cfg.UploadBaseURL, cfg.UploadDir)

	api := r.Group("/api", middleware.Identity())
	routes.AddHealthCheckRoutes(api)
	routes.AddPostRoutes(api, core, media, database, cfg.AdminToken)
	routes.AddTrendingRoutes(api, core)
	routes.AddUserRoutes(api, core)
	routes.AddAdminRoutes(api, core, cfg.AdminToken)

	log.WithField("port", cfg.Port).Info("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("web server stopped")
	}
}

func configureLogging(cfg *config.Config) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MiB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
}
