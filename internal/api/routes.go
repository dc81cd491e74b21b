package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vivienda/server/config"
	"vivienda/server/internal/dataset"
)

// NewRouter builds the gin engine serving the dashboard API.
func NewRouter(session *dataset.Session, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	handler := NewHandler(session, cfg, logger)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(handler.logger), cors.New(corsConfig(cfg.Server.CORSOrigins)))

	SetupRoutes(router, handler)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/info", handler.GetInfo)
		api.GET("/series", handler.GetSeries)
		api.GET("/kpis", handler.GetKPIs)
		api.GET("/forecast", handler.GetForecast)
		api.GET("/overlay", handler.GetOverlay)
		api.GET("/chart.png", handler.GetChart)
		api.GET("/controls", handler.GetControls)
		api.GET("/controls/:name", handler.GetControl)
		api.GET("/regions", handler.ListRegions)
		api.GET("/regions/names", handler.GetRegionNames)
		api.POST("/reload", handler.Reload)

		download := api.Group("/download")
		download.GET("/forecast.csv", handler.DownloadForecast)
		download.GET("/series.csv", handler.DownloadSeries)
		download.GET("/regions.csv", handler.DownloadRegions)
		download.GET("/dashboard.xlsx", handler.DownloadWorkbook)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, RequestIDHeader)
	cfg.ExposeHeaders = []string{RequestIDHeader, "Content-Disposition"}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
