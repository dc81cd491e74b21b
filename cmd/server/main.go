package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vivienda/server/config"
	"vivienda/server/internal/api"
	"vivienda/server/internal/database"
	"vivienda/server/internal/dataset"
	"vivienda/server/internal/models"
	"vivienda/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Build the data source
	var source dataset.Source
	switch cfg.Data.Source {
	case config.SourceSQLite:
		logger.Infof("Using database at: %s", cfg.Data.SQLitePath)
		db, err := database.NewDatabase(cfg.Data.SQLitePath, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open database")
		}
		defer db.Close()
		source = db
	default:
		source = &dataset.FileSource{
			SeriesPath:   cfg.Data.SeriesPath,
			ForecastPath: cfg.Data.ForecastPath,
			CommunesPath: cfg.Data.CommunesPath,
			Logger:       logger,
		}
	}

	session, err := dataset.NewSession(source, logger)
	if err != nil {
		if errors.Is(err, models.ErrDataUnavailable) {
			logger.WithError(err).Fatal("Data sources unavailable")
		}
		logger.WithError(err).Fatal("Failed to load dataset")
	}

	// Pick up source changes without a restart
	sched := scheduler.NewScheduler(session, cfg.Data.ReloadInterval, logger)
	sched.Start()
	defer sched.Stop()

	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(session, cfg, logger)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
