// Command sqlite-import copies the csv or xlsx sources into a SQLite file that
// the server can read with DATA_SOURCE=sqlite.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"vivienda/server/config"
	"vivienda/server/internal/database"
	"vivienda/server/internal/dataset"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	ds, err := dataset.LoadFiles(cfg.Data.SeriesPath, cfg.Data.ForecastPath, cfg.Data.CommunesPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load source files")
	}

	if err := database.Import(cfg.Data.SQLitePath, ds); err != nil {
		logger.WithError(err).Fatal("Failed to import dataset")
	}

	logger.WithFields(logrus.Fields{
		"path":          cfg.Data.SQLitePath,
		"observations":  len(ds.Series),
		"forecast_rows": len(ds.Forecast),
		"communes":      len(ds.Regions),
	}).Info("Import completed")
}
