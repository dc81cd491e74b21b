package database

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vivienda/server/internal/dataset"
	"vivienda/server/internal/models"
)

const importBatchSize = 200

// Import writes ds into a new SQLite file at dbPath, replacing any existing
// file. The server only ever opens the result read-only.
func Import(dbPath string, ds *dataset.Dataset) error {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous database: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&seriesRow{}, &forecastRow{}, &communeRow{}); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		series := make([]seriesRow, len(ds.Series))
		for i, p := range ds.Series {
			series[i] = seriesRow{Date: dataset.FormatDate(p.Date), Value: p.Value}
		}
		if err := insert(tx, series); err != nil {
			return fmt.Errorf("failed to insert series: %w", err)
		}

		forecast := make([]forecastRow, len(ds.Forecast))
		for i, p := range ds.Forecast {
			forecast[i] = forecastRow{Date: dataset.FormatDate(p.Date), YReal: p.YReal, YPred: models.Float(p.YPred)}
		}
		if err := insert(tx, forecast); err != nil {
			return fmt.Errorf("failed to insert forecast: %w", err)
		}

		communes := make([]communeRow, len(ds.Regions))
		for i, r := range ds.Regions {
			communes[i] = communeRow(r)
		}
		if err := insert(tx, communes); err != nil {
			return fmt.Errorf("failed to insert communes: %w", err)
		}
		return nil
	})
}

func insert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, importBatchSize).Error
}
