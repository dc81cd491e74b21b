package database

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vivienda/server/internal/dataset"
	"vivienda/server/internal/models"
)

// Table names of the SQLite source
const (
	SeriesTable   = "serie_vivienda"
	ForecastTable = "forecast"
	CommunesTable = "comunas"
)

type seriesRow struct {
	Date  string   `gorm:"column:date"`
	Value *float64 `gorm:"column:value"`
}

func (seriesRow) TableName() string { return SeriesTable }

type forecastRow struct {
	Date  string   `gorm:"column:date"`
	YReal *float64 `gorm:"column:y_real"`
	YPred *float64 `gorm:"column:y_pred"`
}

func (forecastRow) TableName() string { return ForecastTable }

type communeRow models.RegionRecord

func (communeRow) TableName() string { return CommunesTable }

// Database reads the three dashboard tables from a SQLite file.
type Database struct {
	db     *gorm.DB
	path   string
	logger *logrus.Logger
}

// NewDatabase opens dbPath read-only.
func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	db, err := gorm.Open(sqlite.Open("file:"+dbPath+"?mode=ro"), &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", models.ErrDataUnavailable, dbPath, err)
	}

	return &Database{db: db, path: dbPath, logger: logger}, nil
}

// GetSeries returns the historical series in table order.
func (d *Database) GetSeries() ([]models.TimePoint, error) {
	var rows []seriesRow
	if err := d.db.Order("rowid").Find(&rows).Error; err != nil {
		return nil, d.unavailable(SeriesTable, err)
	}

	points := make([]models.TimePoint, len(rows))
	seen := make(map[time.Time]bool, len(rows))
	for i, r := range rows {
		date, err := dataset.ParseDate(r.Date)
		if err != nil {
			return nil, d.unavailable(SeriesTable, fmt.Errorf("row %d: %w", i+1, err))
		}
		if seen[date] {
			return nil, d.unavailable(SeriesTable, fmt.Errorf("duplicate date %s", dataset.FormatDate(date)))
		}
		seen[date] = true
		points[i] = models.TimePoint{Date: date, Value: finite(r.Value)}
	}
	return points, nil
}

// GetForecast returns the forecast rows in table order.
func (d *Database) GetForecast() ([]models.ForecastPoint, error) {
	var rows []forecastRow
	if err := d.db.Order("rowid").Find(&rows).Error; err != nil {
		return nil, d.unavailable(ForecastTable, err)
	}

	points := make([]models.ForecastPoint, len(rows))
	for i, r := range rows {
		date, err := dataset.ParseDate(r.Date)
		if err != nil {
			return nil, d.unavailable(ForecastTable, fmt.Errorf("row %d: %w", i+1, err))
		}
		if r.YPred == nil || !dataset.IsFinite(*r.YPred) {
			return nil, d.unavailable(ForecastTable, fmt.Errorf("row %d: y_pred is null or not finite", i+1))
		}
		points[i] = models.ForecastPoint{Date: date, YReal: finite(r.YReal), YPred: *r.YPred}
	}
	return points, nil
}

// GetRegions returns the commune lookup table.
func (d *Database) GetRegions() ([]models.RegionRecord, error) {
	var rows []communeRow
	if err := d.db.Order("rowid").Find(&rows).Error; err != nil {
		return nil, d.unavailable(CommunesTable, err)
	}

	records := make([]models.RegionRecord, len(rows))
	for i, r := range rows {
		records[i] = models.RegionRecord(r)
	}
	return records, nil
}

// Load reads all three tables.
func (d *Database) Load() (*dataset.Dataset, error) {
	s, err := d.GetSeries()
	if err != nil {
		return nil, err
	}
	f, err := d.GetForecast()
	if err != nil {
		return nil, err
	}
	r, err := d.GetRegions()
	if err != nil {
		return nil, err
	}

	d.logger.WithFields(logrus.Fields{
		"path":          d.path,
		"observations":  len(s),
		"forecast_rows": len(f),
		"communes":      len(r),
	}).Info("Loaded dataset from sqlite")

	return &dataset.Dataset{Series: s, Forecast: f, Regions: r}, nil
}

// Identity identifies the current version of the database file.
func (d *Database) Identity() (string, error) {
	return dataset.FileIdentity(d.path)
}

// Close releases the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// finite maps NaN and infinities to nil, matching the file loader.
func finite(v *float64) *float64 {
	if v == nil || !dataset.IsFinite(*v) {
		return nil
	}
	return v
}

func (d *Database) unavailable(table string, err error) error {
	if errors.Is(err, models.ErrDataUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s table %s: %v", models.ErrDataUnavailable, d.path, table, err)
}
