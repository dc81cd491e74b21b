package database

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vivienda/server/internal/dataset"
	"vivienda/server/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func quarter(year, q int) time.Time {
	return time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC)
}

func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Series: []models.TimePoint{
			{Date: quarter(2020, 1), Value: models.Float(100)},
			{Date: quarter(2020, 2), Value: nil},
			{Date: quarter(2020, 3), Value: models.Float(104.5)},
		},
		Forecast: []models.ForecastPoint{
			{Date: quarter(2020, 3), YReal: models.Float(104.5), YPred: 104},
			{Date: quarter(2020, 4), YPred: 106.25},
		},
		Regions: []models.RegionRecord{
			{RegionCode: "13", RegionName: "Metropolitana", ProvinceCode: "131", ProvinceName: "Santiago", CommuneCode: "13101", CommuneName: "Santiago"},
			{RegionCode: "05", RegionName: "Valparaíso", ProvinceCode: "051", ProvinceName: "Valparaíso", CommuneCode: "05101", CommuneName: "Valparaíso"},
		},
	}
}

// openWritable opens an imported file for test fixtures that Import cannot produce
func openWritable(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestImportAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivienda.db")
	want := sampleDataset()
	require.NoError(t, Import(path, want))

	db, err := NewDatabase(path, testLogger())
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Load()
	require.NoError(t, err)

	assert.Equal(t, want.Series, got.Series)
	assert.Equal(t, want.Forecast, got.Forecast)
	assert.Equal(t, want.Regions, got.Regions)
}

func TestImportReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivienda.db")
	require.NoError(t, Import(path, sampleDataset()))

	smaller := sampleDataset()
	smaller.Series = smaller.Series[:1]
	require.NoError(t, Import(path, smaller))

	db, err := NewDatabase(path, testLogger())
	require.NoError(t, err)
	defer db.Close()

	series, err := db.GetSeries()
	require.NoError(t, err)
	assert.Len(t, series, 1)
}

func TestNewDatabaseMissingFile(t *testing.T) {
	_, err := NewDatabase(filepath.Join(t.TempDir(), "missing.db"), testLogger())
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(db *gorm.DB) error
	}{
		{
			name: "Null prediction",
			setup: func(db *gorm.DB) error {
				return db.Create(&forecastRow{Date: "2021-01-01"}).Error
			},
		},
		{
			name: "Infinite prediction",
			setup: func(db *gorm.DB) error {
				return db.Create(&forecastRow{Date: "2021-01-01", YPred: models.Float(math.Inf(1))}).Error
			},
		},
		{
			name: "Unparseable date",
			setup: func(db *gorm.DB) error {
				return db.Create(&seriesRow{Date: "not a date", Value: models.Float(1)}).Error
			},
		},
		{
			name: "Duplicate date",
			setup: func(db *gorm.DB) error {
				return db.Create(&seriesRow{Date: "2020-01-01", Value: models.Float(1)}).Error
			},
		},
		{
			name: "Missing table",
			setup: func(db *gorm.DB) error {
				return db.Migrator().DropTable(CommunesTable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vivienda.db")
			require.NoError(t, Import(path, sampleDataset()))
			require.NoError(t, tt.setup(openWritable(t, path)))

			db, err := NewDatabase(path, testLogger())
			require.NoError(t, err)
			defer db.Close()

			_, err = db.Load()
			assert.ErrorIs(t, err, models.ErrDataUnavailable)
		})
	}
}

func TestLoadNonFiniteActuals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivienda.db")
	require.NoError(t, Import(path, sampleDataset()))

	db := openWritable(t, path)
	require.NoError(t, db.Create(&forecastRow{Date: "2021-01-01", YReal: models.Float(math.Inf(-1)), YPred: models.Float(107)}).Error)
	require.NoError(t, db.Create(&seriesRow{Date: "2020-10-01", Value: models.Float(math.Inf(1))}).Error)

	source, err := NewDatabase(path, testLogger())
	require.NoError(t, err)
	defer source.Close()

	ds, err := source.Load()
	require.NoError(t, err)

	last := ds.Forecast[len(ds.Forecast)-1]
	assert.Nil(t, last.YReal)
	assert.False(t, last.IsRealized())
	assert.Nil(t, ds.Series[len(ds.Series)-1].Value)
}

func TestDatabaseAsSessionSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivienda.db")
	require.NoError(t, Import(path, sampleDataset()))

	db, err := NewDatabase(path, testLogger())
	require.NoError(t, err)
	defer db.Close()

	session, err := dataset.NewSession(db, testLogger())
	require.NoError(t, err)

	enriched := session.Enriched()
	require.Len(t, enriched, 3)
	assert.Nil(t, enriched[1].VarQoQPct)
	assert.Nil(t, enriched[2].VarQoQPct)

	changed, err := session.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}
