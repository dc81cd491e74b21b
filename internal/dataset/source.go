package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"vivienda/server/internal/models"
)

// Source produces a Dataset and identifies the version it would load.
type Source interface {
	Load() (*Dataset, error)
	Identity() (string, error)
}

// FileSource loads the three tables from csv or xlsx files.
type FileSource struct {
	SeriesPath   string
	ForecastPath string
	CommunesPath string
	Logger       *logrus.Logger
}

// Load reads all three files.
func (s *FileSource) Load() (*Dataset, error) {
	ds, err := LoadFiles(s.SeriesPath, s.ForecastPath, s.CommunesPath)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"series_path":   s.SeriesPath,
			"forecast_path": s.ForecastPath,
			"communes_path": s.CommunesPath,
			"observations":  len(ds.Series),
			"forecast_rows": len(ds.Forecast),
			"communes":      len(ds.Regions),
		}).Info("Loaded dataset from files")
	}
	return ds, nil
}

// Identity combines the identities of the three files.
func (s *FileSource) Identity() (string, error) {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.SeriesPath, s.ForecastPath, s.CommunesPath} {
		id, err := FileIdentity(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, "|"), nil
}

// FileIdentity identifies a file by absolute path, size and modification time.
func FileIdentity(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %v", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	return fmt.Sprintf("%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
