package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vivienda/server/internal/models"
)

// MockSource is a mock implementation of the Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load() (*Dataset, error) {
	args := m.Called()
	ds, _ := args.Get(0).(*Dataset)
	return ds, args.Error(1)
}

func (m *MockSource) Identity() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func sampleDataset(values ...float64) *Dataset {
	ds := &Dataset{}
	for i, v := range values {
		ds.Series = append(ds.Series, models.TimePoint{
			Date:  time.Date(2020, time.Month(3*i+1), 1, 0, 0, 0, 0, time.UTC),
			Value: models.Float(v),
		})
	}
	return ds
}

func TestNewSession(t *testing.T) {
	src := &MockSource{}
	src.On("Identity").Return("v1", nil).Once()
	src.On("Load").Return(sampleDataset(100, 102), nil).Once()

	s, err := NewSession(src, testLogger())
	require.NoError(t, err)

	assert.Len(t, s.Dataset().Series, 2)
	enriched := s.Enriched()
	require.Len(t, enriched, 2)
	assert.InDelta(t, 2.0, *enriched[1].VarQoQPct, 1e-9)

	src.AssertExpectations(t)
}

func TestNewSessionDataUnavailable(t *testing.T) {
	src := &MockSource{}
	src.On("Identity").Return("", models.ErrDataUnavailable).Once()

	_, err := NewSession(src, testLogger())
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
	src.AssertNotCalled(t, "Load")
}

func TestSessionEnrichedIsMemoized(t *testing.T) {
	src := &MockSource{}
	src.On("Identity").Return("v1", nil).Once()
	src.On("Load").Return(sampleDataset(100, 102, 101), nil).Once()

	s, err := NewSession(src, testLogger())
	require.NoError(t, err)

	first := s.Enriched()
	second := s.Enriched()
	require.Len(t, first, 3)
	assert.Same(t, &first[0], &second[0], "second call reuses the memoized slice")
}

func TestSessionReload(t *testing.T) {
	src := &MockSource{}
	src.On("Identity").Return("v1", nil).Twice()
	src.On("Load").Return(sampleDataset(100), nil).Once()

	s, err := NewSession(src, testLogger())
	require.NoError(t, err)

	// unchanged identity does not reload
	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	src.On("Identity").Return("v2", nil).Once()
	src.On("Load").Return(sampleDataset(100, 110), nil).Once()

	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	enriched := s.Enriched()
	require.Len(t, enriched, 2)
	assert.InDelta(t, 10.0, *enriched[1].VarQoQPct, 1e-9)

	src.AssertExpectations(t)
}

func TestSessionReloadFailureKeepsData(t *testing.T) {
	src := &MockSource{}
	src.On("Identity").Return("v1", nil).Once()
	src.On("Load").Return(sampleDataset(100, 101), nil).Once()

	s, err := NewSession(src, testLogger())
	require.NoError(t, err)

	src.On("Identity").Return("v2", nil).Once()
	src.On("Load").Return(nil, errors.New("boom")).Once()

	changed, err := s.Reload()
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Len(t, s.Dataset().Series, 2)
	assert.Len(t, s.Enriched(), 2)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	seriesPath := filepath.Join(dir, "serie.csv")
	forecastPath := filepath.Join(dir, "forecast.csv")
	communesPath := filepath.Join(dir, "comunas.csv")
	require.NoError(t, os.WriteFile(seriesPath, []byte("date,value\n2020-01-01,100\n"), 0644))
	require.NoError(t, os.WriteFile(forecastPath, []byte("date,y_real,y_pred\n2020-04-01,,101\n"), 0644))
	require.NoError(t, os.WriteFile(communesPath, []byte("COD_REG,NOM_REG,COD_COM,NOM_COM,COD_PROV,NOM_PROV\n"), 0644))

	src := &FileSource{SeriesPath: seriesPath, ForecastPath: forecastPath, CommunesPath: communesPath, Logger: testLogger()}
	s, err := NewSession(src, testLogger())
	require.NoError(t, err)
	assert.Len(t, s.Dataset().Series, 1)

	id1, err := src.Identity()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(seriesPath, []byte("date,value\n2020-01-01,100\n2020-04-01,101\n"), 0644))
	id2, err := src.Identity()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, s.Dataset().Series, 2)
}
