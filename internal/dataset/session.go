package dataset

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"vivienda/server/internal/models"
	"vivienda/server/internal/series"
)

// Session is the loaded dataset together with memoized derived tables. It is
// built once at startup and handed to the request handlers.
type Session struct {
	source   Source
	logger   *logrus.Logger
	mu       sync.RWMutex
	data     *Dataset
	identity string
	enriched map[string][]models.EnrichedTimePoint
}

// NewSession loads source. A load failure is returned unchanged so callers
// can test it against models.ErrDataUnavailable.
func NewSession(source Source, logger *logrus.Logger) (*Session, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	s := &Session{
		source:   source,
		logger:   logger,
		enriched: make(map[string][]models.EnrichedTimePoint),
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dataset returns the currently loaded tables. Callers must not modify them.
func (s *Session) Dataset() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Enriched returns the enriched series, computing it once per loaded version.
func (s *Session) Enriched() []models.EnrichedTimePoint {
	s.mu.RLock()
	id, data := s.identity, s.data
	if e, ok := s.enriched[id]; ok {
		s.mu.RUnlock()
		return e
	}
	s.mu.RUnlock()

	e := series.Enrich(data.Series)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == id {
		s.enriched[id] = e
	}
	return e
}

// Reload reads the source again if its identity changed. On failure the
// previously loaded tables stay in place.
func (s *Session) Reload() (bool, error) {
	id, err := s.source.Identity()
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	unchanged := s.data != nil && id == s.identity
	s.mu.RUnlock()
	if unchanged {
		s.logger.WithField("identity", id).Debug("Sources unchanged, skipping reload")
		return false, nil
	}

	data, err := s.source.Load()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.data = data
	s.identity = id
	// only the current version is ever read again
	s.enriched = make(map[string][]models.EnrichedTimePoint)
	s.mu.Unlock()

	s.logger.WithField("identity", id).Info("Dataset loaded")
	return true, nil
}
