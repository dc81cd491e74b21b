package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Reloader re-reads a data source, reporting whether anything changed.
type Reloader interface {
	Reload() (bool, error)
}

// Scheduler periodically checks the data sources for changes
type Scheduler struct {
	reloader Reloader
	interval time.Duration
	logger   *logrus.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler
func NewScheduler(reloader Reloader, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		reloader: reloader,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled reloads. A non-positive interval disables them.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.logger.Info("Scheduled reloads disabled")
		return
	}
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.WithField("interval", s.interval.String()).Info("Scheduled reloads started")
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce performs a single reload. Failures are logged and the previously
// loaded data keeps being served.
func (s *Scheduler) RunOnce() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	changed, err := s.reloader.Reload()
	if err != nil {
		s.logger.WithError(err).Error("Scheduled reload failed")
		return
	}
	if changed {
		s.logger.Info("Data sources changed, dataset reloaded")
	} else {
		s.logger.Debug("Data sources unchanged")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}
