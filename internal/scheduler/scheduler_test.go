package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReloader is a mock implementation of the Reloader interface
type MockReloader struct {
	mock.Mock
	calls atomic.Int32
}

func (m *MockReloader) Reload() (bool, error) {
	m.calls.Add(1)
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestSchedulerRunsPeriodically(t *testing.T) {
	reloader := &MockReloader{}
	reloader.On("Reload").Return(false, nil)

	s := NewScheduler(reloader, 5*time.Millisecond, testLogger())
	s.Start()

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	after := reloader.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, reloader.calls.Load())
}

func TestSchedulerDisabled(t *testing.T) {
	reloader := &MockReloader{}

	s := NewScheduler(reloader, 0, testLogger())
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	reloader.AssertNotCalled(t, "Reload")
}

func TestRunOnceSurvivesErrors(t *testing.T) {
	reloader := &MockReloader{}
	reloader.On("Reload").Return(false, errors.New("source missing")).Once()
	reloader.On("Reload").Return(true, nil).Once()

	s := NewScheduler(reloader, time.Hour, testLogger())
	s.RunOnce()
	s.RunOnce()

	reloader.AssertExpectations(t)
	assert.Equal(t, int32(2), reloader.calls.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	reloader := &MockReloader{}
	reloader.On("Reload").Return(false, nil).Maybe()

	s := NewScheduler(reloader, time.Hour, testLogger())
	s.Start()
	s.Stop()
	assert.NotPanics(t, s.Stop)
}
