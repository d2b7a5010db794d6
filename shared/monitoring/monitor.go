package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Monitor tracks the outcome of the last scheduled run for the health endpoint.
type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	lastSummary    string
	metrics        Metrics
	now            func() time.Time
}

func NewMonitor(metrics Metrics) *Monitor {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Monitor{metrics: metrics, now: time.Now}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = m.now()
	m.lastSummary = summary
	m.mu.Unlock()

	m.metrics.ObserveRun("success", duration)
	log.Info().Dur("duration", duration).Msgf("✅ Run completed successfully - %s", summary)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Partial failures leave the health status alone.
	m.metrics.ObserveRun("partial", duration)
	log.Warn().Err(err).Dur("duration", duration).Msg("⚠️  PARTIAL FAILURE")
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = m.now()
	m.lastSummary = err.Error()
	m.mu.Unlock()

	m.metrics.ObserveRun("failure", duration)
	log.Error().Err(err).Dur("duration", duration).Msg("🚨 CRITICAL FAILURE")
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last run: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
	}
	return fmt.Sprintf("❌ Last run failed: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
}
