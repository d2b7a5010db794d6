package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"channel-coach/shared/config"
	"channel-coach/shared/monitoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary string

func (s summary) GetSummary() string { return string(s) }

type fakeAgent struct {
	initErr error
	run     func(ctx context.Context, events *AgentEvents) error
	runs    int
}

func (f *fakeAgent) Name() string      { return "fake" }
func (f *fakeAgent) Initialize() error { return f.initErr }
func (f *fakeAgent) RunOnce(ctx context.Context, events *AgentEvents) error {
	f.runs++
	return f.run(ctx, events)
}

func TestRunOnce_SuccessReported(t *testing.T) {
	monitor := monitoring.NewMonitor(nil)
	agent := &fakeAgent{run: func(_ context.Context, events *AgentEvents) error {
		events.OnSuccess(summary("2 actions verified"), time.Second)
		return nil
	}}

	s := New(&config.Config{}, agent, monitor, nil)
	require.NoError(t, s.RunOnce(context.Background()))

	assert.True(t, monitor.IsHealthy())
	assert.Contains(t, monitor.GetStatusSummary(), "2 actions verified")
}

func TestRunOnce_ErrorMarksUnhealthy(t *testing.T) {
	monitor := monitoring.NewMonitor(nil)
	agent := &fakeAgent{run: func(context.Context, *AgentEvents) error {
		return errors.New("channel not found")
	}}

	s := New(&config.Config{}, agent, monitor, nil)
	err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake run failed")
	assert.False(t, monitor.IsHealthy())
}

func TestStart_InitializeFailure(t *testing.T) {
	agent := &fakeAgent{initErr: errors.New("no credentials")}
	s := New(&config.Config{Schedule: "0 0 9 * * 1"}, agent, nil, nil)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Zero(t, agent.runs)
}

func TestStart_InvalidSchedule(t *testing.T) {
	agent := &fakeAgent{}
	cfg := &config.Config{Schedule: "not a cron line"}
	cfg.Monitoring.HealthPort = 0

	err := New(cfg, agent, nil, nil).Start(context.Background())
	assert.ErrorContains(t, err, "failed to add cron job")
}
