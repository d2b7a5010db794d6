package channelcoach

import (
	"context"
	"fmt"
	"time"

	"channel-coach/agents/channel-coach/tracker"
	"channel-coach/agents/channel-coach/youtube"
	"channel-coach/internal/models"
	"channel-coach/shared/config"
	"channel-coach/shared/email"
	"channel-coach/shared/monitoring"
	"channel-coach/shared/scheduler"

	"github.com/rs/zerolog/log"
)

// CoachMetrics represents what a scheduled coaching run did
type CoachMetrics struct {
	Score     int  `json:"score"`
	Tracked   int  `json:"tracked"`
	Checked   int  `json:"checked"`
	Verified  int  `json:"verified"`
	Failed    int  `json:"failed"`
	Private   bool `json:"private"`
	EmailSent bool `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m CoachMetrics) GetSummary() string {
	summary := fmt.Sprintf("score %d/100, %d tracked, %d/%d verified", m.Score, m.Tracked, m.Verified, m.Checked)
	if m.EmailSent {
		return summary + ", email sent"
	}
	return summary + ", no email sent"
}

// TokenProvider hands out a valid owner access token.
type TokenProvider interface {
	AccessToken() (string, error)
}

// ReportSender delivers the weekly report.
type ReportSender interface {
	SendReport(report *models.WeeklyReport) error
}

// CoachAgent implements the scheduler.Agent interface. Each run verifies the
// tracked actions and mails the owner a fresh report of their channel.
type CoachAgent struct {
	config      *config.Config
	dashboard   *Dashboard
	tracker     *tracker.Tracker
	credentials TokenProvider
	emailSender ReportSender
	metrics     monitoring.Metrics
	now         func() time.Time
}

func NewCoachAgent(cfg *config.Config, dashboard *Dashboard, tr *tracker.Tracker, metrics monitoring.Metrics) *CoachAgent {
	if metrics == nil {
		metrics = monitoring.NoopMetrics{}
	}
	return &CoachAgent{
		config:    cfg,
		dashboard: dashboard,
		tracker:   tr,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (c *CoachAgent) Name() string {
	return "Channel Coach"
}

func (c *CoachAgent) Initialize() error {
	log.Info().Msgf("Initializing %s...", c.Name())

	if c.credentials == nil && c.config.YouTube.OwnerEnabled() {
		creds, err := youtube.NewOwnerCredentials(&c.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to load owner credentials: %w", err)
		}
		c.credentials = creds
		log.Info().Msg("Owner credentials initialized")
	}

	if c.emailSender == nil && c.config.Email.Enabled() {
		c.emailSender = email.NewSender(&c.config.Email)
		log.Info().Msg("Email sender initialized")
	}

	if c.config.YouTube.ChannelID == "" {
		log.Warn().Msg("No youtube.channel_id configured, runs will only verify tracked actions")
	}

	c.metrics.SetTrackedActions(len(c.tracker.Actions("")))
	return nil
}

func (c *CoachAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := CoachMetrics{}

	log.Info().Msg("Verifying tracked actions...")
	summary, err := c.tracker.Verify(ctx, c.dashboard.LookupVideo)
	if err != nil {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(fmt.Errorf("failed to verify tracked actions: %w", err), time.Since(startTime))
		}
		return fmt.Errorf("failed to verify tracked actions: %w", err)
	}
	metrics.Checked, metrics.Verified, metrics.Failed = summary.Checked, summary.Verified, summary.Failed
	if summary.Errors > 0 && events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(fmt.Errorf("%d videos could not be fetched for verification", summary.Errors), time.Since(startTime))
	}

	metrics.Tracked = len(c.tracker.Actions(""))
	c.metrics.SetTrackedActions(metrics.Tracked)

	channelID := c.config.YouTube.ChannelID
	if channelID == "" {
		if events != nil && events.OnSuccess != nil {
			events.OnSuccess(metrics, time.Since(startTime))
		}
		return nil
	}

	log.Info().Msgf("Analyzing channel %s...", channelID)
	report, err := c.dashboard.Analyze(ctx, channelID)
	if err != nil {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(fmt.Errorf("failed to analyze channel: %w", err), time.Since(startTime))
		}
		return fmt.Errorf("failed to analyze channel: %w", err)
	}
	metrics.Score = report.Analysis.Score

	weekly := &models.WeeklyReport{
		Date:     c.now(),
		Report:   report,
		Verified: summary.Verified,
		Failed:   summary.Failed,
	}

	if c.credentials != nil {
		private, err := c.privateAnalytics(ctx, report.Channel.ID)
		if err != nil {
			// The public report is still worth sending.
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("failed to load private analytics: %w", err), time.Since(startTime))
			}
			log.Warn().Err(err).Msg("Failed to load private analytics")
		} else {
			weekly.Private = private
			metrics.Private = true
		}
	}

	for _, action := range c.tracker.Actions(report.Channel.ID) {
		weekly.Actions = append(weekly.Actions, models.ActionProgress{
			Action: action,
			Impact: c.tracker.Impact(action.ID, report.Channel.Statistics),
		})
	}

	if c.emailSender != nil {
		log.Info().Msg("Sending channel report...")
		if err := c.emailSender.SendReport(weekly); err != nil {
			if events != nil && events.OnCriticalFailure != nil {
				events.OnCriticalFailure(fmt.Errorf("failed to send email report: %w", err), time.Since(startTime))
			}
			return fmt.Errorf("failed to send email report: %w", err)
		}
		metrics.EmailSent = true
	} else {
		log.Info().Msg("Email not configured, skipping report")
	}

	duration := time.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Info().Msgf("Coaching run complete: %s", metrics.GetSummary())
	return nil
}

func (c *CoachAgent) privateAnalytics(ctx context.Context, channelID string) (*models.PrivateChannelData, error) {
	token, err := c.credentials.AccessToken()
	if err != nil {
		return nil, err
	}
	return c.dashboard.ChannelAnalytics(ctx, token, channelID)
}
