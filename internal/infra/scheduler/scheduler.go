package scheduler

import (
	"context"
	"fmt"
	"time"

	"tide_notification_bot/internal/app"
	"tide_notification_bot/internal/domain/chat"
	"tide_notification_bot/internal/domain/ledger"
	"tide_notification_bot/internal/domain/tide"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SessionSweeper drops idle menu sessions.
type SessionSweeper interface {
	SweepExpired() int
}

// DailyReport configures the optional scheduled county broadcast.
type DailyReport struct {
	CronSpec  string
	County    string
	ChannelID string
}

// Specs holds the cron expressions of the housekeeping jobs.
type Specs struct {
	SessionSweep string
	LedgerPrune  string
	Daily        *DailyReport // nil disables the broadcast
}

type TideScheduler struct {
	cronEngine *cron.Cron
	sessions   SessionSweeper
	ledgerRepo ledger.Repository
	reporter   app.CountyReporter
	client     chat.Client
	logger     *logrus.Entry
	specs      Specs
	now        func() time.Time
}

func NewTideScheduler(
	sessions SessionSweeper,
	ledgerRepo ledger.Repository,
	reporter app.CountyReporter,
	client chat.Client,
	logger *logrus.Entry,
	specs Specs,
) *TideScheduler {
	return &TideScheduler{
		cronEngine: cron.New(cron.WithLocation(tide.Taipei)), // Jobs follow the Taiwan calendar
		sessions:   sessions,
		ledgerRepo: ledgerRepo,
		reporter:   reporter,
		client:     client,
		logger:     logger,
		specs:      specs,
		now:        time.Now,
	}
}

// Start registers the jobs and starts the cron engine.
func (s *TideScheduler) Start() error {
	s.logger.Info("Starting tide scheduler...")

	if _, err := s.cronEngine.AddFunc(s.specs.SessionSweep, s.sweepSessions); err != nil {
		return fmt.Errorf("could not add session sweep job: %w", err)
	}

	if _, err := s.cronEngine.AddFunc(s.specs.LedgerPrune, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		s.pruneLedger(ctx)
	}); err != nil {
		return fmt.Errorf("could not add ledger prune job: %w", err)
	}

	if d := s.specs.Daily; d != nil {
		if _, err := s.cronEngine.AddFunc(d.CronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute) // A county can take many lookups
			defer cancel()
			s.sendDailyReport(ctx, *d)
		}); err != nil {
			return fmt.Errorf("could not add daily report job: %w", err)
		}
	}

	s.cronEngine.Start()
	s.logger.WithField("jobs", len(s.cronEngine.Entries())).Info("Tide scheduler started")
	return nil
}

func (s *TideScheduler) sweepSessions() {
	if removed := s.sessions.SweepExpired(); removed > 0 {
		s.logger.WithField("removed", removed).Debug("Expired selection sessions swept")
	}
}

// pruneLedger removes entries older than today; they can no longer suppress a notification.
func (s *TideScheduler) pruneLedger(ctx context.Context) {
	today := tide.Today(s.now())
	removed, err := s.ledgerRepo.PruneBefore(ctx, today)
	if err != nil {
		s.logger.WithError(err).Error("Failed to prune notification ledger")
		return
	}
	s.logger.WithFields(logrus.Fields{"removed": removed, "before": today}).Info("Notification ledger pruned")
}

func (s *TideScheduler) sendDailyReport(ctx context.Context, d DailyReport) {
	log := s.logger.WithFields(logrus.Fields{"county": d.County, "channel_id": d.ChannelID})

	report, err := s.reporter.CountyReport(ctx, d.County)
	if err != nil {
		log.WithError(err).Error("Failed to build scheduled county report")
		return
	}
	if err := s.client.SendReportToChannel(ctx, d.ChannelID, report); err != nil {
		log.WithError(err).Error("Failed to send scheduled county report")
		return
	}
	log.Info("Scheduled county report sent")
}

func (s *TideScheduler) Stop() {
	s.logger.Info("Stopping tide scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Tide scheduler gracefully stopped")
}
