package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/config"
	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

const publishTimeout = 2 * time.Minute

// Publisher produces and delivers a capacity report.
type Publisher interface {
	Publish(ctx context.Context) (*models.CapacityReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	publisher Publisher
	cfg       config.ReportingConfig
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, publisher Publisher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the capacity report job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.publishCapacityReport); err != nil {
		return fmt.Errorf("schedule capacity report %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) publishCapacityReport() {
	s.logger.Info("generating capacity report")
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	report, err := s.publisher.Publish(ctx)
	if report == nil {
		s.logger.Error("failed to generate capacity report", zap.Error(err))
		return
	}
	if err != nil {
		s.logger.Warn("capacity report stored but not fully delivered", zap.Error(err))
		return
	}
	s.logger.Info("capacity report published successfully",
		zap.String("utilization", report.Utilization.String()))
}
