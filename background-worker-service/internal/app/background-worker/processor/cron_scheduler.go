package processor

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"staybnb/background-worker-service/internal/app/background-worker/service"
	"staybnb/pkg/logger"
)

// CronScheduler запускает проход жизненного цикла бронирований по расписанию
type CronScheduler struct {
	cron         *cron.Cron
	lifecycleSvc service.LifecycleServiceInterface
}

func NewCronScheduler(lifecycleSvc service.LifecycleServiceInterface) *CronScheduler {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cron.PrintfLogger(logger.NewPrintfLogger(zerolog.DebugLevel))),
		// следующий проход не стартует, пока не закончен предыдущий
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &CronScheduler{
		cron:         c,
		lifecycleSvc: lifecycleSvc,
	}
}

// Start регистрирует задачу и сразу выполняет первый проход
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.run(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Cron scheduler started")

	s.run(ctx)
	return nil
}

func (s *CronScheduler) run(ctx context.Context) {
	if _, err := s.lifecycleSvc.CompleteFinishedBookings(ctx); err != nil {
		logger.Error().Err(err).Msg("Booking lifecycle job failed")
	}
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
