package background

import (
	"context"
	"time"

	"stroymart/internal/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// JobScheduler runs the periodic background work: debtor reminder sweeps
// and category tree cache refreshes.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	debtorSvc  services.DebtorService
	catalogSvc services.CatalogService
	logger     *zap.Logger
}

func NewJobScheduler(debtorSvc services.DebtorService, catalogSvc services.CatalogService, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		debtorSvc:  debtorSvc,
		catalogSvc: catalogSvc,
		logger:     logger,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.remindDueDebtors),
		gocron.WithName("debtor-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.refreshCategoryTree),
		gocron.WithName("category-tree-refresh"),
	)
	return err
}

func (js *JobScheduler) remindDueDebtors() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sent, err := js.debtorSvc.RemindDue(ctx)
	if err != nil {
		js.logger.Error("debtor reminder sweep failed", zap.Error(err))
		return
	}
	if sent > 0 {
		js.logger.Info("debtor reminders sent", zap.Int("count", sent))
	}
}

func (js *JobScheduler) refreshCategoryTree() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := js.catalogSvc.CategoryTree(ctx); err != nil {
		js.logger.Warn("category tree refresh failed", zap.Error(err))
	}
}
