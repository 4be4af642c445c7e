package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/lucaspaiva/bazario-backend/internal/orders"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
	"github.com/lucaspaiva/bazario-backend/pkg/metrics"
)

const autoConfirmJobName = "delivery-auto-confirm"

type deliverySweeper interface {
	AutoConfirmSweep(ctx context.Context, now time.Time) (*orders.SweepResult, error)
}

// AutoConfirmJobParams configure the stale-delivery sweep job.
type AutoConfirmJobParams struct {
	Logger  *logger.Logger
	Orders  deliverySweeper
	Metrics *metrics.CronJobMetrics
}

// NewAutoConfirmJob builds the job that finalizes out-for-delivery orders the
// buyer never responded to.
func NewAutoConfirmJob(params AutoConfirmJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &autoConfirmJob{
		logg:    params.Logger,
		orders:  params.Orders,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type autoConfirmJob struct {
	logg    *logger.Logger
	orders  deliverySweeper
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *autoConfirmJob) Name() string { return autoConfirmJobName }

func (j *autoConfirmJob) Run(ctx context.Context) error {
	result, err := j.orders.AutoConfirmSweep(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("auto-confirm sweep: %w", err)
	}

	if j.metrics != nil {
		j.metrics.AddProcessed(autoConfirmJobName, result.Confirmed)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":   result.Scanned,
		"confirmed": result.Confirmed,
		"failed":    len(result.FailedIDs),
	})
	j.logg.Info(logCtx, "delivery auto-confirm sweep complete")
	return nil
}
