package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/governance"
	"github.com/cre8tar/c8r/pkg/logging"
)

// Finalizer periodically persists the derived status of proposals
// whose voting window has closed.
type Finalizer struct {
	engine    *governance.Engine
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

// NewFinalizer creates a finalizer running at the given interval.
func NewFinalizer(engine *governance.Engine, interval time.Duration) (*Finalizer, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	f := &Finalizer{
		engine:    engine,
		scheduler: scheduler,
		logger:    logging.WithComponent("proposal-finalizer"),
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(f.run),
	)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Start begins running the finalizer job.
func (f *Finalizer) Start() {
	f.scheduler.Start()
	f.logger.Info("Proposal finalizer started")
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (f *Finalizer) Stop() error {
	return f.scheduler.Shutdown()
}

func (f *Finalizer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	finalized, err := f.engine.FinalizeExpired(ctx)
	if err != nil {
		f.logger.Error("Failed to finalize proposals", zap.Error(err))
		return
	}
	if finalized > 0 {
		f.logger.Info("Finalized proposals", zap.Int("count", finalized))
	}
}
