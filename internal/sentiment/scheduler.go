package sentiment

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher son los ciclos de refresco que el scheduler dispara.
type Refresher interface {
	RefreshMarket(ctx context.Context) error
	RefreshAllIndustries(ctx context.Context) error
}

// Scheduler dispara los dos ciclos de refresco a intervalo fijo, sin jitter y
// sin recuperar ticks perdidos: si el proceso estuvo caido, el ciclo perdido
// simplemente se salta. Guarda en memoria la ultima corrida exitosa por tarea.
type Scheduler struct {
	logger   *zap.Logger
	jobs     Refresher
	interval time.Duration

	mu      sync.Mutex
	lastRun map[string]time.Time
}

const (
	taskMarket     = "market"
	taskIndustries = "industries"
)

func NewScheduler(logger *zap.Logger, jobs Refresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		logger:   logger,
		jobs:     jobs,
		interval: interval,
		lastRun:  make(map[string]time.Time),
	}
}

// Start lanza las dos tareas en background. Cada una corre inmediatamente y
// despues en cada tick hasta que el contexto se cancele.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, taskMarket, s.jobs.RefreshMarket)
	go s.loop(ctx, taskIndustries, s.jobs.RefreshAllIndustries)
}

func (s *Scheduler) loop(ctx context.Context, task string, run func(context.Context) error) {
	s.runOnce(ctx, task, run)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, task, run)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task string, run func(context.Context) error) {
	start := time.Now()
	err := run(ctx)
	elapsed := time.Since(start)

	cycleDuration.WithLabelValues(task).Observe(elapsed.Seconds())

	if err != nil {
		cycleTotal.WithLabelValues(task, "error").Inc()
		// Sin reintento en esta capa: el proximo tick vuelve a intentar.
		s.logger.Error("sentiment refresh failed",
			zap.String("task", task),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}

	cycleTotal.WithLabelValues(task, "success").Inc()
	s.mu.Lock()
	s.lastRun[task] = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("sentiment refresh finished",
		zap.String("task", task),
		zap.Duration("elapsed", elapsed),
	)
}

// LastSuccessfulRun devuelve cuando termino bien la tarea por ultima vez;
// cero si todavia no corrio.
func (s *Scheduler) LastSuccessfulRun(task string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun[task]
}
