package timer

import (
	"context"
	"log/slog"
	"time"
)

// Finalizer periodically completes countdowns that ran out while no client
// was connected
type Finalizer struct {
	service  *Service
	interval time.Duration
}

// NewFinalizer creates a new finalizer worker
func NewFinalizer(service *Service, interval time.Duration) *Finalizer {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Finalizer{
		service:  service,
		interval: interval,
	}
}

// Start begins the finalizer worker in a goroutine
func (f *Finalizer) Start(ctx context.Context) {
	go f.run(ctx)
}

// run is the main loop for the finalizer worker
func (f *Finalizer) run(ctx context.Context) {
	slog.Info("timer finalizer started", "interval", f.interval)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	// Run immediately on start
	f.finalize(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("timer finalizer stopped")
			return
		case <-ticker.C:
			f.finalize(ctx)
		}
	}
}

// finalize runs one cycle
func (f *Finalizer) finalize(ctx context.Context) {
	slog.Debug("running timer finalize cycle")

	count, err := f.service.FinalizeExpired(ctx)
	if err != nil {
		slog.Error("failed to finalize expired timers", "error", err)
		return
	}

	if count == 0 {
		slog.Debug("no expired timers found")
		return
	}

	slog.Info("expired timers finalized", "count", count)
}
