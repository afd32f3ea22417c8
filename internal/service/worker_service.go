package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RoomReconciler is the part of RoomService the worker drives.
type RoomReconciler interface {
	ReconcileAll(ctx context.Context) (int, error)
}

// WorkerService periodically heals drift between room status flags and the
// bookings they are derived from, e.g. after manual SQL edits.
type WorkerService struct {
	rooms    RoomReconciler
	interval time.Duration
	log      *zap.Logger
}

func NewWorkerService(rooms RoomReconciler, interval time.Duration, log *zap.Logger) *WorkerService {
	return &WorkerService{
		rooms:    rooms,
		interval: interval,
		log:      log,
	}
}

// Start runs until ctx is cancelled. A zero interval disables the worker.
func (w *WorkerService) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info("room status worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("room status worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("room status worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *WorkerService) runOnce(ctx context.Context) {
	changed, err := w.rooms.ReconcileAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("room status reconcile failed", zap.Error(err))
		}
		return
	}
	if changed > 0 {
		w.log.Info("room statuses reconciled", zap.Int("changed", changed))
	}
}
