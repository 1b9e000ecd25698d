package watchdog

import (
	"context"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/application/commands"
)

// Watchdog periodically expires overdue commands and garbage-collects
// terminal queue entries, so neither depends on devices ever fetching again.
type Watchdog interface {
	Start(ctx context.Context)
	Stop()
}

type watchdogImpl struct {
	queue     commands.CommandQueue
	interval  time.Duration
	retention time.Duration
	done      chan struct{}
}

func New(queue commands.CommandQueue, interval, retention time.Duration) Watchdog {
	return &watchdogImpl{
		queue:     queue,
		interval:  interval,
		retention: retention,
		done:      make(chan struct{}),
	}
}

func (w *watchdogImpl) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *watchdogImpl) Stop() {
	close(w.done)
}

func (w *watchdogImpl) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *watchdogImpl) sweep(ctx context.Context) {
	log := logging.GetFromContext(ctx)
	now := time.Now()

	expired, err := w.queue.ExpireOverdue(ctx, now)
	if err != nil {
		log.Error("failed to expire overdue commands", "err", err.Error())
	} else if expired > 0 {
		log.Info("expired overdue commands", "count", expired)
	}

	removed, err := w.queue.GC(ctx, w.retention, now)
	if err != nil {
		log.Error("failed to garbage collect command queue", "err", err.Error())
	} else if removed > 0 {
		log.Debug("garbage collected terminal commands", "count", removed)
	}
}
