package reaper

import (
	"context"
	"time"

	"github.com/fekuna/stockflow-service/internal/logger"
	"go.uber.org/zap"
)

type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionReaper periodically deletes expired sessions. Expired sessions are
// already rejected at validation time, so this only reclaims storage.
type SessionReaper struct {
	purger   Purger
	interval time.Duration
	logger   logger.ZapLogger
}

func NewSessionReaper(p Purger, interval time.Duration, log logger.ZapLogger) *SessionReaper {
	return &SessionReaper{
		purger:   p,
		interval: interval,
		logger:   log,
	}
}

// Start blocks until ctx is cancelled.
func (r *SessionReaper) Start(ctx context.Context) {
	r.logger.Info("Starting session reaper", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping session reaper")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *SessionReaper) runOnce(ctx context.Context) {
	n, err := r.purger.PurgeExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("Failed to purge expired sessions", zap.Error(err))
		return
	}
	if n > 0 {
		r.logger.Info("Purged expired sessions", zap.Int64("count", n))
	}
}
