package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// UpdateSource produces inbound events; in production this is *Client.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// Poller drives the long-poll loop. Each update is handled in its own
// goroutine, so a slow lookup never blocks the next poll; overlapping
// invocations are the store's problem to serialize.
type Poller struct {
	source      UpdateSource
	handler     *Handler
	logger      *slog.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
}

func NewPoller(source UpdateSource, handler *Handler, logger *slog.Logger) *Poller {
	return &Poller{
		source:      source,
		handler:     handler,
		logger:      logger,
		pollTimeout: 30 * time.Second,
		retryDelay:  3 * time.Second,
	}
}

// Run polls until the context is canceled. Poll failures back off briefly and
// continue; only cancellation stops the loop.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := p.source.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("poll failed, retrying", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go p.handler.HandleUpdate(ctx, update)
		}
	}
}
