package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scriptedSource plays back one batch of updates, then cancels the poll loop.
type scriptedSource struct {
	mu      sync.Mutex
	batches [][]Update
	errs    []error
	offsets []int64
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(_ context.Context, offset int64, _ time.Duration) ([]Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets = append(s.offsets, offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, context.Canceled
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	var err error
	if len(s.errs) > 0 {
		err = s.errs[0]
		s.errs = s.errs[1:]
	}
	return batch, err
}

func TestPollerAdvancesOffsetPastHighestUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &scriptedSource{
		batches: [][]Update{{
			{UpdateID: 5},
			{UpdateID: 9},
			{UpdateID: 7},
		}},
		cancel: cancel,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := newTestHandler(&fakeService{}, &fakeReplier{}, fakeGate{member: true})
	p := NewPoller(source, handler, logger)

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// First poll starts at zero, second resumes past the highest seen id.
	assert.Equal(t, []int64{0, 10}, source.offsets)
}

func TestPollerRetriesAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &scriptedSource{
		batches: [][]Update{nil},
		errs:    []error{errors.New("gateway timeout")},
		cancel:  cancel,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := newTestHandler(&fakeService{}, &fakeReplier{}, fakeGate{member: true})
	p := NewPoller(source, handler, logger)
	p.retryDelay = time.Millisecond

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{0, 0}, source.offsets, "failed poll does not advance the offset")
}
