package engage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// batcher buffers event envelopes with size and time based flushing.
type batcher struct {
	mu        sync.Mutex
	events    []envelope
	batchSize int
	transport *httpTransport
	log       *slog.Logger
}

func newBatcher(batchSize int, transport *httpTransport, log *slog.Logger) *batcher {
	return &batcher{
		events:    make([]envelope, 0, batchSize),
		batchSize: batchSize,
		transport: transport,
		log:       log,
	}
}

// add buffers one envelope and reports whether the batch is full.
func (b *batcher) add(e envelope) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, e)
	return len(b.events) >= b.batchSize
}

// drain atomically swaps out and returns all buffered envelopes.
func (b *batcher) drain() []envelope {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}
	events := b.events
	b.events = make([]envelope, 0, b.batchSize)
	return events
}

// flush sends the buffered envelopes. Failed batches are dropped, not
// re-queued: marketing events are best effort and the buffer must stay
// bounded.
func (b *batcher) flush(ctx context.Context, apiKey string) error {
	events := b.drain()
	if len(events) == 0 {
		return nil
	}

	var resp trackResponse
	if err := b.transport.post(ctx, "/v1/sdk/track", apiKey, trackRequest{Events: events}, &resp); err != nil {
		b.log.Warn("dropping event batch after failed flush", "count", len(events), "error", err)
		return err
	}
	b.log.Debug("flushed events", "count", len(events), "accepted", resp.Accepted, "duplicates", resp.Duplicates)
	return nil
}

// flushLoop periodically flushes until ctx is canceled. apiKey is read
// through keyFn on every tick because identity can be bound after the
// loop starts.
func (b *batcher) flushLoop(ctx context.Context, interval time.Duration, keyFn func() string, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = b.flush(ctx, keyFn())
		}
	}
}
