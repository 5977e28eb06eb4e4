package twin

import (
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// deduper drops events whose idempotency key was already seen inside a
// sliding window. Two bloom filters rotate every window/2: keys are
// added to current, lookups test current and previous, so every key
// stays visible for at least one full window.
type deduper struct {
	mu       sync.RWMutex
	current  *bloom.BloomFilter
	previous *bloom.BloomFilter
	window   time.Duration
	capacity uint
	fpRate   float64

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func newDeduper(cfg DedupConfig) *deduper {
	return &deduper{
		current:  bloom.NewWithEstimates(cfg.Capacity, cfg.FPRate),
		previous: bloom.NewWithEstimates(cfg.Capacity, cfg.FPRate),
		window:   cfg.Window,
		capacity: cfg.Capacity,
		fpRate:   cfg.FPRate,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// isDuplicate reports whether key was seen within the window, recording
// it when it was not. Safe for concurrent use.
func (d *deduper) isDuplicate(key string) bool {
	data := []byte(key)

	d.mu.RLock()
	if d.current.Test(data) || d.previous.Test(data) {
		d.mu.RUnlock()
		return true
	}
	d.mu.RUnlock()

	d.mu.Lock()
	// Re-test after upgrading the lock; another goroutine may have
	// added the same key in between.
	if d.current.Test(data) || d.previous.Test(data) {
		d.mu.Unlock()
		return true
	}
	d.current.Add(data)
	d.mu.Unlock()

	return false
}

func (d *deduper) rotate() {
	d.mu.Lock()
	d.previous = d.current
	d.current = bloom.NewWithEstimates(d.capacity, d.fpRate)
	d.mu.Unlock()
}

// reset forgets every seen key immediately.
func (d *deduper) reset() {
	d.mu.Lock()
	d.current = bloom.NewWithEstimates(d.capacity, d.fpRate)
	d.previous = bloom.NewWithEstimates(d.capacity, d.fpRate)
	d.mu.Unlock()
}

// start launches the rotation loop.
func (d *deduper) start() {
	go func() {
		defer close(d.doneCh)

		ticker := time.NewTicker(d.window / 2)
		defer ticker.Stop()

		for {
			select {
			case <-d.stopCh:
				return
			case <-ticker.C:
				d.rotate()
			}
		}
	}()
}

// stop ends the rotation loop. Safe to call more than once.
func (d *deduper) stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	<-d.doneCh
}
