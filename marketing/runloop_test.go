package marketing

import (
	"testing"
)

func TestRunLoop_ExecutesInOrder(t *testing.T) {
	loop := newRunLoop(0)
	loop.start()
	defer loop.stop()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		loop.dispatch(func() { got = append(got, i) })
	}
	loop.drain()

	if len(got) != 10 {
		t.Fatalf("executed %d tasks, want 10", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d (out of order)", i, v, i)
		}
	}
}

func TestRunLoop_StopRunsQueuedTasks(t *testing.T) {
	loop := newRunLoop(16)

	ran := 0
	for i := 0; i < 5; i++ {
		loop.dispatch(func() { ran++ })
	}
	// The loop goroutine starts only now, so all five are still queued.
	loop.start()
	loop.stop()

	if ran != 5 {
		t.Errorf("ran = %d, want 5", ran)
	}
}

func TestRunLoop_DispatchAfterStop(t *testing.T) {
	loop := newRunLoop(0)
	loop.start()
	loop.stop()

	if loop.dispatch(func() {}) {
		t.Error("dispatch after stop returned true")
	}
	if got := loop.dropped.Load(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestRunLoop_OverflowDrops(t *testing.T) {
	loop := newRunLoop(1)
	loop.start()
	defer loop.stop()

	entered := make(chan struct{})
	release := make(chan struct{})
	loop.dispatch(func() {
		close(entered)
		<-release
	})
	<-entered // the loop goroutine is now busy

	if !loop.dispatch(func() {}) {
		t.Fatal("dispatch into free buffer slot failed")
	}
	if loop.dispatch(func() {}) {
		t.Error("dispatch into full queue returned true")
	}
	if got := loop.dropped.Load(); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}

	close(release)
	loop.drain()
}

func TestRunLoop_DrainWaitsForPriorTasks(t *testing.T) {
	loop := newRunLoop(0)
	loop.start()
	defer loop.stop()

	done := false
	loop.dispatch(func() { done = true })
	loop.drain()

	if !done {
		t.Error("drain returned before queued task ran")
	}
}
