package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/notnil/chess"

	"github.com/lgbarn/swapchess-go/internal/board"
	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/match"
	"github.com/lgbarn/swapchess-go/internal/testutil"
	"github.com/lgbarn/swapchess-go/internal/uci"
)

// noopProcessFunc returns a process function that plays nothing.
func noopProcessFunc() ProcessFunc {
	return func(ctx context.Context, item WorkItem) ProcessResult {
		return ProcessResult{Result: match.Result{Pairing: item.Pairing}, Index: item.Index}
	}
}

// countingProcessFunc returns a process function that increments a counter.
func countingProcessFunc(counter *int32) ProcessFunc {
	return func(ctx context.Context, item WorkItem) ProcessResult {
		atomic.AddInt32(counter, 1)
		return ProcessResult{Result: match.Result{Pairing: item.Pairing, Outcome: "1/2-1/2"}, Index: item.Index}
	}
}

// collectResults drains the result channel and returns the count.
func collectResults(pool *Pool) int {
	count := 0
	for range pool.Results() {
		count++
	}
	return count
}

func pairing(i int) match.Pairing {
	return match.Pairing{Index: i, White: config.Easy, Black: config.Hard}
}

// TestPoolBasic tests basic worker pool functionality.
func TestPoolBasic(t *testing.T) {
	var processed int32
	pool := NewPool(4, 10, countingProcessFunc(&processed))
	pool.Start()

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{Pairing: pairing(i), Index: i})
	}

	go pool.Close()

	resultCount := collectResults(pool)
	if resultCount != numItems {
		t.Errorf("results = %d; want %d", resultCount, numItems)
	}
	if got := atomic.LoadInt32(&processed); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestPoolEarlyStop tests that Stop skips queued games and cancels running ones.
func TestPoolEarlyStop(t *testing.T) {
	var processed, cancelled int32
	waitFunc := func(ctx context.Context, item WorkItem) ProcessResult {
		atomic.AddInt32(&processed, 1)
		select {
		case <-ctx.Done():
			atomic.AddInt32(&cancelled, 1)
			return ProcessResult{Index: item.Index, Error: ctx.Err()}
		case <-time.After(5 * time.Second):
			return ProcessResult{Index: item.Index}
		}
	}

	pool := NewPool(2, 100, waitFunc)
	pool.Start()

	const numItems = 20
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{Pairing: pairing(i), Index: i})
	}

	time.Sleep(20 * time.Millisecond)
	pool.Stop()

	go pool.Close()
	collectResults(pool)

	if got := atomic.LoadInt32(&processed); got >= numItems {
		t.Errorf("processed = %d; want fewer than %d after Stop", got, numItems)
	}
	if got := atomic.LoadInt32(&cancelled); got != atomic.LoadInt32(&processed) {
		t.Errorf("cancelled = %d; want every started game (%d)", got, atomic.LoadInt32(&processed))
	}
}

// TestPoolIsStopped tests the IsStopped method.
func TestPoolIsStopped(t *testing.T) {
	pool := NewPool(2, 10, noopProcessFunc())
	pool.Start()

	if pool.IsStopped() {
		t.Error("pool should not be stopped initially")
	}

	pool.Stop()

	if !pool.IsStopped() {
		t.Error("pool should be stopped after Stop()")
	}

	pool.Close()
}

// TestPoolTrySubmit tests non-blocking submission.
func TestPoolTrySubmit(t *testing.T) {
	release := make(chan struct{})
	blockingFunc := func(ctx context.Context, item WorkItem) ProcessResult {
		<-release
		return ProcessResult{Index: item.Index}
	}

	pool := NewPool(1, 2, blockingFunc)
	pool.Start()

	if !pool.TrySubmit(WorkItem{Pairing: pairing(0), Index: 0}) {
		t.Error("first TrySubmit should succeed")
	}
	if !pool.TrySubmit(WorkItem{Pairing: pairing(1), Index: 1}) {
		t.Error("second TrySubmit should succeed")
	}

	// Third might fail if buffer is full (timing-dependent, just verify no panic)
	pool.TrySubmit(WorkItem{Pairing: pairing(2), Index: 2})

	pool.Stop()
	if pool.TrySubmit(WorkItem{Pairing: pairing(3), Index: 3}) {
		t.Error("TrySubmit after Stop should return false")
	}

	close(release)
	go pool.Close()
	collectResults(pool)
}

// TestPoolNumWorkers tests NumWorkers method.
func TestPoolNumWorkers(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"valid workers", 4, 4},
		{"minimum workers", 1, 1},
		{"zero defaults to 1", 0, 1},
		{"negative defaults to 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.input, 10, noopProcessFunc())
			if got := pool.NumWorkers(); got != tt.expected {
				t.Errorf("NumWorkers() = %d; want %d", got, tt.expected)
			}
		})
	}
}

// TestPoolResultOrder tests that all results are received regardless of order.
func TestPoolResultOrder(t *testing.T) {
	variableDelayFunc := func(ctx context.Context, item WorkItem) ProcessResult {
		if item.Index%2 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		return ProcessResult{Result: match.Result{Pairing: item.Pairing}, Index: item.Index}
	}

	pool := NewPool(4, 20, variableDelayFunc)
	pool.Start()

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{Pairing: pairing(i), Index: i})
	}

	go pool.Close()

	seen := make(map[int]bool)
	for result := range pool.Results() {
		if result.Result.Pairing.Index != result.Index {
			t.Errorf("result %d carries pairing %d", result.Index, result.Result.Pairing.Index)
		}
		seen[result.Index] = true
	}

	if len(seen) != numItems {
		t.Errorf("received %d results; want %d", len(seen), numItems)
	}
	for i := 0; i < numItems; i++ {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

// TestPoolNoRace is designed to be run with -race flag.
func TestPoolNoRace(t *testing.T) {
	var counter int32
	pool := NewPool(8, 50, countingProcessFunc(&counter))
	pool.Start()

	const numItems = 100
	go func() {
		for i := 0; i < numItems; i++ {
			pool.Submit(WorkItem{Pairing: pairing(i), Index: i})
		}
		pool.Close()
	}()

	collectResults(pool)

	if got := atomic.LoadInt32(&counter); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestNewPoolWithOptions tests the functional options constructor.
func TestNewPoolWithOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc())
		if pool.NumWorkers() != 1 {
			t.Errorf("default workers = %d; want 1", pool.NumWorkers())
		}
		if pool.bufferSize != 10 {
			t.Errorf("default bufferSize = %d; want 10", pool.bufferSize)
		}
	})

	t.Run("with multiple options", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithWorkers(8), WithBufferSize(100))
		if pool.NumWorkers() != 8 {
			t.Errorf("NumWorkers() = %d; want 8", pool.NumWorkers())
		}
		if pool.bufferSize != 100 {
			t.Errorf("bufferSize = %d; want 100", pool.bufferSize)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithWorkers(0), WithBufferSize(-5))
		if pool.NumWorkers() != 1 {
			t.Errorf("NumWorkers() = %d; want 1 (default)", pool.NumWorkers())
		}
		if pool.bufferSize != 10 {
			t.Errorf("bufferSize = %d; want 10 (default)", pool.bufferSize)
		}
	})

	t.Run("parent context", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		var sawCancel int32
		pool := NewPoolWithOptions(func(ctx context.Context, item WorkItem) ProcessResult {
			<-ctx.Done()
			atomic.StoreInt32(&sawCancel, 1)
			return ProcessResult{Index: item.Index, Error: ctx.Err()}
		}, WithContext(parent))
		pool.Start()
		pool.Submit(WorkItem{Pairing: pairing(0)})
		cancel()

		go pool.Close()
		for r := range pool.Results() {
			testutil.AssertErrorIs(t, r.Error, context.Canceled)
		}
		testutil.AssertEqual(t, atomic.LoadInt32(&sawCancel), int32(1))
	})
}

func TestPlayFunc(t *testing.T) {
	factory := func(ctx context.Context, g *board.Game, color chess.Color, d config.Difficulty) (match.Player, error) {
		script := []string{"f2f3", "g2g4"}
		if color == chess.Black {
			script = []string{"e7e5", "d8h4"}
		}
		cfg := config.NewConfigBuilder().WithDifficulty(d).WithSearchOnReady(false).Build()
		return uci.New(testutil.NewFakeEngine(testutil.ScriptedMoves(script...)), g, color, cfg), nil
	}

	pool := NewPoolWithOptions(PlayFunc(factory), WithWorkers(2))
	pool.Start()
	for i := 0; i < 3; i++ {
		pool.Submit(WorkItem{Pairing: pairing(i), Index: i})
	}
	go pool.Close()

	count := 0
	for r := range pool.Results() {
		count++
		testutil.AssertNoError(t, r.Error)
		testutil.AssertEqual(t, r.Result.Outcome, "0-1")
		testutil.AssertEqual(t, r.Result.Pairing.Index, r.Index)
	}
	testutil.AssertEqual(t, count, 3)
}
