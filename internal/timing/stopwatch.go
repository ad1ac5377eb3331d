// Package timing measures wall-clock time around blocks of work.
package timing

import (
	"sync"
	"time"
)

// Stopwatch accumulates elapsed time between Start and Stop calls. The zero
// value is a stopped watch with no elapsed time. It is safe for concurrent use.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

// StartNew returns a running stopwatch.
func StartNew() *Stopwatch {
	sw := &Stopwatch{}
	sw.Start()
	return sw
}

// Start begins or resumes measuring. Calling Start on a running watch is a no-op.
func (sw *Stopwatch) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running {
		return
	}
	sw.started = sw.clock()
	sw.running = true
}

// Stop freezes the elapsed time. Calling Stop on a stopped watch is a no-op.
func (sw *Stopwatch) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if !sw.running {
		return
	}
	sw.elapsed += sw.clock().Sub(sw.started)
	sw.running = false
}

// Elapsed returns the total measured time, including the current interval if
// the watch is running.
func (sw *Stopwatch) Elapsed() time.Duration {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running {
		return sw.elapsed + sw.clock().Sub(sw.started)
	}
	return sw.elapsed
}

// ElapsedMilliseconds returns Elapsed in whole milliseconds.
func (sw *Stopwatch) ElapsedMilliseconds() int64 {
	return sw.Elapsed().Milliseconds()
}

func (sw *Stopwatch) clock() time.Time {
	if sw.now != nil {
		return sw.now()
	}
	return time.Now()
}
