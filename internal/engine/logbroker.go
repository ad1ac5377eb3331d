package engine

import "sync"

const (
	// subscriberBufferSize is the channel buffer for each subscriber. Lines are
	// dropped for a subscriber this far behind.
	subscriberBufferSize = 64

	// backlogSize is how many of a run's most recent lines are replayed to a
	// subscriber that joins while the run is in progress.
	backlogSize = 32
)

// LogBroker fans a run's progress lines out to live subscribers. It is safe
// for concurrent use.
//
// Finished runs leave a closed marker behind so that a subscriber arriving
// after the run ends gets a closed channel instead of waiting forever.
type LogBroker struct {
	mu     sync.Mutex
	topics map[string]*runTopic
}

type runTopic struct {
	subs    map[int]chan string
	nextID  int
	backlog []string
	closed  bool
}

// NewLogBroker creates a new log broker.
func NewLogBroker() *LogBroker {
	return &LogBroker{
		topics: make(map[string]*runTopic),
	}
}

func (b *LogBroker) topic(runID string) *runTopic {
	t, ok := b.topics[runID]
	if !ok {
		t = &runTopic{subs: make(map[int]chan string)}
		b.topics[runID] = t
	}
	return t
}

// Subscribe returns a channel of progress lines for runID, starting with the
// recent backlog, and an unsubscribe function. If the run has already
// finished the channel is closed immediately.
func (b *LogBroker) Subscribe(runID string) (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(runID)
	ch := make(chan string, subscriberBufferSize)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	for _, line := range t.backlog {
		ch <- line
	}

	id := t.nextID
	t.nextID++
	t.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(t.subs, id)
	}
}

// Publish sends a line to every subscriber of runID and records it in the
// backlog. Lines are dropped for subscribers whose buffers are full.
func (b *LogBroker) Publish(runID string, line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(runID)
	if t.closed {
		return
	}

	t.backlog = append(t.backlog, line)
	if len(t.backlog) > backlogSize {
		t.backlog = t.backlog[len(t.backlog)-backlogSize:]
	}

	for _, ch := range t.subs {
		select {
		case ch <- line:
		default:
			// Slow subscriber; the full history is in the store.
		}
	}
}

// Close signals that runID will publish no more lines. Subscriber channels
// are closed, the backlog is released and future Subscribe calls return a
// closed channel.
func (b *LogBroker) Close(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.topic(runID)
	t.closed = true
	t.backlog = nil
	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
}
