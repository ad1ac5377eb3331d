package engine_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seantiz/asyncdemo/internal/engine"
)

func drain(ch <-chan string) []string {
	var got []string
	for l := range ch {
		got = append(got, l)
	}
	return got
}

func TestLogBrokerSingleSubscriber(t *testing.T) {
	b := engine.NewLogBroker()
	ch, unsub := b.Subscribe("r1")
	defer unsub()

	lines := []string{"line 1", "line 2", "line 3"}
	for _, l := range lines {
		b.Publish("r1", l)
	}
	b.Close("r1")

	assert.Equal(t, lines, drain(ch))
}

func TestLogBrokerMultipleSubscribers(t *testing.T) {
	b := engine.NewLogBroker()
	ch1, unsub1 := b.Subscribe("r1")
	defer unsub1()
	ch2, unsub2 := b.Subscribe("r1")
	defer unsub2()

	b.Publish("r1", "hello")
	b.Close("r1")

	assert.Equal(t, []string{"hello"}, drain(ch1))
	assert.Equal(t, []string{"hello"}, drain(ch2))
}

func TestLogBrokerLateSubscriberGetsBacklog(t *testing.T) {
	b := engine.NewLogBroker()
	b.Publish("r1", "started")
	b.Publish("r1", "halfway")

	ch, unsub := b.Subscribe("r1")
	defer unsub()
	b.Publish("r1", "finished")
	b.Close("r1")

	assert.Equal(t, []string{"started", "halfway", "finished"}, drain(ch))
}

func TestLogBrokerBacklogIsBounded(t *testing.T) {
	b := engine.NewLogBroker()
	for i := range 100 {
		b.Publish("r1", fmt.Sprintf("line %d", i))
	}

	ch, unsub := b.Subscribe("r1")
	defer unsub()
	b.Close("r1")

	got := drain(ch)
	require.Len(t, got, 32)
	assert.Equal(t, "line 68", got[0])
	assert.Equal(t, "line 99", got[31])
}

func TestLogBrokerSubscribeAfterClose(t *testing.T) {
	b := engine.NewLogBroker()
	b.Publish("r1", "gone")
	b.Close("r1")

	ch, unsub := b.Subscribe("r1")
	defer unsub()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected closed channel")
	case <-time.After(time.Second):
		t.Fatal("subscriber to a finished run blocked")
	}
}

func TestLogBrokerCloseUnknownRunLeavesMarker(t *testing.T) {
	b := engine.NewLogBroker()
	b.Close("never-started")

	ch, _ := b.Subscribe("never-started")
	_, ok := <-ch
	assert.False(t, ok)
}

func TestLogBrokerPublishAfterCloseIsNoop(t *testing.T) {
	b := engine.NewLogBroker()
	b.Close("r1")
	b.Publish("r1", "late")

	ch, _ := b.Subscribe("r1")
	assert.Empty(t, drain(ch))
}

func TestLogBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := engine.NewLogBroker()
	ch, unsub := b.Subscribe("r1")
	unsub()

	b.Publish("r1", "after unsubscribe")
	b.Close("r1")

	select {
	case l := <-ch:
		t.Fatalf("received %q after unsubscribe", l)
	default:
	}
}

func TestLogBrokerSlowSubscriberDoesNotBlock(t *testing.T) {
	b := engine.NewLogBroker()
	_, unsub := b.Subscribe("r1")
	defer unsub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 1000 {
			b.Publish("r1", fmt.Sprintf("line %d", i))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestLogBrokerConcurrentPublishers(t *testing.T) {
	b := engine.NewLogBroker()
	ch, unsub := b.Subscribe("r1")
	defer unsub()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Go(func() {
			for j := range 5 {
				b.Publish("r1", fmt.Sprintf("p%d-%d", i, j))
			}
		})
	}
	wg.Wait()
	b.Close("r1")

	assert.Len(t, drain(ch), 20)
}
