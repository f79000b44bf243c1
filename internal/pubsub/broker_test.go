package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before an event arrived")
		}
		return ev
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
	return Event[T]{}
}

func TestBrokerSubscribePublish(t *testing.T) {
	t.Run("every subscriber receives the event", func(t *testing.T) {
		broker := NewBroker[int]("test")
		defer broker.Shutdown()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub1 := broker.Subscribe(ctx)
		sub2 := broker.Subscribe(ctx)

		broker.Publish(EventUpdated, 42)

		for i, sub := range []<-chan Event[int]{sub1, sub2} {
			ev := receive(t, sub)
			if ev.Type != EventUpdated || ev.Payload != 42 {
				t.Errorf("subscriber %d: got %+v, want updated/42", i, ev)
			}
		}
	})

	t.Run("cancelled context unsubscribes and closes the channel", func(t *testing.T) {
		broker := NewBroker[string]("test")
		defer broker.Shutdown()

		ctx, cancel := context.WithCancel(context.Background())
		ch := broker.Subscribe(ctx)

		if got := broker.SubscriberCount(); got != 1 {
			t.Errorf("SubscriberCount() = %d, want 1", got)
		}

		cancel()
		time.Sleep(50 * time.Millisecond)

		if got := broker.SubscriberCount(); got != 0 {
			t.Errorf("SubscriberCount() after cancel = %d, want 0", got)
		}
		if _, ok := <-ch; ok {
			t.Error("channel should be closed")
		}
	})

	t.Run("shutdown closes subscribers and ignores later publishes", func(t *testing.T) {
		broker := NewBroker[string]("test")
		ch := broker.Subscribe(context.Background())

		broker.Shutdown()
		broker.Publish(EventCreated, "late")

		if _, ok := <-ch; ok {
			t.Error("channel should be closed after shutdown")
		}
		if _, ok := <-broker.Subscribe(context.Background()); ok {
			t.Error("subscribe after shutdown should return a closed channel")
		}
	})
}

func TestBrokerReplayLast(t *testing.T) {
	t.Run("late subscriber gets the current value first", func(t *testing.T) {
		broker := NewBroker[bool]("loading", WithReplayLast[bool]())
		defer broker.Shutdown()

		broker.Publish(EventStarted, true)
		broker.Publish(EventFinished, false)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ev := receive(t, broker.Subscribe(ctx))
		if ev.Type != EventFinished || ev.Payload {
			t.Errorf("replayed %+v, want finished/false", ev)
		}
	})

	t.Run("no replay before anything is published", func(t *testing.T) {
		broker := NewBroker[bool]("loading", WithReplayLast[bool]())
		defer broker.Shutdown()

		if _, ok := broker.Last(); ok {
			t.Error("Last() should report nothing yet")
		}

		ch := broker.Subscribe(context.Background())
		select {
		case ev := <-ch:
			t.Errorf("unexpected event %+v", ev)
		case <-time.After(20 * time.Millisecond):
		}
	})

	t.Run("plain broker keeps no history", func(t *testing.T) {
		broker := NewBroker[int]("plain")
		defer broker.Shutdown()

		broker.Publish(EventCreated, 1)
		if _, ok := broker.Last(); ok {
			t.Error("Last() should be empty without replay")
		}
	})
}

func TestBrokerConcurrency(t *testing.T) {
	broker := NewBroker[int]("test")
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())

	const numSubscribers = 8
	const numPublishes = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	received := make([]int, numSubscribers)

	for i := 0; i < numSubscribers; i++ {
		ch := broker.Subscribe(ctx)
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for range ch {
				mu.Lock()
				received[idx]++
				mu.Unlock()
			}
		}(i)
	}

	var pubWg sync.WaitGroup
	for i := 0; i < numPublishes; i++ {
		pubWg.Add(1)
		go func(n int) {
			defer pubWg.Done()
			broker.Publish(EventCreated, n)
		}(i)
	}
	pubWg.Wait()
	time.Sleep(20 * time.Millisecond)

	cancel()
	wg.Wait()

	for i, count := range received {
		if count != numPublishes {
			t.Errorf("subscriber %d received %d events, want %d", i, count, numPublishes)
		}
	}
}

func TestBrokerMetrics(t *testing.T) {
	broker := NewBroker[string]("test", WithBufferSize[string](1))
	defer broker.Shutdown()

	ctx := context.Background()
	_ = broker.Subscribe(ctx)
	_ = broker.Subscribe(ctx)

	broker.Publish(EventCreated, "1")
	broker.Publish(EventCreated, "2")

	m := broker.Metrics()
	if m.Name != "test" {
		t.Errorf("Name = %q, want %q", m.Name, "test")
	}
	if m.SubscriberCount != 2 || m.SubscriberPeak != 2 {
		t.Errorf("subs = %d peak = %d, want 2/2", m.SubscriberCount, m.SubscriberPeak)
	}
	if m.PublishCount != 2 {
		t.Errorf("PublishCount = %d, want 2", m.PublishCount)
	}
	if m.DropCount != 2 {
		t.Errorf("DropCount = %d, want 2", m.DropCount)
	}
}

func TestBrokerBlockingPublish(t *testing.T) {
	broker := NewBroker[int]("test",
		WithBufferSize[int](1),
		WithDropPolicy[int](false),
	)
	defer broker.Shutdown()

	ch := broker.Subscribe(context.Background())
	broker.Publish(EventCreated, 1)

	done := make(chan struct{})
	go func() {
		broker.Publish(EventCreated, 2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("publish should block while the buffer is full")
	case <-time.After(50 * time.Millisecond):
	}

	<-ch
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Error("publish should complete once drained")
	}
}

func TestBrokerPublishAsync(t *testing.T) {
	broker := NewBroker[string]("test")
	defer broker.Shutdown()

	ch := broker.Subscribe(context.Background())
	broker.PublishAsync(EventNotified, "async")

	if ev := receive(t, ch); ev.Payload != "async" {
		t.Errorf("Payload = %q, want %q", ev.Payload, "async")
	}
}
