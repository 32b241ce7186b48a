package pubsub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Channel():
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
		return Event{}
	}
}

// TestBasicPubSub tests basic publish/subscribe functionality
func TestBasicPubSub(t *testing.T) {
	ps := NewPubSub()
	defer ps.Shutdown()

	sub, err := ps.Subscribe(context.Background(), TopicNodeUpdated)
	require.NoError(t, err)
	assert.Equal(t, TopicNodeUpdated, sub.Topic())

	ps.Publish(Event{Topic: TopicNodeUpdated, NodeID: "n1", Operation: "flush"})

	ev := receive(t, sub)
	assert.Equal(t, "n1", ev.NodeID)
	assert.False(t, ev.Time.IsZero(), "publish stamps the event")

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Zero(t, ps.GetSubscriberCount(TopicNodeUpdated))
}

// TestMultipleSubscribers tests multiple subscribers to the same topic
func TestMultipleSubscribers(t *testing.T) {
	ps := NewPubSub()
	defer ps.Shutdown()

	const numSubscribers = 5
	subs := make([]*Subscription, numSubscribers)
	for i := range subs {
		sub, err := ps.Subscribe(context.Background(), TopicGraphChanged)
		require.NoError(t, err)
		subs[i] = sub
	}
	assert.Equal(t, numSubscribers, ps.GetSubscriberCount(TopicGraphChanged))

	ps.Publish(Event{Topic: TopicGraphChanged, Operation: "connect"})

	for _, sub := range subs {
		assert.Equal(t, "connect", receive(t, sub).Operation)
	}
}

func TestTopicIsolation(t *testing.T) {
	ps := NewPubSub()
	defer ps.Shutdown()

	sub, err := ps.Subscribe(context.Background(), TopicGraphChanged)
	require.NoError(t, err)

	ps.Publish(Event{Topic: TopicNodeUpdated, NodeID: "other"})
	ps.Publish(Event{Topic: TopicGraphChanged, NodeID: "mine"})

	assert.Equal(t, "mine", receive(t, sub).NodeID)
}

func TestContextCancellationUnsubscribes(t *testing.T) {
	ps := NewPubSub()
	defer ps.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := ps.Subscribe(ctx, TopicNodeUpdated)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-sub.Channel():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancellation")
	}
	assert.Eventually(t, func() bool {
		return ps.GetSubscriberCount(TopicNodeUpdated) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestFullBufferDrops(t *testing.T) {
	ps := NewPubSubWithBuffer(1)
	defer ps.Shutdown()

	sub, err := ps.Subscribe(context.Background(), TopicNodeUpdated)
	require.NoError(t, err)

	ps.Publish(Event{Topic: TopicNodeUpdated, NodeID: "a"})
	ps.Publish(Event{Topic: TopicNodeUpdated, NodeID: "b"})

	assert.Equal(t, int64(1), ps.Dropped())
	assert.Equal(t, "a", receive(t, sub).NodeID)
}

func TestShutdown(t *testing.T) {
	ps := NewPubSub()
	sub, err := ps.Subscribe(context.Background(), TopicNodeUpdated)
	require.NoError(t, err)

	ps.Shutdown()
	ps.Shutdown()

	_, ok := <-sub.Channel()
	assert.False(t, ok)

	_, err = ps.Subscribe(context.Background(), TopicNodeUpdated)
	assert.True(t, errors.Is(err, ErrShutdown))

	// publishing after shutdown is a no-op
	ps.Publish(Event{Topic: TopicNodeUpdated})
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	ps := NewPubSub()
	defer ps.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		sub, err := ps.Subscribe(context.Background(), TopicGraphChanged)
		require.NoError(t, err)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ps.Publish(Event{Topic: TopicGraphChanged})
			}
		}()
		go func() {
			defer wg.Done()
			sub.Unsubscribe()
		}()
	}
	wg.Wait()
	assert.Zero(t, ps.GetSubscriberCount(TopicGraphChanged))
}
