package pubsub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrShutdown is returned when subscribing to a bus that has been shut down.
var ErrShutdown = errors.New("pubsub: shut down")

// Topic names a stream of editor events.
type Topic string

const (
	// TopicNodeUpdated carries one event per node whose update hook ran.
	TopicNodeUpdated Topic = "node.updated"
	// TopicGraphChanged carries one event per applied structural or value edit.
	TopicGraphChanged Topic = "graph.changed"
)

// Event is a notification delivered to subscribers.
type Event struct {
	Topic     Topic
	Operation string
	NodeID    string
	PeerID    string
	Port      string
	Err       error
	Time      time.Time
}

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 100

// PubSub provides publish/subscribe functionality for editor notifications.
// Publishing never blocks: events for a full subscriber are dropped and
// counted.
type PubSub struct {
	subscribers map[Topic]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
	buffer      int
	dropped     atomic.Int64
}

// Subscription represents a subscription to a topic
type Subscription struct {
	topic     Topic
	channel   chan Event
	ps        *PubSub
	cancel    context.CancelFunc
	closeOnce sync.Once // Ensures channel is only closed once
}

// NewPubSub creates a new PubSub instance
func NewPubSub() *PubSub {
	return NewPubSubWithBuffer(DefaultBuffer)
}

// NewPubSubWithBuffer creates a PubSub whose subscriptions buffer n events.
func NewPubSubWithBuffer(n int) *PubSub {
	if n < 1 {
		n = 1
	}
	return &PubSub{
		subscribers: make(map[Topic]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
		buffer:      n,
	}
}

// Subscribe creates a new subscription to a topic. It ends when ctx is
// cancelled, on Unsubscribe, or on Shutdown; the channel is then closed.
func (ps *PubSub) Subscribe(ctx context.Context, topic Topic) (*Subscription, error) {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return nil, ErrShutdown
	}
	ps.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan Event, ps.buffer),
		ps:      ps,
		cancel:  cancel,
	}

	ps.mu.Lock()
	if ps.subscribers[topic] == nil {
		ps.subscribers[topic] = make(map[*Subscription]bool)
	}
	ps.subscribers[topic][sub] = true
	ps.mu.Unlock()

	// Monitor context cancellation
	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-ps.shutdown:
			cancel()
		}
	}()

	return sub, nil
}

// Publish sends an event to all subscribers of its topic. A zero Time is
// set to now.
func (ps *PubSub) Publish(ev Event) {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.shutdownMu.Unlock()

	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	// sends are non-blocking, so holding the read lock keeps them clear of
	// a concurrent close
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	for sub := range ps.subscribers[ev.Topic] {
		select {
		case sub.channel <- ev:
		default:
			ps.dropped.Add(1)
		}
	}
}

// Dropped returns how many events were discarded because a subscriber's
// buffer was full.
func (ps *PubSub) Dropped() int64 {
	return ps.dropped.Load()
}

// GetSubscriberCount returns the number of subscribers for a topic
func (ps *PubSub) GetSubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}

// Shutdown closes all subscriptions and shuts down the PubSub
func (ps *PubSub) Shutdown() {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.isShutdown = true
	ps.shutdownMu.Unlock()

	close(ps.shutdown)

	ps.mu.Lock()
	for topic := range ps.subscribers {
		for sub := range ps.subscribers[topic] {
			sub.close()
		}
		delete(ps.subscribers, topic)
	}
	ps.mu.Unlock()
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Channel returns the subscription's event channel
func (s *Subscription) Channel() <-chan Event {
	return s.channel
}

// Unsubscribe removes the subscription
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.ps.mu.Lock()
	defer s.ps.mu.Unlock()

	if s.ps.subscribers[s.topic] != nil {
		delete(s.ps.subscribers[s.topic], s)
		if len(s.ps.subscribers[s.topic]) == 0 {
			delete(s.ps.subscribers, s.topic)
		}
	}

	s.close()
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
