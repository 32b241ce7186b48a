package editor

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/metrics"
	"github.com/dd0wney/cluso-nodegraph/pkg/propagation"
	"github.com/dd0wney/cluso-nodegraph/pkg/pubsub"
)

// Session is the mutation surface an editor UI drives. Every operation
// completes its structural change before marking nodes dirty, and nothing
// is recomputed until Update. A Session is not safe for concurrent use;
// subscribers may read events from other goroutines.
type Session struct {
	g       *graph.Graph
	prop    *propagation.Propagator
	bus     *pubsub.PubSub
	ownsBus bool
	metrics *metrics.Registry
	logger  logging.Logger

	compress     bool
	maxDirtyWarn int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(l) }
}

// WithMetrics records operations, graph size and propagation in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Session) { s.metrics = reg }
}

// WithBus publishes events on an existing bus instead of a private one.
func WithBus(bus *pubsub.PubSub) Option {
	return func(s *Session) { s.bus = bus }
}

// WithClipboardCompression makes Copy emit snappy-compressed payloads.
func WithClipboardCompression(on bool) Option {
	return func(s *Session) { s.compress = on }
}

// WithMaxDirtyWarn forwards to propagation.WithMaxDirtyWarn.
func WithMaxDirtyWarn(n int) Option {
	return func(s *Session) { s.maxDirtyWarn = n }
}

// New creates a session editing g. hook recomputes a node; it may be nil
// when the caller only needs notifications.
func New(g *graph.Graph, hook propagation.Hook, opts ...Option) *Session {
	s := &Session{
		g:      g,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = pubsub.NewPubSub()
		s.ownsBus = true
	}
	s.logger = s.logger.With(logging.Component("editor"))

	popts := []propagation.Option{
		propagation.WithLogger(s.logger),
		propagation.WithMaxDirtyWarn(s.maxDirtyWarn),
	}
	if s.metrics != nil {
		popts = append(popts, propagation.WithMetrics(s.metrics))
	}
	s.prop = propagation.New(g, hook, popts...)
	s.refreshGauges()
	return s
}

// Graph returns the edited graph.
func (s *Session) Graph() *graph.Graph { return s.g }

// Propagator returns the session's dirty tracker.
func (s *Session) Propagator() *propagation.Propagator { return s.prop }

// Subscribe streams session events on topic until ctx ends.
func (s *Session) Subscribe(ctx context.Context, topic pubsub.Topic) (*pubsub.Subscription, error) {
	return s.bus.Subscribe(ctx, topic)
}

// Close shuts down the session's private event bus. A bus passed with
// WithBus is left to its owner.
func (s *Session) Close() {
	if s.ownsBus {
		s.bus.Shutdown()
	}
}

// Update flushes the dirty set, running each pending node's hook once, and
// publishes a TopicNodeUpdated event per node.
func (s *Session) Update() (propagation.FlushResult, error) {
	res, err := s.prop.Flush()
	if err != nil {
		return res, err
	}
	for _, id := range res.Updated {
		s.bus.Publish(pubsub.Event{Topic: pubsub.TopicNodeUpdated, Operation: "update", NodeID: id})
	}
	for id, herr := range res.Failed {
		s.bus.Publish(pubsub.Event{Topic: pubsub.TopicNodeUpdated, Operation: "update", NodeID: id, Err: herr})
	}
	return res, nil
}

// markDirty marks each id; ids no longer in the graph are skipped.
func (s *Session) markDirty(ids ...string) {
	for _, id := range ids {
		if _, ok := s.g.Node(id); !ok {
			continue
		}
		// MarkDirty only fails for unknown ids, checked above
		_ = s.prop.MarkDirty(id)
	}
}

func (s *Session) changed(ev pubsub.Event) {
	ev.Topic = pubsub.TopicGraphChanged
	s.bus.Publish(ev)
}

// finish records an operation's outcome in metrics and logs.
func (s *Session) finish(op string, start time.Time, err error, fields ...logging.Field) error {
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordOperation(op, err, elapsed)
	}
	fields = append(fields, logging.Operation(op), logging.Latency(elapsed))
	if err != nil {
		s.logger.Debug("operation rejected", append(fields, logging.Error(err))...)
		return err
	}
	s.logger.Debug("operation applied", fields...)
	s.refreshGauges()
	return nil
}

func (s *Session) refreshGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.UpdateGraphMetrics(s.g.Len(), len(s.g.Connections()), len(s.g.Groups()))
}
