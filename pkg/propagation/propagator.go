package propagation

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-nodegraph/pkg/algorithms"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/metrics"
)

// ErrFlushInProgress is returned by a Flush issued from inside an update hook.
var ErrFlushInProgress = errors.New("flush already in progress")

// Hook recomputes a node's derived state. It is invoked at most once per
// node per flush.
type Hook func(n *graph.Node) error

// Propagator tracks the dirty set of a graph and drives update hooks over it.
// Like the graph it serves, it is driven from a single goroutine.
type Propagator struct {
	g       *graph.Graph
	hook    Hook
	logger  logging.Logger
	metrics *metrics.Registry

	dirty map[string]struct{}
	order []string // discovery order of dirty

	flushing bool
	deferred int
	warnAt   int
	stats    Stats
}

// Stats are cumulative counters over the propagator's lifetime.
type Stats struct {
	Flushes  int
	Updates  int
	Failures int
	Cycles   int
	Deferred int
}

// Option configures a Propagator.
type Option func(*Propagator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Propagator) { p.logger = logging.OrNop(l) }
}

// WithMetrics records flushes, cycles and deferrals in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(p *Propagator) { p.metrics = reg }
}

// WithMaxDirtyWarn logs a warning when a flush starts with more than n
// dirty nodes. Zero disables the warning.
func WithMaxDirtyWarn(n int) Option {
	return func(p *Propagator) { p.warnAt = n }
}

// New creates a propagator over g. A nil hook makes Flush a pure
// bookkeeping pass that still reports the nodes it would have updated.
func New(g *graph.Graph, hook Hook, opts ...Option) *Propagator {
	p := &Propagator{
		g:      g,
		hook:   hook,
		logger: logging.NewNopLogger(),
		dirty:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logging.Component("propagation"))
	return p
}

// MarkDirty adds id and every node downstream of it to the dirty set.
// Nodes already dirty are not expanded again. A node met while it is still
// on the current expansion path means the graph has a cycle; that edge is
// skipped and the event is logged and counted, never returned.
func (p *Propagator) MarkDirty(id string) error {
	if !p.g.Contains(p.nodeOrNil(id)) {
		return graph.NodeNotFoundError("MarkDirty", id)
	}
	before := len(p.order)
	p.expand(id, make(map[string]bool))

	if added := len(p.order) - before; p.flushing && added > 0 {
		p.deferred += added
	}
	p.recordPending()
	return nil
}

func (p *Propagator) nodeOrNil(id string) *graph.Node {
	n, _ := p.g.Node(id)
	return n
}

func (p *Propagator) expand(id string, onPath map[string]bool) {
	if _, seen := p.dirty[id]; seen {
		return
	}
	p.dirty[id] = struct{}{}
	p.order = append(p.order, id)

	onPath[id] = true
	for _, next := range p.g.Successors(id) {
		if onPath[next] {
			p.cycle(id, next)
			continue
		}
		p.expand(next, onPath)
	}
	delete(onPath, id)
}

func (p *Propagator) cycle(from, to string) {
	p.stats.Cycles++
	if p.metrics != nil {
		p.metrics.RecordCycle()
	}
	err := graph.NewError("MarkDirty").Node(to).
		Cause(fmt.Errorf("%w: edge from %s", graph.ErrCycleDetected, from)).Err()
	p.logger.Warn("cycle in dirty expansion", logging.NodeID(from), logging.PeerID(to), logging.Error(err))
}

// IsDirty reports whether id awaits the next flush.
func (p *Propagator) IsDirty(id string) bool {
	_, ok := p.dirty[id]
	return ok
}

// Pending returns the dirty node ids in discovery order.
func (p *Propagator) Pending() []string {
	return append([]string(nil), p.order...)
}

// Len returns the size of the dirty set.
func (p *Propagator) Len() int { return len(p.order) }

// Forget drops id from the dirty set, for nodes removed before a flush.
func (p *Propagator) Forget(id string) {
	if _, ok := p.dirty[id]; !ok {
		return
	}
	delete(p.dirty, id)
	for i, d := range p.order {
		if d == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.recordPending()
}

// Reset clears the dirty set without running hooks.
func (p *Propagator) Reset() {
	p.dirty = make(map[string]struct{})
	p.order = nil
	p.recordPending()
}

// Stats returns the cumulative counters.
func (p *Propagator) Stats() Stats { return p.stats }

func (p *Propagator) recordPending() {
	if p.metrics != nil {
		p.metrics.SetPending(len(p.order))
	}
}

// FlushResult reports what one flush did.
type FlushResult struct {
	// Updated lists nodes whose hook completed, in invocation order.
	Updated []string
	// Failed maps nodes whose hook returned an error or panicked to that error.
	Failed map[string]error
	// Cyclic lists dirty nodes on a cycle. Members of one cycle run in
	// discovery order; everything else still runs parents first.
	Cyclic []string
	// Deferred counts nodes dirtied by hooks and left for the next flush.
	Deferred int
	Duration time.Duration
}

// Flush invokes the hook once for every node dirty at the start of the
// call, parents before children within the dirty subgraph, then clears
// them. Nodes dirtied by hooks during the flush stay pending for the next
// one. Hook failures are logged and collected in the result; they never
// stop the flush.
func (p *Propagator) Flush() (FlushResult, error) {
	if p.flushing {
		return FlushResult{}, ErrFlushInProgress
	}
	p.flushing = true
	p.deferred = 0
	defer func() { p.flushing = false }()

	start := time.Now()
	batch := p.order
	p.dirty = make(map[string]struct{})
	p.order = nil

	// nodes removed since they were marked are dropped
	live := make([]string, 0, len(batch))
	for _, id := range batch {
		if _, ok := p.g.Node(id); ok {
			live = append(live, id)
		}
	}
	if p.warnAt > 0 && len(live) > p.warnAt {
		p.logger.Warn("large dirty set", logging.Count(len(live)), logging.Int("threshold", p.warnAt))
	}

	order, cyclic := algorithms.CondensedOrder(live, p.g.Successors)
	res := FlushResult{Cyclic: cyclic, Failed: make(map[string]error)}

	for _, id := range order {
		n, ok := p.g.Node(id)
		if !ok {
			// removed by an earlier hook in this flush
			continue
		}
		if err := p.invoke(n); err != nil {
			res.Failed[id] = err
			p.logger.Error("update hook failed", logging.NodeID(id), logging.Kind(n.Kind), logging.Error(err))
			continue
		}
		res.Updated = append(res.Updated, id)
	}

	res.Deferred = p.deferred
	res.Duration = time.Since(start)

	p.stats.Flushes++
	p.stats.Updates += len(res.Updated)
	p.stats.Failures += len(res.Failed)
	p.stats.Deferred += res.Deferred
	if p.metrics != nil {
		p.metrics.RecordFlush(len(live), len(res.Updated), len(res.Failed), res.Duration)
		p.metrics.RecordDeferred(res.Deferred)
	}
	p.recordPending()

	p.logger.Debug("flush complete",
		logging.Count(len(res.Updated)),
		logging.Int("failed", len(res.Failed)),
		logging.Int("deferred", res.Deferred),
		logging.Latency(res.Duration))
	return res, nil
}

func (p *Propagator) invoke(n *graph.Node) (err error) {
	if p.hook == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update hook panicked: %v", r)
		}
	}()
	return p.hook(n)
}
