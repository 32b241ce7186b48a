package graph

import (
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
)

// Graph owns an ordered set of nodes, their connections and organizational
// groups. It is not safe for concurrent mutation; an editing session drives
// it from a single goroutine.
type Graph struct {
	nodes  []*Node
	index  map[string]*Node
	groups []*Group

	// Comments are canvas annotations carried through save/load.
	Comments []Comment

	resolver Resolver
	logger   logging.Logger
	newID    func() string
}

// Option configures a Graph.
type Option func(*Graph)

// WithResolver sets the node-kind resolver used by AddNode.
func WithResolver(r Resolver) Option {
	return func(g *Graph) { g.resolver = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Graph) { g.logger = logging.OrNop(l) }
}

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(g *Graph) { g.newID = fn }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		index:  make(map[string]*Node),
		logger: logging.NewNopLogger(),
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewID returns a fresh random node identifier.
func NewID() string {
	return uuid.NewString()
}

// Resolver returns the configured node-kind resolver, or nil.
func (g *Graph) Resolver() Resolver { return g.resolver }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Contains reports whether n is a member of g.
func (g *Graph) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	member, ok := g.index[n.id]
	return ok && member == n
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// NodeIDs returns the node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.id
	}
	return ids
}

// Port resolves a port by node id, name and direction.
func (g *Graph) Port(nodeID, name string, dir Direction) (*Port, error) {
	n, ok := g.index[nodeID]
	if !ok {
		return nil, NodeNotFoundError("Port", nodeID)
	}
	p := n.Port(name, dir)
	if p == nil {
		return nil, PortNotFoundError("Port", nodeID, name, dir)
	}
	return p, nil
}

// resolve finds the peer port a connection on p refers to.
func (g *Graph) resolve(p *Port, c Connection) *Port {
	peer, ok := g.index[c.NodeID]
	if !ok {
		return nil
	}
	return peer.Port(c.PortName, p.direction.Opposite())
}

// Peer resolves a connection stored on p to the port it names, or nil when
// the connection is dangling.
func (g *Graph) Peer(p *Port, c Connection) *Port {
	return g.resolve(p, c)
}
