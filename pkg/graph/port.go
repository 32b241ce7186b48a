package graph

// Port is a named connection point on a node. It only manages its own
// connection list; keeping both sides of an edge in step is the Graph's job,
// and multiplicity is enforced by callers that orchestrate connects.
type Port struct {
	node         *Node
	name         string
	direction    Direction
	multiplicity Multiplicity
	connections  []Connection
}

func newPort(owner *Node, spec PortSpec, dir Direction) *Port {
	return &Port{
		node:         owner,
		name:         spec.Name,
		direction:    dir,
		multiplicity: spec.Multiplicity,
	}
}

// Node returns the owning node.
func (p *Port) Node() *Node { return p.node }

func (p *Port) Name() string { return p.name }

func (p *Port) Direction() Direction { return p.direction }

func (p *Port) Multiplicity() Multiplicity { return p.multiplicity }

// IsMulti reports whether the port accepts more than one connection.
func (p *Port) IsMulti() bool { return p.multiplicity == Multi }

// Spec returns the PortSpec this port was built from.
func (p *Port) Spec() PortSpec {
	return PortSpec{Name: p.name, Multiplicity: p.multiplicity}
}

// Connections returns a copy of the connection list in insertion order.
func (p *Port) Connections() []Connection {
	out := make([]Connection, len(p.connections))
	copy(out, p.connections)
	return out
}

// ConnectionCount returns the number of connections held by the port.
func (p *Port) ConnectionCount() int { return len(p.connections) }

// Connect appends a connection to (nodeID, portName) unless one exists.
func (p *Port) Connect(nodeID, portName string) {
	if p.IsConnected(nodeID, portName) {
		return
	}
	p.connections = append(p.connections, Connection{NodeID: nodeID, PortName: portName})
}

// Disconnect removes every connection matching (nodeID, portName).
func (p *Port) Disconnect(nodeID, portName string) {
	kept := p.connections[:0]
	for _, c := range p.connections {
		if c.NodeID == nodeID && c.PortName == portName {
			continue
		}
		kept = append(kept, c)
	}
	// clear the tail so removed entries are not retained
	for i := len(kept); i < len(p.connections); i++ {
		p.connections[i] = Connection{}
	}
	p.connections = kept
}

// DisconnectAll clears the connection list.
func (p *Port) DisconnectAll() {
	p.connections = nil
}

// IsConnected reports whether a connection to (nodeID, portName) exists.
func (p *Port) IsConnected(nodeID, portName string) bool {
	for _, c := range p.connections {
		if c.NodeID == nodeID && c.PortName == portName {
			return true
		}
	}
	return false
}

// IsConnectedTo reports whether p lists other as a peer.
func (p *Port) IsConnectedTo(other *Port) bool {
	if other == nil || other.node == nil {
		return false
	}
	return p.IsConnected(other.node.id, other.name)
}
