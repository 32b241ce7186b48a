package graph

import (
	"fmt"
)

// Node is a unit of computation in the graph with ordered input and output
// ports and a free-form payload.
type Node struct {
	id       string
	Kind     string
	Name     string
	Position Position
	Payload  map[string]any

	inputs  []*Port
	outputs []*Port
	graph   *Graph
}

// NewNode builds a detached node. Port names must be non-empty and unique
// per direction, otherwise ErrDuplicatePort (or ErrInvalidTemplate for an
// empty name) is returned.
func NewNode(kind, name string, inputs, outputs []PortSpec) (*Node, error) {
	n := &Node{
		Kind:    kind,
		Name:    name,
		Payload: make(map[string]any),
	}
	var err error
	if n.inputs, err = n.buildPorts(inputs, Input); err != nil {
		return nil, err
	}
	if n.outputs, err = n.buildPorts(outputs, Output); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) buildPorts(specs []PortSpec, dir Direction) ([]*Port, error) {
	ports := make([]*Port, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, NewError("NewNode").Kind(n.Kind).
				Cause(fmt.Errorf("%w: empty %s port name", ErrInvalidTemplate, dir)).Err()
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, NewError("NewNode").Port(n.Kind, spec.Name, dir).Cause(ErrDuplicatePort).Err()
		}
		seen[spec.Name] = struct{}{}
		ports = append(ports, newPort(n, spec, dir))
	}
	return ports, nil
}

// ID returns the node identifier. It is empty until the node joins a graph.
func (n *Node) ID() string { return n.id }

// Graph returns the owning graph, or nil for a detached node.
func (n *Node) Graph() *Graph { return n.graph }

// Inputs returns the input ports in declaration order.
func (n *Node) Inputs() []*Port {
	return append([]*Port(nil), n.inputs...)
}

// Outputs returns the output ports in declaration order.
func (n *Node) Outputs() []*Port {
	return append([]*Port(nil), n.outputs...)
}

// Ports returns the ports of the given direction.
func (n *Node) Ports(dir Direction) []*Port {
	if dir == Input {
		return n.Inputs()
	}
	return n.Outputs()
}

// Input returns the named input port or nil.
func (n *Node) Input(name string) *Port {
	return findPort(n.inputs, name)
}

// Output returns the named output port or nil.
func (n *Node) Output(name string) *Port {
	return findPort(n.outputs, name)
}

// Port returns the named port of the given direction or nil.
func (n *Node) Port(name string, dir Direction) *Port {
	if dir == Input {
		return n.Input(name)
	}
	return n.Output(name)
}

func findPort(ports []*Port, name string) *Port {
	for _, p := range ports {
		if p.name == name {
			return p
		}
	}
	return nil
}

// Clone returns a detached copy with the same kind, name, position, payload
// and port layout. Connections and the id are not copied.
func (n *Node) Clone() *Node {
	clone := &Node{
		Kind:     n.Kind,
		Name:     n.Name,
		Position: n.Position,
		Payload:  ClonePayload(n.Payload),
	}
	if clone.Payload == nil {
		clone.Payload = make(map[string]any)
	}
	for _, p := range n.inputs {
		clone.inputs = append(clone.inputs, newPort(clone, p.Spec(), Input))
	}
	for _, p := range n.outputs {
		clone.outputs = append(clone.outputs, newPort(clone, p.Spec(), Output))
	}
	return clone
}

func (n *Node) disconnectAll() {
	for _, p := range n.inputs {
		p.DisconnectAll()
	}
	for _, p := range n.outputs {
		p.DisconnectAll()
	}
}

func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)", n.Name, n.id)
	}
	return fmt.Sprintf("%s(%s)", n.Kind, n.id)
}
