package snapshot

import (
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/validation"
)

// Version is the document format written by Capture.
const Version = 1

// Document is the plain-data form of a graph or of a copied selection.
type Document struct {
	Version  int       `json:"version" yaml:"version" validate:"min=1"`
	Nodes    []Node    `json:"nodes" yaml:"nodes" validate:"dive"`
	Groups   []Group   `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive"`
	Comments []Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Node is one serialized node. Connections are listed on both ends.
type Node struct {
	ID       string         `json:"id" yaml:"id" validate:"required"`
	Kind     string         `json:"kind" yaml:"kind" validate:"required"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Position graph.Position `json:"position" yaml:"position"`
	Payload  map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
	Inputs   []Port         `json:"inputs,omitempty" yaml:"inputs,omitempty" validate:"dive"`
	Outputs  []Port         `json:"outputs,omitempty" yaml:"outputs,omitempty" validate:"dive"`
}

// Port is one serialized port with its connection list.
type Port struct {
	Name         string `json:"name" yaml:"name" validate:"required,portname"`
	Multiplicity string `json:"multiplicity,omitempty" yaml:"multiplicity,omitempty" validate:"omitempty,oneof=single multi"`
	Connections  []Link `json:"connections,omitempty" yaml:"connections,omitempty" validate:"dive"`
}

// Link names the peer end of a connection.
type Link struct {
	Node string `json:"node" yaml:"node" validate:"required"`
	Port string `json:"port" yaml:"port" validate:"required"`
}

// Group is a serialized node group.
type Group struct {
	ID       string     `json:"id" yaml:"id"`
	Title    string     `json:"title" yaml:"title"`
	Position graph.Rect `json:"position" yaml:"position"`
	Nodes    []string   `json:"nodes" yaml:"nodes"`
}

// Comment is a serialized canvas comment.
type Comment struct {
	Title    string     `json:"title" yaml:"title"`
	Theme    string     `json:"theme,omitempty" yaml:"theme,omitempty"`
	Position graph.Rect `json:"position" yaml:"position"`
}

// Validate checks the document's structure. It does not check that
// connections resolve; Restore reports those as warnings.
func (d *Document) Validate() error {
	return validation.Struct(d)
}

// NodeIDs returns the ids of the document's nodes in order.
func (d *Document) NodeIDs() []string {
	ids := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func (p Port) spec() (graph.PortSpec, error) {
	m, err := graph.ParseMultiplicity(p.Multiplicity)
	if err != nil {
		return graph.PortSpec{}, err
	}
	return graph.PortSpec{Name: p.Name, Multiplicity: m}, nil
}

func specs(ports []Port) ([]graph.PortSpec, error) {
	out := make([]graph.PortSpec, 0, len(ports))
	for _, p := range ports {
		s, err := p.spec()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
