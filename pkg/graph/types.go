package graph

import (
	"fmt"
	"strings"
)

// Direction is the fixed orientation of a port
type Direction uint8

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Opposite returns the direction a peer port must have.
func (d Direction) Opposite() Direction {
	if d == Input {
		return Output
	}
	return Input
}

// ParseDirection accepts "input"/"in" and "output"/"out".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "input", "in":
		return Input, nil
	case "output", "out":
		return Output, nil
	default:
		return 0, fmt.Errorf("unknown port direction %q", s)
	}
}

// Multiplicity limits how many connections a port may hold
type Multiplicity uint8

const (
	// Single ports hold at most one connection
	Single Multiplicity = iota
	// Multi ports hold any number of connections
	Multi
)

func (m Multiplicity) String() string {
	if m == Multi {
		return "multi"
	}
	return "single"
}

// ParseMultiplicity accepts "single" and "multi". The empty string is Single.
func ParseMultiplicity(s string) (Multiplicity, error) {
	switch strings.ToLower(s) {
	case "", "single":
		return Single, nil
	case "multi", "multiple":
		return Multi, nil
	default:
		return 0, fmt.Errorf("unknown port multiplicity %q", s)
	}
}

// PortSpec describes a port to create on a node
type PortSpec struct {
	Name         string       `json:"name" yaml:"name" validate:"required,portname"`
	Multiplicity Multiplicity `json:"multiplicity" yaml:"multiplicity"`
}

// Position is the canvas location carried on a node; the core never reads it.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect is a canvas rectangle carried on comments.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Comment is a free-floating annotation on the canvas.
type Comment struct {
	Title    string
	Theme    string
	Position Rect
}

// Connection is one endpoint reference stored on a port. It names the peer
// by node id and port name and is resolved through the owning Graph.
type Connection struct {
	NodeID   string
	PortName string
}

func (c Connection) String() string {
	return c.NodeID + ":" + c.PortName
}

// Edge is a resolved output->input pair, as listed by Graph.Connections.
type Edge struct {
	FromNode string
	FromPort string
	ToNode   string
	ToPort   string
}

func (e Edge) String() string {
	return fmt.Sprintf("%s:%s -> %s:%s", e.FromNode, e.FromPort, e.ToNode, e.ToPort)
}

// Resolver constructs nodes from a kind tag. The node-kind registry
// implements it.
type Resolver interface {
	Construct(kind string) (*Node, error)
}
