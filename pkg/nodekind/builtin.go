package nodekind

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// ValueKey is the payload key numeric kinds read and write.
const ValueKey = "value"

// Builtin kind names
const (
	Constant = "constant"
	Add      = "add"
	Multiply = "multiply"
	Clamp    = "clamp"
	Output   = "output"
)

// Builtins returns the numeric kinds shipped with the editor.
func Builtins() []Kind {
	out := []graph.PortSpec{{Name: "out", Multiplicity: graph.Multi}}
	pair := []graph.PortSpec{{Name: "a"}, {Name: "b"}}
	single := []graph.PortSpec{{Name: "in"}}

	return []Kind{
		{
			Name:        Constant,
			DisplayName: "Constant",
			Category:    "input",
			Outputs:     out,
			Defaults:    map[string]any{ValueKey: 0.0},
			Update: func(n *graph.Node) error {
				v, err := Float(n.Payload[ValueKey])
				if err != nil {
					return err
				}
				n.Payload[ValueKey] = v
				return nil
			},
		},
		{
			Name:        Add,
			DisplayName: "Add",
			Category:    "math",
			Inputs:      pair,
			Outputs:     out,
			Defaults:    map[string]any{"a": 0.0, "b": 0.0, ValueKey: 0.0},
			Update:      binary(func(a, b float64) float64 { return a + b }),
		},
		{
			Name:        Multiply,
			DisplayName: "Multiply",
			Category:    "math",
			Inputs:      pair,
			Outputs:     out,
			Defaults:    map[string]any{"a": 1.0, "b": 1.0, ValueKey: 1.0},
			Update:      binary(func(a, b float64) float64 { return a * b }),
		},
		{
			Name:        Clamp,
			DisplayName: "Clamp",
			Category:    "math",
			Inputs:      single,
			Outputs:     out,
			Defaults:    map[string]any{"in": 0.0, "min": 0.0, "max": 1.0, ValueKey: 0.0},
			Update: func(n *graph.Node) error {
				v, err := InputValue(n, "in")
				if err != nil {
					return err
				}
				lo, err := Float(n.Payload["min"])
				if err != nil {
					return fmt.Errorf("min: %w", err)
				}
				hi, err := Float(n.Payload["max"])
				if err != nil {
					return fmt.Errorf("max: %w", err)
				}
				if lo > hi {
					return fmt.Errorf("clamp range [%g, %g] is empty", lo, hi)
				}
				n.Payload[ValueKey] = min(max(v, lo), hi)
				return nil
			},
		},
		{
			Name:        Output,
			DisplayName: "Output",
			Category:    "output",
			Inputs:      single,
			Defaults:    map[string]any{"in": 0.0, ValueKey: 0.0},
			Update: func(n *graph.Node) error {
				v, err := InputValue(n, "in")
				if err != nil {
					return err
				}
				n.Payload[ValueKey] = v
				return nil
			},
		},
	}
}

func binary(op func(a, b float64) float64) UpdateFunc {
	return func(n *graph.Node) error {
		a, err := InputValue(n, "a")
		if err != nil {
			return err
		}
		b, err := InputValue(n, "b")
		if err != nil {
			return err
		}
		n.Payload[ValueKey] = op(a, b)
		return nil
	}
}

// InputValue reads the value feeding the named input port: the upstream
// node's ValueKey when connected, otherwise the node's own payload entry
// under the port name.
func InputValue(n *graph.Node, port string) (float64, error) {
	p := n.Input(port)
	if p == nil {
		return 0, graph.PortNotFoundError("InputValue", n.ID(), port, graph.Input)
	}
	if g := n.Graph(); g != nil {
		for _, c := range p.Connections() {
			if peer := g.Peer(p, c); peer != nil {
				v, err := Float(peer.Node().Payload[ValueKey])
				if err != nil {
					return 0, fmt.Errorf("input %s from %s: %w", port, c, err)
				}
				return v, nil
			}
		}
	}
	v, err := Float(n.Payload[port])
	if err != nil {
		return 0, fmt.Errorf("input %s: %w", port, err)
	}
	return v, nil
}

// Float coerces a payload value to float64. Payloads decoded from YAML
// carry ints, those from JSON carry float64 or json.Number.
func Float(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", v)
	}
}

// Default returns a sealed registry holding the builtin kinds.
func Default() *Registry {
	return NewRegistry(nil).MustRegister(Builtins()...).Seal()
}
