package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/nodekind"
)

// peerRef is the source value of a Connection object.
type peerRef struct {
	conn graph.Connection
}

func nodesResolver(g *graph.Graph) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		kind, _ := p.Args["kind"].(string)
		nodes := g.Nodes()
		if kind == "" {
			return nodes, nil
		}
		filtered := make([]*graph.Node, 0, len(nodes))
		for _, n := range nodes {
			if n.Kind == kind {
				filtered = append(filtered, n)
			}
		}
		return filtered, nil
	}
}

// portResolver returns nil for a missing node or port, like the node
// query does for a missing id.
func portResolver(g *graph.Graph) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		nodeID, _ := p.Args["nodeId"].(string)
		name, _ := p.Args["name"].(string)
		dir, ok := p.Args["direction"].(graph.Direction)
		if !ok {
			return nil, nil
		}
		port, err := g.Port(nodeID, name, dir)
		if err != nil {
			if graph.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return port, nil
	}
}

func lookupNodes(g *graph.Graph, ids []string) []*graph.Node {
	nodes := make([]*graph.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func nodeField(t graphql.Output, get func(*graph.Node) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if n, ok := p.Source.(*graph.Node); ok {
				return get(n), nil
			}
			return nil, nil
		},
	}
}

func portField(t graphql.Output, get func(*graph.Port) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if port, ok := p.Source.(*graph.Port); ok {
				return get(port), nil
			}
			return nil, nil
		},
	}
}

func connField(t graphql.Output, get func(peerRef) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if ref, ok := p.Source.(peerRef); ok {
				return get(ref), nil
			}
			return nil, nil
		},
	}
}

func edgeField(get func(graph.Edge) string) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if e, ok := p.Source.(graph.Edge); ok {
				return get(e), nil
			}
			return nil, nil
		},
	}
}

func kindField(t graphql.Output, get func(nodekind.Kind) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if k, ok := p.Source.(nodekind.Kind); ok {
				return get(k), nil
			}
			return nil, nil
		},
	}
}

func statsField(get func(*graph.Graph) int) *graphql.Field {
	return &graphql.Field{
		Type: graphql.Int,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if g, ok := p.Source.(*graph.Graph); ok {
				return get(g), nil
			}
			return nil, nil
		},
	}
}
