package graphql

import (
	"encoding/json"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-nodegraph/pkg/algorithms"
	"github.com/dd0wney/cluso-nodegraph/pkg/editor"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/nodekind"
)

// GenerateSchema builds a read-only schema over g. kinds may be nil, in
// which case the kinds query returns an empty list.
func GenerateSchema(g *graph.Graph, kinds *nodekind.Registry) (graphql.Schema, error) {
	t := newTypes(g)
	return newSchema(graphql.SchemaConfig{
		Query: queryType(g, kinds, t),
	})
}

// GenerateSchemaWithMutations adds a Mutation type that edits through s,
// so edits are dirty-tracked and published like any other session edit.
func GenerateSchemaWithMutations(s *editor.Session, kinds *nodekind.Registry) (graphql.Schema, error) {
	t := newTypes(s.Graph())
	return newSchema(graphql.SchemaConfig{
		Query:    queryType(s.Graph(), kinds, t),
		Mutation: mutationType(s, t),
	})
}

func newSchema(cfg graphql.SchemaConfig) (graphql.Schema, error) {
	schema, err := graphql.NewSchema(cfg)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func queryType(g *graph.Graph, kinds *nodekind.Registry, t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(t.node),
				Args: graphql.FieldConfigArgument{
					"kind": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: nodesResolver(g),
			},
			"node": &graphql.Field{
				Type: t.node,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					if n, ok := g.Node(id); ok {
						return n, nil
					}
					return nil, nil
				},
			},
			"port": &graphql.Field{
				Type: t.port,
				Args: graphql.FieldConfigArgument{
					"nodeId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"direction": &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.direction)},
				},
				Resolve: portResolver(g),
			},
			"groups": &graphql.Field{
				Type: graphql.NewList(t.group),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return g.Groups(), nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(t.edge),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return g.Connections(), nil
				},
			},
			"kinds": &graphql.Field{
				Type: graphql.NewList(t.kind),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if kinds == nil {
						return []nodekind.Kind{}, nil
					}
					return kinds.Kinds(), nil
				},
			},
			"cycles": &graphql.Field{
				Type: graphql.NewList(graphql.NewList(graphql.String)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					cycles := algorithms.DetectCycles(g)
					out := make([][]string, len(cycles))
					for i, c := range cycles {
						out[i] = c
					}
					return out, nil
				},
			},
			"stats": &graphql.Field{
				Type: t.stats,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return g, nil
				},
			},
		},
	})
}

type types struct {
	direction    *graphql.Enum
	multiplicity *graphql.Enum
	node         *graphql.Object
	port         *graphql.Object
	connection   *graphql.Object
	group        *graphql.Object
	edge         *graphql.Object
	portSpec     *graphql.Object
	kind         *graphql.Object
	stats        *graphql.Object
	failure      *graphql.Object
	flush        *graphql.Object
}

func newTypes(g *graph.Graph) *types {
	t := &types{}

	t.direction = graphql.NewEnum(graphql.EnumConfig{
		Name: "Direction",
		Values: graphql.EnumValueConfigMap{
			"INPUT":  &graphql.EnumValueConfig{Value: graph.Input},
			"OUTPUT": &graphql.EnumValueConfig{Value: graph.Output},
		},
	})
	t.multiplicity = graphql.NewEnum(graphql.EnumConfig{
		Name: "Multiplicity",
		Values: graphql.EnumValueConfigMap{
			"SINGLE": &graphql.EnumValueConfig{Value: graph.Single},
			"MULTI":  &graphql.EnumValueConfig{Value: graph.Multi},
		},
	})

	// Node and Connection refer to each other, so their fields are thunks.
	t.node = graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: (graphql.FieldsThunk)(func() graphql.Fields {
			return graphql.Fields{
				"id":   nodeField(graphql.NewNonNull(graphql.ID), func(n *graph.Node) any { return n.ID() }),
				"kind": nodeField(graphql.String, func(n *graph.Node) any { return n.Kind }),
				"name": nodeField(graphql.String, func(n *graph.Node) any { return n.Name }),
				"x":    nodeField(graphql.Float, func(n *graph.Node) any { return n.Position.X }),
				"y":    nodeField(graphql.Float, func(n *graph.Node) any { return n.Position.Y }),
				// JSON encoded; payload values are free-form
				"payload": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						n, ok := p.Source.(*graph.Node)
						if !ok {
							return nil, nil
						}
						data, err := json.Marshal(n.Payload)
						if err != nil {
							return nil, fmt.Errorf("encode payload of %s: %w", n.ID(), err)
						}
						return string(data), nil
					},
				},
				"inputs":  nodeField(graphql.NewList(t.port), func(n *graph.Node) any { return n.Inputs() }),
				"outputs": nodeField(graphql.NewList(t.port), func(n *graph.Node) any { return n.Outputs() }),
				"upstream": nodeField(graphql.NewList(t.node), func(n *graph.Node) any {
					return lookupNodes(g, g.Predecessors(n.ID()))
				}),
				"downstream": nodeField(graphql.NewList(t.node), func(n *graph.Node) any {
					return lookupNodes(g, g.Successors(n.ID()))
				}),
			}
		}),
	})

	t.connection = graphql.NewObject(graphql.ObjectConfig{
		Name: "Connection",
		Fields: (graphql.FieldsThunk)(func() graphql.Fields {
			return graphql.Fields{
				"nodeId": connField(graphql.ID, func(c peerRef) any { return c.conn.NodeID }),
				"port":   connField(graphql.String, func(c peerRef) any { return c.conn.PortName }),
				"node": connField(t.node, func(c peerRef) any {
					if n, ok := g.Node(c.conn.NodeID); ok {
						return n
					}
					return nil
				}),
			}
		}),
	})

	t.port = graphql.NewObject(graphql.ObjectConfig{
		Name: "Port",
		Fields: graphql.Fields{
			"name":         portField(graphql.String, func(p *graph.Port) any { return p.Name() }),
			"direction":    portField(t.direction, func(p *graph.Port) any { return p.Direction() }),
			"multiplicity": portField(t.multiplicity, func(p *graph.Port) any { return p.Multiplicity() }),
			"nodeId":       portField(graphql.ID, func(p *graph.Port) any { return p.Node().ID() }),
			"connected":    portField(graphql.Boolean, func(p *graph.Port) any { return p.ConnectionCount() > 0 }),
			"connections": portField(graphql.NewList(t.connection), func(p *graph.Port) any {
				conns := p.Connections()
				refs := make([]peerRef, len(conns))
				for i, c := range conns {
					refs[i] = peerRef{conn: c}
				}
				return refs
			}),
		},
	})

	t.group = graphql.NewObject(graphql.ObjectConfig{
		Name: "Group",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if grp, ok := p.Source.(*graph.Group); ok {
						return grp.ID, nil
					}
					return nil, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if grp, ok := p.Source.(*graph.Group); ok {
						return grp.Title, nil
					}
					return nil, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(t.node),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if grp, ok := p.Source.(*graph.Group); ok {
						return lookupNodes(g, grp.NodeIDs()), nil
					}
					return nil, nil
				},
			},
		},
	})

	t.edge = graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"fromNode": edgeField(func(e graph.Edge) string { return e.FromNode }),
			"fromPort": edgeField(func(e graph.Edge) string { return e.FromPort }),
			"toNode":   edgeField(func(e graph.Edge) string { return e.ToNode }),
			"toPort":   edgeField(func(e graph.Edge) string { return e.ToPort }),
		},
	})

	t.portSpec = graphql.NewObject(graphql.ObjectConfig{
		Name: "PortSpec",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(graph.PortSpec); ok {
						return s.Name, nil
					}
					return nil, nil
				},
			},
			"multiplicity": &graphql.Field{
				Type: t.multiplicity,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if s, ok := p.Source.(graph.PortSpec); ok {
						return s.Multiplicity, nil
					}
					return nil, nil
				},
			},
		},
	})

	t.kind = graphql.NewObject(graphql.ObjectConfig{
		Name: "Kind",
		Fields: graphql.Fields{
			"name":        kindField(graphql.String, func(k nodekind.Kind) any { return k.Name }),
			"displayName": kindField(graphql.String, func(k nodekind.Kind) any { return k.DisplayName }),
			"category":    kindField(graphql.String, func(k nodekind.Kind) any { return k.Category }),
			"inputs":      kindField(graphql.NewList(t.portSpec), func(k nodekind.Kind) any { return k.Inputs }),
			"outputs":     kindField(graphql.NewList(t.portSpec), func(k nodekind.Kind) any { return k.Outputs }),
		},
	})

	t.stats = graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"nodes":       statsField(func(g *graph.Graph) int { return g.Len() }),
			"connections": statsField(func(g *graph.Graph) int { return len(g.Connections()) }),
			"groups":      statsField(func(g *graph.Graph) int { return len(g.Groups()) }),
			"comments":    statsField(func(g *graph.Graph) int { return len(g.Comments) }),
		},
	})

	t.failure = graphql.NewObject(graphql.ObjectConfig{
		Name: "UpdateFailure",
		Fields: graphql.Fields{
			"nodeId": &graphql.Field{Type: graphql.ID},
			"error":  &graphql.Field{Type: graphql.String},
		},
	})
	t.flush = graphql.NewObject(graphql.ObjectConfig{
		Name: "UpdateResult",
		Fields: graphql.Fields{
			"updated":  &graphql.Field{Type: graphql.NewList(graphql.ID)},
			"failed":   &graphql.Field{Type: graphql.NewList(t.failure)},
			"cyclic":   &graphql.Field{Type: graphql.NewList(graphql.ID)},
			"deferred": &graphql.Field{Type: graphql.Int},
		},
	})

	return t
}
