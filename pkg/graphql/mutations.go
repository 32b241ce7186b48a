package graphql

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-nodegraph/pkg/editor"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

func mutationType(s *editor.Session, t *types) *graphql.Object {
	endpoints := graphql.FieldConfigArgument{
		"outNode": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		"outPort": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"inNode":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		"inPort":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createNode": &graphql.Field{
				Type: t.node,
				Args: graphql.FieldConfigArgument{
					"kind": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name": &graphql.ArgumentConfig{Type: graphql.String},
					"x":    &graphql.ArgumentConfig{Type: graphql.Float},
					"y":    &graphql.ArgumentConfig{Type: graphql.Float},
					// optional existing port to connect the new node to
					"fromNode":      &graphql.ArgumentConfig{Type: graphql.ID},
					"fromPort":      &graphql.ArgumentConfig{Type: graphql.String},
					"fromDirection": &graphql.ArgumentConfig{Type: t.direction},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					kind, _ := p.Args["kind"].(string)
					name, _ := p.Args["name"].(string)
					fromNode, _ := p.Args["fromNode"].(string)
					if fromNode == "" {
						return s.CreateNode(kind, name, positionArgs(p.Args))
					}
					fromPort, _ := p.Args["fromPort"].(string)
					dir, ok := p.Args["fromDirection"].(graph.Direction)
					if fromPort == "" || !ok {
						return nil, errors.New("fromNode needs fromPort and fromDirection")
					}
					return s.CreateNodeFrom(kind, name, positionArgs(p.Args), fromNode, fromPort, dir)
				},
			},
			"destroyNode": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					if err := s.DestroyNode(id); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"moveNode": &graphql.Field{
				Type: t.node,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"x":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"y":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					if err := s.Move(id, positionArgs(p.Args)); err != nil {
						return nil, err
					}
					n, _ := s.Graph().Node(id)
					return n, nil
				},
			},
			"setPayload": &graphql.Field{
				Type: t.node,
				Args: graphql.FieldConfigArgument{
					"id":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					// JSON encoded
					"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: setPayloadResolver(s),
			},
			"connect": &graphql.Field{
				Type: graphql.Boolean,
				Args: endpoints,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, outPort, in, inPort := endpointArgs(p.Args)
					if err := s.Connect(out, outPort, in, inPort); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"disconnect": &graphql.Field{
				Type: graphql.Boolean,
				Args: endpoints,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, outPort, in, inPort := endpointArgs(p.Args)
					if err := s.Disconnect(out, outPort, in, inPort); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"update": &graphql.Field{
				Type:    t.flush,
				Resolve: updateResolver(s),
			},
		},
	})
}

func positionArgs(args map[string]any) graph.Position {
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	return graph.Position{X: x, Y: y}
}

func endpointArgs(args map[string]any) (outNode, outPort, inNode, inPort string) {
	outNode, _ = args["outNode"].(string)
	outPort, _ = args["outPort"].(string)
	inNode, _ = args["inNode"].(string)
	inPort, _ = args["inPort"].(string)
	return
}

func setPayloadResolver(s *editor.Session) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(string)
		key, _ := p.Args["key"].(string)
		raw, _ := p.Args["value"].(string)

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid value JSON: %w", err)
		}
		if err := s.SetPayload(id, key, value); err != nil {
			return nil, err
		}
		n, _ := s.Graph().Node(id)
		return n, nil
	}
}

func updateResolver(s *editor.Session) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		res, err := s.Update()
		if err != nil {
			return nil, err
		}
		failed := make([]map[string]any, 0, len(res.Failed))
		for id, herr := range res.Failed {
			failed = append(failed, map[string]any{"nodeId": id, "error": herr.Error()})
		}
		sort.Slice(failed, func(i, j int) bool {
			return failed[i]["nodeId"].(string) < failed[j]["nodeId"].(string)
		})
		return map[string]any{
			"updated":  res.Updated,
			"failed":   failed,
			"cyclic":   res.Cyclic,
			"deferred": res.Deferred,
		}, nil
	}
}
