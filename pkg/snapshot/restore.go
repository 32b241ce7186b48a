package snapshot

import (
	"fmt"
	"maps"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// Report lists what Restore or Instantiate had to leave out.
type Report struct {
	Warnings []string
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Restore builds a new graph from doc, keeping node and group ids. Nodes
// are built through the resolver when one is passed in opts, so ports
// follow the current kind definition; otherwise the document's port
// layout is used. Connections whose ends do not resolve, or that would
// overfill a single port, are dropped and reported.
func Restore(doc Document, opts ...graph.Option) (*graph.Graph, Report, error) {
	var rep Report
	if err := doc.Validate(); err != nil {
		return nil, rep, fmt.Errorf("restore: %w", err)
	}

	g := graph.New(opts...)
	ids := make(map[string]string, len(doc.Nodes))
	for _, sn := range doc.Nodes {
		n, err := buildNode(g.Resolver(), sn)
		if err != nil {
			return nil, rep, err
		}
		if err := g.RestoreNode(n, sn.ID); err != nil {
			return nil, rep, err
		}
		ids[sn.ID] = sn.ID
	}

	relink(g, doc.Nodes, ids, &rep)

	for _, sg := range doc.Groups {
		_, skipped := g.RestoreGroup(sg.ID, sg.Title, sg.Position, sg.Nodes)
		if skipped > 0 {
			rep.warn("group %q: %d unknown or repeated members skipped", sg.Title, skipped)
		}
	}
	for _, c := range doc.Comments {
		g.Comments = append(g.Comments, graph.Comment(c))
	}
	return g, rep, nil
}

func buildNode(r graph.Resolver, sn Node) (*graph.Node, error) {
	var (
		n   *graph.Node
		err error
	)
	if r != nil {
		n, err = r.Construct(sn.Kind)
		if err != nil {
			if graph.IsInvalidTemplate(err) {
				return nil, err
			}
			return nil, graph.InvalidTemplateError(sn.Kind, err)
		}
	} else {
		inputs, serr := specs(sn.Inputs)
		if serr != nil {
			return nil, graph.InvalidTemplateError(sn.Kind, serr)
		}
		outputs, serr := specs(sn.Outputs)
		if serr != nil {
			return nil, graph.InvalidTemplateError(sn.Kind, serr)
		}
		n, err = graph.NewNode(sn.Kind, sn.Name, inputs, outputs)
		if err != nil {
			return nil, err
		}
	}
	if sn.Name != "" {
		n.Name = sn.Name
	}
	n.Position = sn.Position
	maps.Copy(n.Payload, graph.ClonePayload(sn.Payload))
	return n, nil
}

// relink re-creates the connections listed in nodes, mapping document ids
// through ids. Entries on either end are honoured so one-sided documents
// still load.
func relink(g *graph.Graph, nodes []Node, ids map[string]string, rep *Report) {
	seen := make(map[graph.Edge]bool)
	for _, sn := range nodes {
		for _, sp := range sn.Outputs {
			for _, l := range sp.Connections {
				restoreEdge(g, graph.Edge{FromNode: sn.ID, FromPort: sp.Name, ToNode: l.Node, ToPort: l.Port}, ids, seen, rep)
			}
		}
		for _, sp := range sn.Inputs {
			for _, l := range sp.Connections {
				restoreEdge(g, graph.Edge{FromNode: l.Node, FromPort: l.Port, ToNode: sn.ID, ToPort: sp.Name}, ids, seen, rep)
			}
		}
	}
}

func restoreEdge(g *graph.Graph, e graph.Edge, ids map[string]string, seen map[graph.Edge]bool, rep *Report) {
	if seen[e] {
		return
	}
	seen[e] = true

	from, okFrom := ids[e.FromNode]
	to, okTo := ids[e.ToNode]
	if !okFrom || !okTo {
		rep.warn("dropped connection %s: node not found", e)
		return
	}
	out, err := g.Port(from, e.FromPort, graph.Output)
	if err != nil {
		rep.warn("dropped connection %s: output port %q no longer exists", e, e.FromPort)
		return
	}
	in, err := g.Port(to, e.ToPort, graph.Input)
	if err != nil {
		rep.warn("dropped connection %s: input port %q no longer exists", e, e.ToPort)
		return
	}
	if out.IsConnectedTo(in) {
		return
	}
	if (!in.IsMulti() && in.ConnectionCount() > 0) || (!out.IsMulti() && out.ConnectionCount() > 0) {
		rep.warn("dropped connection %s: single port already connected", e)
		return
	}
	if err := g.ConnectPorts(out, in); err != nil {
		rep.warn("dropped connection %s: %v", e, err)
	}
}
