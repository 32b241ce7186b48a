package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-nodegraph/pkg/algorithms"
	"github.com/dd0wney/cluso-nodegraph/pkg/editor"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/metrics"
	"github.com/dd0wney/cluso-nodegraph/pkg/nodekind"
	"github.com/dd0wney/cluso-nodegraph/pkg/snapshot"
	"github.com/dd0wney/cluso-nodegraph/pkg/visualization"
)

func runInspect(_ context.Context, a *app, args []string) int {
	fs := a.flags("inspect")
	if !a.setup(fs, args, true) {
		return 2
	}
	g, _, err := a.load()
	if err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, renderGraph(g, a.kinds, a.graphPath))
	return 0
}

func runPropagate(_ context.Context, a *app, args []string) int {
	fs := a.flags("propagate")
	nodes := fs.String("node", "", "comma-separated ids to mark dirty (default: every node)")
	write := fs.Bool("write", false, "save computed payloads back to the graph file")
	dryRun := fs.Bool("dry-run", false, "list the nodes that would update without running hooks")
	if !a.setup(fs, args, true) {
		return 2
	}
	g, _, err := a.load()
	if err != nil {
		a.fail(err)
		return 1
	}

	s := editor.New(g, a.kinds.Hook(),
		editor.WithLogger(a.logger),
		editor.WithMaxDirtyWarn(a.cfg.Propagation.MaxDirtyWarn))
	defer s.Close()

	ids := splitList(*nodes)
	if len(ids) == 0 {
		ids = g.NodeIDs()
	}
	if *dryRun {
		affected, err := affectedBy(g, ids)
		if err != nil {
			a.fail(err)
			return 1
		}
		fmt.Fprintln(a.stdout, renderAffected(affected))
		return 0
	}
	for _, id := range ids {
		if err := s.Propagator().MarkDirty(id); err != nil {
			a.fail(err)
			return 1
		}
	}

	res, err := s.Update()
	if err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, renderFlush(g, res))

	if *write {
		if err := snapshot.WriteFile(a.graphPath, snapshot.Capture(g)); err != nil {
			a.fail(err)
			return 1
		}
	}
	if len(res.Failed) > 0 {
		return 1
	}
	return 0
}

func runCopy(_ context.Context, a *app, args []string) int {
	fs := a.flags("copy")
	nodes := fs.String("nodes", "", "comma-separated ids to copy")
	if !a.setup(fs, args, true) {
		return 2
	}
	ids := splitList(*nodes)
	if len(ids) == 0 {
		fmt.Fprintln(a.stderr, "Error: -nodes is required")
		return 2
	}
	g, _, err := a.load()
	if err != nil {
		a.fail(err)
		return 1
	}

	s := editor.New(g, nil, editor.WithLogger(a.logger), editor.WithClipboardCompression(a.cfg.Clipboard.Compress))
	defer s.Close()
	text, err := s.Copy(ids)
	if err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, text)
	return 0
}

func runPaste(_ context.Context, a *app, args []string) int {
	fs := a.flags("paste")
	text := fs.String("text", "", "clipboard text (default: read stdin)")
	dx := fs.Float64("dx", 40, "horizontal offset for pasted nodes")
	dy := fs.Float64("dy", 40, "vertical offset for pasted nodes")
	if !a.setup(fs, args, true) {
		return 2
	}
	g, _, err := a.load()
	if err != nil {
		a.fail(err)
		return 1
	}

	clip := *text
	if clip == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			a.fail(err)
			return 1
		}
		clip = string(data)
	}

	s := editor.New(g, a.kinds.Hook(), editor.WithLogger(a.logger))
	defer s.Close()
	ids, err := s.Paste(clip, graph.Position{X: *dx, Y: *dy})
	if err != nil {
		a.fail(err)
		return 1
	}
	if _, err := s.Update(); err != nil {
		a.fail(err)
		return 1
	}
	if err := snapshot.WriteFile(a.graphPath, snapshot.Capture(g)); err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, successStyle.Render(fmt.Sprintf("pasted %d nodes: %s", len(ids), strings.Join(ids, ", "))))
	return 0
}

// runValidate exits 1 when the file has problems a load would silently
// repair, and also for cycles under -strict.
func runValidate(_ context.Context, a *app, args []string) int {
	fs := a.flags("validate")
	strict := fs.Bool("strict", false, "treat cycles as errors")
	if !a.setup(fs, args, true) {
		return 2
	}

	doc, err := snapshot.ReadFile(a.graphPath)
	if err != nil {
		a.fail(err)
		return 1
	}
	g, rep, err := snapshot.Restore(doc, graph.WithResolver(a.kinds), graph.WithLogger(a.logger))
	if err != nil {
		a.fail(err)
		return 1
	}

	reg := metrics.NewRegistry()
	pruned := g.PruneInvalid()
	reg.RecordPruned(pruned)

	cycles := algorithms.DetectCycles(g)
	stats := algorithms.AnalyzeCycles(cycles)
	components := algorithms.CyclicComponents(g)

	fmt.Fprintln(a.stdout, renderValidation(rep, pruned, stats, components))

	if len(rep.Warnings) > 0 || pruned > 0 || (*strict && stats.TotalCycles > 0) {
		return 1
	}
	return 0
}

func runKinds(_ context.Context, a *app, args []string) int {
	fs := a.flags("kinds")
	if !a.setup(fs, args, false) {
		return 2
	}
	fmt.Fprintln(a.stdout, renderKinds(a.kinds.Kinds()))
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// affectedBy lists ids and everything downstream of them, each once, in
// discovery order.
func affectedBy(g *graph.Graph, ids []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range ids {
		if _, ok := g.Node(id); !ok {
			return nil, graph.NodeNotFoundError("propagate", id)
		}
		add(id)
		for _, d := range algorithms.Downstream(g.Successors, id) {
			add(d)
		}
	}
	return out, nil
}

// kindOf returns a node's display category for tables.
func kindOf(reg *nodekind.Registry, n *graph.Node) string {
	if k, ok := reg.Lookup(n.Kind); ok && k.Category != "" {
		return k.Category
	}
	return "-"
}

func runLayout(_ context.Context, a *app, args []string) int {
	fs := a.flags("layout")
	algo := fs.String("algo", visualization.Hierarchical, "layout: "+strings.Join(visualization.Names, ", "))
	nodes := fs.String("nodes", "", "comma-separated ids to arrange (default: every node)")
	width := fs.Float64("width", 1200, "canvas width")
	height := fs.Float64("height", 800, "canvas height")
	seed := fs.Int64("seed", 1, "seed for the force layout")
	dryRun := fs.Bool("dry-run", false, "print positions without saving")
	if !a.setup(fs, args, true) {
		return 2
	}
	l, err := visualization.New(*algo, &visualization.LayoutConfig{Width: *width, Height: *height, Seed: *seed})
	if err != nil {
		a.fail(err)
		return 2
	}
	g, _, err := a.load()
	if err != nil {
		a.fail(err)
		return 1
	}

	s := editor.New(g, nil, editor.WithLogger(a.logger))
	defer s.Close()
	if err := s.Arrange(l, splitList(*nodes)); err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, renderPositions(g, *algo))
	if *dryRun {
		return 0
	}
	if err := snapshot.WriteFile(a.graphPath, snapshot.Capture(g)); err != nil {
		a.fail(err)
		return 1
	}
	return 0
}
