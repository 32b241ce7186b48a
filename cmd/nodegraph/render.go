package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/cluso-nodegraph/pkg/algorithms"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/nodekind"
	"github.com/dd0wney/cluso-nodegraph/pkg/propagation"
	"github.com/dd0wney/cluso-nodegraph/pkg/snapshot"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderGraph(g *graph.Graph, reg *nodekind.Registry, path string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Graph " + path))
	b.WriteString("\n")

	stats := fmt.Sprintf("nodes %d   connections %d   groups %d   comments %d",
		g.Len(), len(g.Connections()), len(g.Groups()), len(g.Comments))
	b.WriteString(statsBoxStyle.Render(stats))
	b.WriteString("\n\n")

	nodes := newTable("ID", "KIND", "CATEGORY", "NAME", "POSITION", "INPUTS", "OUTPUTS", "PAYLOAD")
	for _, n := range g.Nodes() {
		nodes.Row(
			n.ID(),
			n.Kind,
			kindOf(reg, n),
			n.Name,
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
			portsCell(n.Inputs()),
			portsCell(n.Outputs()),
			payloadCell(n.Payload),
		)
	}
	b.WriteString(sectionStyle.Render("Nodes"))
	b.WriteString("\n")
	b.WriteString(nodes.Render())
	b.WriteString("\n")

	if groups := g.Groups(); len(groups) > 0 {
		t := newTable("ID", "TITLE", "MEMBERS")
		for _, grp := range groups {
			t.Row(grp.ID, grp.Title, strings.Join(grp.NodeIDs(), ", "))
		}
		b.WriteString(sectionStyle.Render("Groups"))
		b.WriteString("\n")
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if len(g.Comments) > 0 {
		t := newTable("TITLE", "THEME", "AREA")
		for _, c := range g.Comments {
			t.Row(c.Title, c.Theme, fmt.Sprintf("%g,%g %gx%g", c.Position.X, c.Position.Y, c.Position.Width, c.Position.Height))
		}
		b.WriteString(sectionStyle.Render("Comments"))
		b.WriteString("\n")
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}

// portsCell renders one line per port: name, multiplicity marker, peers.
func portsCell(ports []*graph.Port) string {
	lines := make([]string, 0, len(ports))
	for _, p := range ports {
		name := p.Name()
		if p.IsMulti() {
			name += "*"
		}
		conns := p.Connections()
		if len(conns) == 0 {
			lines = append(lines, name)
			continue
		}
		peers := make([]string, len(conns))
		for i, c := range conns {
			peers[i] = c.String()
		}
		lines = append(lines, name+" <> "+strings.Join(peers, ", "))
	}
	if len(lines) == 0 {
		return "-"
	}
	return strings.Join(lines, "\n")
}

func payloadCell(payload map[string]any) string {
	if len(payload) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		v, err := json.Marshal(payload[k])
		if err != nil {
			v = []byte(fmt.Sprint(payload[k]))
		}
		lines[i] = k + "=" + string(v)
	}
	return strings.Join(lines, "\n")
}

func renderFlush(g *graph.Graph, res propagation.FlushResult) string {
	t := newTable("#", "NODE", "KIND", "VALUE", "STATUS")
	row := 0
	for _, id := range res.Updated {
		row++
		n, _ := g.Node(id)
		t.Row(fmt.Sprint(row), id, n.Kind, valueCell(n), successStyle.Render("updated"))
	}
	failed := make([]string, 0, len(res.Failed))
	for id := range res.Failed {
		failed = append(failed, id)
	}
	sort.Strings(failed)
	for _, id := range failed {
		row++
		kind := "-"
		if n, ok := g.Node(id); ok {
			kind = n.Kind
		}
		t.Row(fmt.Sprint(row), id, kind, "-", errorStyle.Render(res.Failed[id].Error()))
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Update order"))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(res.Cyclic) > 0 {
		b.WriteString(warnStyle.Render("on a cycle, run in discovery order: " + strings.Join(res.Cyclic, ", ")))
		b.WriteString("\n")
	}
	if res.Deferred > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d nodes deferred to the next flush", res.Deferred)))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("flushed in %s", res.Duration)))
	return b.String()
}

func valueCell(n *graph.Node) string {
	v, ok := n.Payload[nodekind.ValueKey]
	if !ok {
		return "-"
	}
	return fmt.Sprint(v)
}

func renderAffected(ids []string) string {
	return sectionStyle.Render(fmt.Sprintf("Would update %d nodes", len(ids))) + "\n" + strings.Join(ids, "\n")
}

func renderValidation(rep snapshot.Report, pruned int, stats algorithms.CycleStats, components []algorithms.Component) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Validation"))
	b.WriteString("\n")

	ok := len(rep.Warnings) == 0 && pruned == 0
	for _, w := range rep.Warnings {
		b.WriteString(warnStyle.Render("dropped: " + w))
		b.WriteString("\n")
	}
	if pruned > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("pruned %d stale connection entries", pruned)))
		b.WriteString("\n")
	}

	if stats.TotalCycles == 0 {
		b.WriteString(successStyle.Render("acyclic"))
	} else {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d cycles (shortest %d, longest %d, self-loops %d)",
			stats.TotalCycles, stats.ShortestCycle, stats.LongestCycle, stats.SelfLoops)))
		for _, c := range components {
			b.WriteString("\n  ")
			b.WriteString(strings.Join(c, " -> "))
		}
	}
	b.WriteString("\n")

	if ok {
		b.WriteString(successStyle.Render("OK"))
	} else {
		b.WriteString(errorStyle.Render("problems found"))
	}
	return b.String()
}

func renderKinds(kinds []nodekind.Kind) string {
	t := newTable("KIND", "NAME", "CATEGORY", "INPUTS", "OUTPUTS")
	for _, k := range kinds {
		t.Row(k.Name, k.DisplayName, k.Category, specsCell(k.Inputs), specsCell(k.Outputs))
	}
	return t.Render()
}

func specsCell(specs []graph.PortSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
		if s.Multiplicity == graph.Multi {
			names[i] += "*"
		}
	}
	return strings.Join(names, ", ")
}

func renderPositions(g *graph.Graph, algo string) string {
	t := newTable("ID", "NAME", "X", "Y")
	for _, n := range g.Nodes() {
		t.Row(n.ID(), n.Name, fmt.Sprintf("%.1f", n.Position.X), fmt.Sprintf("%.1f", n.Position.Y))
	}
	return sectionStyle.Render("Layout: "+algo) + "\n" + t.Render()
}
