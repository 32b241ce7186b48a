package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-nodegraph/pkg/config"
	"github.com/dd0wney/cluso-nodegraph/pkg/editor"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/graphql"
	"github.com/dd0wney/cluso-nodegraph/pkg/health"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/metrics"
	"github.com/dd0wney/cluso-nodegraph/pkg/nodekind"
	"github.com/dd0wney/cluso-nodegraph/pkg/snapshot"
)

// writeSample saves c1(2) and c2(3) feeding add -> out, and returns the
// file path.
func writeSample(t *testing.T, ext string) string {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvListen, "")

	g := graph.New(graph.WithResolver(nodekind.Default()))
	add := func(id, kind string) *graph.Node {
		n, err := nodekind.Default().Construct(kind)
		require.NoError(t, err)
		require.NoError(t, g.RestoreNode(n, id))
		return n
	}
	link := func(from, fromPort, to, toPort string) {
		out, err := g.Port(from, fromPort, graph.Output)
		require.NoError(t, err)
		in, err := g.Port(to, toPort, graph.Input)
		require.NoError(t, err)
		require.NoError(t, g.ConnectPorts(out, in))
	}
	add("c1", nodekind.Constant).Payload[nodekind.ValueKey] = 2.0
	add("c2", nodekind.Constant).Payload[nodekind.ValueKey] = 3.0
	add("sum", nodekind.Add)
	add("out", nodekind.Output)
	link("c1", "out", "sum", "a")
	link("c2", "out", "sum", "b")
	link("sum", "out", "out", "in")
	_, err := g.AddGroup("inputs", []string{"c1", "c2"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph"+ext)
	require.NoError(t, snapshot.WriteFile(path, snapshot.Capture(g)))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_UsageAndVersion(t *testing.T) {
	code, out, _ := runCLI(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Available Commands")

	code, out, _ = runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "nodegraph v")

	code, _, errOut := runCLI(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Unknown command")

	code, _, _ = runCLI(t)
	assert.Equal(t, 2, code)
}

func TestInspect(t *testing.T) {
	path := writeSample(t, ".yaml")

	code, out, errOut := runCLI(t, "inspect", "-graph", path)
	require.Equal(t, 0, code, errOut)

	for _, want := range []string{"c1", "c2", "sum", "out", "inputs", "nodes 4", "connections 3"} {
		assert.Contains(t, out, want)
	}
}

func TestInspect_RequiresGraph(t *testing.T) {
	writeSample(t, ".json")
	code, _, errOut := runCLI(t, "inspect")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "-graph is required")
}

func TestPropagate(t *testing.T) {
	path := writeSample(t, ".json")

	code, out, errOut := runCLI(t, "propagate", "-graph", path, "-write")
	require.Equal(t, 0, code, errOut)
	assert.Less(t, strings.Index(out, "sum"), strings.LastIndex(out, "out"))

	doc, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	for _, n := range doc.Nodes {
		if n.ID == "out" {
			assert.Equal(t, 5.0, n.Payload[nodekind.ValueKey])
		}
	}

	code, _, errOut = runCLI(t, "propagate", "-graph", path, "-node", "ghost")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "node not found")
}

func TestPropagate_DryRun(t *testing.T) {
	path := writeSample(t, ".json")

	code, out, errOut := runCLI(t, "propagate", "-graph", path, "-node", "c2", "-dry-run")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Would update 3 nodes")
	assert.NotContains(t, out, "c1")
}

func TestCopyPaste(t *testing.T) {
	path := writeSample(t, ".json")

	code, out, errOut := runCLI(t, "copy", "-graph", path, "-nodes", "c1,sum")
	require.Equal(t, 0, code, errOut)
	text := strings.TrimSpace(out)
	assert.True(t, snapshot.CanDecode(text))

	code, out, errOut = runCLI(t, "paste", "-graph", path, "-text", text)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "pasted 2 nodes")

	doc, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 6)

	code, _, _ = runCLI(t, "copy", "-graph", path)
	assert.Equal(t, 2, code)
}

func TestPaste_FromStdin(t *testing.T) {
	path := writeSample(t, ".json")
	_, out, _ := runCLI(t, "copy", "-graph", path, "-nodes", "c1")

	old := stdin
	stdin = strings.NewReader(out)
	t.Cleanup(func() { stdin = old })

	code, _, errOut := runCLI(t, "paste", "-graph", path)
	require.Equal(t, 0, code, errOut)
}

func TestValidate(t *testing.T) {
	path := writeSample(t, ".json")

	code, out, errOut := runCLI(t, "validate", "-graph", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "acyclic")
	assert.Contains(t, out, "OK")

	doc, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	for i := range doc.Nodes {
		if doc.Nodes[i].ID == "out" {
			doc.Nodes[i].Inputs[0].Connections = append(doc.Nodes[i].Inputs[0].Connections,
				snapshot.Link{Node: "ghost", Port: "out"})
		}
	}
	require.NoError(t, snapshot.WriteFile(path, doc))

	code, out, _ = runCLI(t, "validate", "-graph", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "dropped")
}

func TestLayout(t *testing.T) {
	path := writeSample(t, ".json")
	before, err := snapshot.ReadFile(path)
	require.NoError(t, err)

	code, out, errOut := runCLI(t, "layout", "-graph", path, "-dry-run")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Layout: hierarchical")
	unchanged, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before.Nodes, unchanged.Nodes)

	code, _, errOut = runCLI(t, "layout", "-graph", path)
	require.Equal(t, 0, code, errOut)
	doc, err := snapshot.ReadFile(path)
	require.NoError(t, err)
	x := map[string]float64{}
	for _, n := range doc.Nodes {
		x[n.ID] = n.Position.X
	}
	assert.Equal(t, x["c1"], x["c2"])
	assert.Less(t, x["c1"], x["sum"])
	assert.Less(t, x["sum"], x["out"])

	code, _, errOut = runCLI(t, "layout", "-graph", path, "-algo", "spiral")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown layout")
}

func TestKinds(t *testing.T) {
	writeSample(t, ".json")
	code, out, _ := runCLI(t, "kinds")
	require.Equal(t, 0, code)
	for _, k := range []string{"constant", "add", "multiply", "clamp", "output"} {
		assert.Contains(t, out, k)
	}
}

func TestServeMux(t *testing.T) {
	path := writeSample(t, ".json")
	a := &app{cfg: config.Default(), logger: logging.NewNopLogger(), kinds: nodekind.Default(), graphPath: path}
	g, _, err := a.load()
	require.NoError(t, err)
	schema, err := graphql.GenerateSchema(g, a.kinds)
	require.NoError(t, err)

	reg := metrics.NewRegistry()
	gh := &graphHandler{}
	s := editor.New(g, a.kinds.Hook())
	gh.swap(s, graphql.NewGraphQLHandler(schema))
	defer gh.close()
	srv := httptest.NewServer(newMux(a, reg, gh))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/graphql", "application/json",
		strings.NewReader(`{"query":"{ stats { nodes } }"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), "nodegraph_http_requests_total")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/health/ready")
	require.NoError(t, err)
	var report health.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.Equal(t, float64(4), report.Checks["graph"].Details["nodes"])
}

func TestServe_StopsOnCancel(t *testing.T) {
	path := writeSample(t, ".json")
	t.Setenv(config.EnvListen, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	var stdout, stderr bytes.Buffer
	go func() { done <- run(ctx, []string{"serve", "-graph", path}, &stdout, &stderr) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code, stderr.String())
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
