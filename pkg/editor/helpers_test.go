package editor

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/metrics"
)

// testKinds covers every multiplicity combination the connect policy cares
// about.
type testKinds struct{}

func (testKinds) Construct(kind string) (*graph.Node, error) {
	single := []graph.PortSpec{{Name: "in"}}
	multiIn := []graph.PortSpec{{Name: "in", Multiplicity: graph.Multi}}
	singleOut := []graph.PortSpec{{Name: "out"}}
	multiOut := []graph.PortSpec{{Name: "out", Multiplicity: graph.Multi}}

	switch kind {
	case "source":
		return graph.NewNode(kind, "Source", nil, multiOut)
	case "exclusive":
		return graph.NewNode(kind, "Exclusive", nil, singleOut)
	case "sink":
		return graph.NewNode(kind, "Sink", single, nil)
	case "bus":
		return graph.NewNode(kind, "Bus", multiIn, nil)
	case "pass":
		return graph.NewNode(kind, "Pass", single, multiOut)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", graph.ErrInvalidTemplate, kind)
	}
}

func sequentialIDs() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("n%d", i)
	}
}

// recorder is an update hook that remembers call order.
type recorder struct {
	calls []string
}

func (r *recorder) hook(n *graph.Node) error {
	r.calls = append(r.calls, n.ID())
	return nil
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *recorder) {
	t.Helper()
	g := graph.New(graph.WithResolver(testKinds{}), graph.WithIDGenerator(sequentialIDs()))
	rec := &recorder{}
	s := New(g, rec.hook, opts...)
	t.Cleanup(s.Close)
	return s, rec
}

func newMetricsSession(t *testing.T) (*Session, *metrics.Registry) {
	t.Helper()
	reg := metrics.NewRegistry()
	s, _ := newTestSession(t, WithMetrics(reg))
	return s, reg
}

func mustCreate(t *testing.T, s *Session, kind string) string {
	t.Helper()
	n, err := s.CreateNode(kind, "", graph.Position{})
	require.NoError(t, err)
	return n.ID()
}

// settle flushes pending work so later assertions see only new marks.
func settle(t *testing.T, s *Session) {
	t.Helper()
	_, err := s.Update()
	require.NoError(t, err)
}

func assertSymmetric(t *testing.T, g *graph.Graph) {
	t.Helper()
	for _, n := range g.Nodes() {
		for _, ports := range [][]*graph.Port{n.Inputs(), n.Outputs()} {
			for _, p := range ports {
				for _, c := range p.Connections() {
					peer := g.Peer(p, c)
					require.NotNil(t, peer, "dangling connection %s on %s:%s", c, n.ID(), p.Name())
					require.True(t, peer.IsConnected(n.ID(), p.Name()))
				}
			}
		}
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, g.Write(&metric))
	return metric.Gauge.GetValue()
}
