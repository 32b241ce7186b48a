package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	gql "github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-nodegraph/pkg/algorithms"
	"github.com/dd0wney/cluso-nodegraph/pkg/editor"
	"github.com/dd0wney/cluso-nodegraph/pkg/graphql"
	"github.com/dd0wney/cluso-nodegraph/pkg/health"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/metrics"
	"github.com/dd0wney/cluso-nodegraph/pkg/server"
)

const systemMetricsInterval = 15 * time.Second

// graphHandler serves the GraphQL endpoint for the currently loaded graph
// and can swap in a reloaded one.
type graphHandler struct {
	mu      sync.RWMutex
	current *graphql.GraphQLHandler
	session *editor.Session
}

func (h *graphHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	next := h.current
	h.mu.RUnlock()
	next.ServeHTTP(w, r)
}

// inspect runs fn against the live session between GraphQL requests. fn
// is not called before the first graph is loaded.
func (h *graphHandler) inspect(fn func(*editor.Session)) {
	h.mu.RLock()
	s, gq := h.session, h.current
	h.mu.RUnlock()
	if s == nil || gq == nil {
		return
	}
	gq.Exclusive(func() { fn(s) })
}

func (h *graphHandler) graphState() health.GraphState {
	var st health.GraphState
	h.inspect(func(s *editor.Session) {
		g := s.Graph()
		st = health.GraphState{
			Loaded:      true,
			Nodes:       g.Len(),
			Connections: len(g.Connections()),
			Cycles:      len(algorithms.DetectCycles(g)),
		}
	})
	return st
}

func (h *graphHandler) propagationState() health.PropagationState {
	var st health.PropagationState
	h.inspect(func(s *editor.Session) {
		p := s.Propagator()
		stats := p.Stats()
		st = health.PropagationState{Pending: p.Len(), Flushes: stats.Flushes, Failures: stats.Failures}
	})
	return st
}

func (h *graphHandler) swap(s *editor.Session, next *graphql.GraphQLHandler) {
	h.mu.Lock()
	old := h.session
	h.session, h.current = s, next
	h.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func (h *graphHandler) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil {
		h.session.Close()
	}
}

func runServe(ctx context.Context, a *app, args []string) int {
	fs := a.flags("serve")
	readOnly := fs.Bool("read-only", false, "disable GraphQL mutations")
	if !a.setup(fs, args, true) {
		return 2
	}

	reg := metrics.DefaultRegistry()
	gh := &graphHandler{}
	build := func() error {
		g, _, err := a.load()
		if err != nil {
			return err
		}
		s := editor.New(g, a.kinds.Hook(),
			editor.WithLogger(a.logger),
			editor.WithMetrics(reg),
			editor.WithClipboardCompression(a.cfg.Clipboard.Compress),
			editor.WithMaxDirtyWarn(a.cfg.Propagation.MaxDirtyWarn))

		var schema gql.Schema
		if *readOnly {
			schema, err = graphql.GenerateSchema(g, a.kinds)
		} else {
			schema, err = graphql.GenerateSchemaWithMutations(s, a.kinds)
		}
		if err != nil {
			s.Close()
			return err
		}
		gh.swap(s, graphql.NewGraphQLHandler(schema, graphql.WithLogger(a.logger)))
		a.logger.Info("graph loaded", logging.Path(a.graphPath), logging.Count(g.Len()))
		return nil
	}
	if err := build(); err != nil {
		a.fail(err)
		return 1
	}
	defer gh.close()

	srv := server.NewGracefulServer(a.cfg.Server.Listen, newMux(a, reg, gh),
		server.WithLogger(a.logger),
		server.WithShutdownTimeout(a.cfg.Server.ShutdownTimeout))
	// SIGHUP re-reads the graph file; the old graph keeps serving on failure
	srv.SetConfigReloadFunc(build)

	go reportSystemMetrics(ctx, reg, time.Now())

	if err := srv.Run(ctx); err != nil {
		a.fail(err)
		return 1
	}
	return 0
}

func newMux(a *app, reg *metrics.Registry, gh *graphHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Server.GraphQLPath, reg.InstrumentHandler(a.cfg.Server.GraphQLPath, gh))
	mux.Handle(a.cfg.Server.MetricsPath, reg.Handler())

	hc := health.NewHealthChecker()
	hc.RegisterReadinessCheck("graph", health.GraphCheck(gh.graphState))
	hc.RegisterReadinessCheck("propagation",
		health.PropagationCheck(gh.propagationState, a.cfg.Propagation.MaxDirtyWarn))
	hc.RegisterCheck("memory", health.MemoryCheck(nil))
	hc.RegisterLivenessCheck("memory", health.MemoryCheck(nil))
	hc.Register(mux)

	// plain probe for load balancers that only look at the status code
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func reportSystemMetrics(ctx context.Context, reg *metrics.Registry, started time.Time) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()
	reg.UpdateSystemMetrics(started)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.UpdateSystemMetrics(started)
		}
	}
}
