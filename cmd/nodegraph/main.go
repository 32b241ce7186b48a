package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-nodegraph/pkg/config"
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/nodekind"
	"github.com/dd0wney/cluso-nodegraph/pkg/snapshot"
)

const version = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// command runs one subcommand and returns the process exit code.
type command func(ctx context.Context, app *app, args []string) int

var commands = map[string]command{
	"inspect":   runInspect,
	"propagate": runPropagate,
	"copy":      runCopy,
	"paste":     runPaste,
	"validate":  runValidate,
	"kinds":     runKinds,
	"layout":    runLayout,
	"serve":     runServe,
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	name := args[0]
	switch name {
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "nodegraph v%s\n", version)
		return 0
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
		printUsage(stderr)
		return 2
	}
	return cmd(ctx, &app{stdout: stdout, stderr: stderr, kinds: nodekind.Default()}, args[1:])
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `nodegraph - inspect, evaluate and serve node graphs

Usage:
  nodegraph <command> -graph FILE [-config FILE] [options]

Available Commands:
  inspect     Show nodes, ports, groups and comments
  propagate   Mark nodes dirty, flush, and print the update order
  copy        Print clipboard text for a selection
  paste       Paste clipboard text into a graph file
  validate    Report cycles, dropped connections and stale entries
  kinds       List the node kinds
  layout      Arrange node positions and save the graph file
  serve       Serve GraphQL and metrics for a graph
  help        Show this help message
  version     Show version information

Graph files are JSON or YAML, chosen by extension.
`)
}

// app carries what every subcommand shares.
type app struct {
	stdout, stderr io.Writer
	cfg            *config.Config
	logger         logging.Logger
	kinds          *nodekind.Registry
	graphPath      string
}

// flags returns a flag set with the common -graph and -config flags.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&a.graphPath, "graph", "", "graph file (.json, .yaml)")
	fs.String("config", "", "config file (YAML)")
	return fs
}

// setup parses args, loads configuration and builds the logger. It prints
// the failure and returns false when the command cannot proceed.
func (a *app) setup(fs *flag.FlagSet, args []string, needGraph bool) bool {
	if err := fs.Parse(args); err != nil {
		return false
	}
	cfg, err := config.Load(fs.Lookup("config").Value.String())
	if err != nil {
		a.fail(err)
		return false
	}
	a.cfg = cfg
	a.logger = cfg.Logger(a.stderr).With(logging.Component("cli"))
	logging.SetDefaultLogger(a.logger)

	if needGraph && a.graphPath == "" {
		fmt.Fprintln(a.stderr, "Error: -graph is required")
		fs.Usage()
		return false
	}
	return true
}

// load restores the graph file, building nodes from the kind registry.
func (a *app) load() (*graph.Graph, snapshot.Report, error) {
	doc, err := snapshot.ReadFile(a.graphPath)
	if err != nil {
		return nil, snapshot.Report{}, err
	}
	g, rep, err := snapshot.Restore(doc, graph.WithResolver(a.kinds), graph.WithLogger(a.logger))
	if err != nil {
		return nil, rep, err
	}
	for _, w := range rep.Warnings {
		a.logger.Warn("restore", logging.Path(a.graphPath), logging.String("warning", w))
	}
	return g, rep, nil
}

func (a *app) fail(err error) {
	fmt.Fprintln(a.stderr, errorStyle.Render("Error: "+err.Error()))
}

// stdin is read by paste when -text is not given.
var stdin io.Reader = os.Stdin
