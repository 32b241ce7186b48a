// Package graph is the node-graph data model: nodes with ordered, named
// input and output ports, connections between them, and groups.
//
// Connections are stored on both endpoint ports as (node id, port name)
// references, never as pointers to the peer. The Graph resolves them
// through its id index, and it is the only place that keeps the two sides
// of an edge symmetric:
//
//	out, _ := g.Port(a.ID(), "out", graph.Output)
//	in, _ := g.Port(b.ID(), "in", graph.Input)
//	_ = g.ConnectPorts(out, in) // a:out lists b:in, b:in lists a:out
//
// Port methods are one-sided primitives and apply no multiplicity policy.
// Evicting existing connections of single ports is the job of the editing
// layer (see package editor).
package graph
