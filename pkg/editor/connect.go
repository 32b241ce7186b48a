package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/pubsub"
)

// Connect links outNode.outPort to inNode.inPort, applying the
// multiplicity policy of ConnectPorts.
func (s *Session) Connect(outNode, outPort, inNode, inPort string) error {
	start := time.Now()
	out, err := s.g.Port(outNode, outPort, graph.Output)
	if err != nil {
		s.reject("not_found")
		return s.finish("connect", start, err)
	}
	in, err := s.g.Port(inNode, inPort, graph.Input)
	if err != nil {
		s.reject("not_found")
		return s.finish("connect", start, err)
	}
	return s.finish("connect", start, s.connect(out, in),
		logging.NodeID(outNode), logging.PeerID(inNode))
}

// ConnectPorts links out to in. A single-multiplicity port that already
// holds a connection has it removed on both ends first, so single ports
// never hold more than one. Both endpoints and every evicted peer are
// marked dirty. Connecting an existing edge changes nothing.
func (s *Session) ConnectPorts(out, in *graph.Port) error {
	start := time.Now()
	return s.finish("connect", start, s.connect(out, in))
}

func (s *Session) connect(out, in *graph.Port) error {
	if err := s.checkPair(out, in); err != nil {
		return err
	}
	if out.IsConnectedTo(in) {
		return nil
	}

	var evicted []string
	if !in.IsMulti() {
		evicted = append(evicted, s.evict(in)...)
	}
	if !out.IsMulti() {
		evicted = append(evicted, s.evict(out)...)
	}

	if err := s.g.ConnectPorts(out, in); err != nil {
		return err
	}

	outID, inID := out.Node().ID(), in.Node().ID()
	s.markDirty(append([]string{outID, inID}, evicted...)...)
	s.changed(pubsub.Event{Operation: "connect", NodeID: outID, PeerID: inID, Port: out.Name() + "->" + in.Name()})
	return nil
}

// checkPair validates the pair before any eviction so a rejected connect
// leaves the graph untouched.
func (s *Session) checkPair(out, in *graph.Port) error {
	if out == nil || in == nil {
		s.reject("not_found")
		return graph.NewError("Connect").Cause(graph.ErrPortNotFound).Err()
	}
	for _, p := range []*graph.Port{out, in} {
		if !s.g.Contains(p.Node()) {
			s.reject("not_found")
			return graph.NodeNotFoundError("Connect", p.Node().ID())
		}
	}
	if out.Direction() != graph.Output || in.Direction() != graph.Input {
		s.reject("direction")
		return graph.NewError("Connect").Port(out.Node().ID(), out.Name(), out.Direction()).
			Cause(fmt.Errorf("%w: want output -> input", graph.ErrInvalidPortPair)).Err()
	}
	return nil
}

// evict removes every connection held by p on both ends and returns the
// ids of the peers that lost one.
func (s *Session) evict(p *graph.Port) []string {
	var peers []string
	for _, c := range p.Connections() {
		peer := s.g.Peer(p, c)
		if peer == nil {
			p.Disconnect(c.NodeID, c.PortName)
			continue
		}
		var err error
		if p.Direction() == graph.Input {
			err = s.g.DisconnectPorts(peer, p)
		} else {
			err = s.g.DisconnectPorts(p, peer)
		}
		if err != nil {
			s.logger.Warn("evict failed", logging.NodeID(p.Node().ID()), logging.PortName(p.Name()), logging.Error(err))
			continue
		}
		peers = append(peers, c.NodeID)
		s.logger.Debug("connection evicted",
			logging.NodeID(p.Node().ID()), logging.PortName(p.Name()), logging.PeerID(c.NodeID))
	}
	return peers
}

func (s *Session) reject(reason string) {
	if s.metrics != nil {
		s.metrics.RecordRejectedConnection(reason)
	}
}

// Disconnect removes the edge outNode.outPort -> inNode.inPort. Both ends
// are marked dirty when an edge was actually removed.
func (s *Session) Disconnect(outNode, outPort, inNode, inPort string) error {
	start := time.Now()
	out, err := s.g.Port(outNode, outPort, graph.Output)
	if err != nil {
		return s.finish("disconnect", start, err)
	}
	in, err := s.g.Port(inNode, inPort, graph.Input)
	if err != nil {
		return s.finish("disconnect", start, err)
	}
	return s.finish("disconnect", start, s.disconnect(out, in),
		logging.NodeID(outNode), logging.PeerID(inNode))
}

// DisconnectPorts is Disconnect for resolved ports.
func (s *Session) DisconnectPorts(out, in *graph.Port) error {
	start := time.Now()
	return s.finish("disconnect", start, s.disconnect(out, in))
}

func (s *Session) disconnect(out, in *graph.Port) error {
	if out == nil || in == nil {
		return graph.NewError("Disconnect").Cause(graph.ErrPortNotFound).Err()
	}
	connected := out.IsConnectedTo(in) || in.IsConnectedTo(out)
	if err := s.g.DisconnectPorts(out, in); err != nil {
		if errors.Is(err, graph.ErrInvalidPortPair) {
			s.reject("direction")
		}
		return err
	}
	if !connected {
		return nil
	}
	outID, inID := out.Node().ID(), in.Node().ID()
	s.markDirty(outID, inID)
	s.changed(pubsub.Event{Operation: "disconnect", NodeID: outID, PeerID: inID, Port: out.Name() + "->" + in.Name()})
	return nil
}
