package editor

import (
	"time"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/pubsub"
	"github.com/dd0wney/cluso-nodegraph/pkg/snapshot"
)

// Copy serializes the selected nodes, with the connections among them, to
// clipboard text.
func (s *Session) Copy(ids []string) (string, error) {
	start := time.Now()
	doc, err := snapshot.CopySubgraph(s.g, ids)
	if err != nil {
		return "", s.finish("copy", start, err)
	}
	text, err := snapshot.EncodeClipboard(doc, s.compress)
	if err != nil {
		return "", s.finish("copy", start, err)
	}
	return text, s.finish("copy", start, nil, logging.Count(len(doc.Nodes)))
}

// CanPaste reports whether text holds a copied selection.
func (s *Session) CanPaste(text string) bool {
	return snapshot.CanDecode(text)
}

// Paste adds the nodes in clipboard text under fresh ids, offset by
// offset, re-links their internal connections and marks them dirty. It
// returns the new ids in clipboard order.
func (s *Session) Paste(text string, offset graph.Position) ([]string, error) {
	start := time.Now()
	doc, err := snapshot.DecodeClipboard(text)
	if err != nil {
		return nil, s.finish("paste", start, err)
	}
	pasted, rep, err := snapshot.Instantiate(s.g, doc, offset)
	if err != nil {
		return nil, s.finish("paste", start, err)
	}
	for _, w := range rep.Warnings {
		s.logger.Warn("paste", logging.String("warning", w))
	}
	s.markDirty(pasted.Nodes...)
	for _, id := range pasted.Nodes {
		s.changed(pubsub.Event{Operation: "paste", NodeID: id})
	}
	return pasted.Nodes, s.finish("paste", start, nil, logging.Count(len(pasted.Nodes)))
}

// Duplicate copies and pastes ids in one step.
func (s *Session) Duplicate(ids []string, offset graph.Position) ([]string, error) {
	text, err := s.Copy(ids)
	if err != nil {
		return nil, err
	}
	return s.Paste(text, offset)
}
