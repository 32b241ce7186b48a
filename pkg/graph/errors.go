package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNotFound        = errors.New("not found")
	ErrNodeNotFound    = fmt.Errorf("node %w", ErrNotFound)
	ErrPortNotFound    = fmt.Errorf("port %w", ErrNotFound)
	ErrGroupNotFound   = fmt.Errorf("group %w", ErrNotFound)
	ErrInvalidTemplate = errors.New("invalid node template")
	ErrDuplicatePort   = errors.New("duplicate port name")
	ErrDuplicateNode   = errors.New("duplicate node id")
	ErrCycleDetected   = errors.New("cycle detected")
	ErrInvalidPortPair = errors.New("ports cannot be connected")
	ErrNodeAttached    = errors.New("node already belongs to a graph")
	ErrNilNode         = errors.New("node is nil")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "RemoveNode", "ConnectPorts")
	Entity string // Entity type ("node", "port", "group", "kind")
	ID     string // Entity id, kind name or node id owning the port
	Port   string // Port name (for port entities)
	Dir    string // Port direction (for port entities)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch {
	case e.Port != "" && e.Dir != "":
		return fmt.Sprintf("%s %s %s:%s (%s): %v", e.Op, e.Entity, e.ID, e.Port, e.Dir, e.Cause)
	case e.Port != "":
		return fmt.Sprintf("%s %s %s:%s: %v", e.Op, e.Entity, e.ID, e.Port, e.Cause)
	case e.ID != "":
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Cause)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given id.
func (b *ErrorBuilder) Node(id string) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.ID = id
	return b
}

// Port sets the entity to "port" on the given node.
func (b *ErrorBuilder) Port(nodeID, name string, dir Direction) *ErrorBuilder {
	b.err.Entity = "port"
	b.err.ID = nodeID
	b.err.Port = name
	b.err.Dir = dir.String()
	return b
}

// Group sets the entity to "group" with the given id.
func (b *ErrorBuilder) Group(id string) *ErrorBuilder {
	b.err.Entity = "group"
	b.err.ID = id
	return b
}

// Kind sets the entity to "kind" with the given kind tag.
func (b *ErrorBuilder) Kind(kind string) *ErrorBuilder {
	b.err.Entity = "kind"
	b.err.ID = kind
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed GraphError.
func (b *ErrorBuilder) Build() *GraphError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// NodeNotFoundError creates a node not found error.
func NodeNotFoundError(op, id string) error {
	return NewError(op).Node(id).Cause(ErrNodeNotFound).Err()
}

// PortNotFoundError creates a port not found error.
func PortNotFoundError(op, nodeID, name string, dir Direction) error {
	return NewError(op).Port(nodeID, name, dir).Cause(ErrPortNotFound).Err()
}

// GroupNotFoundError creates a group not found error.
func GroupNotFoundError(op, id string) error {
	return NewError(op).Group(id).Cause(ErrGroupNotFound).Err()
}

// InvalidTemplateError reports a kind tag that cannot be constructed.
func InvalidTemplateError(kind string, cause error) error {
	if cause == nil {
		cause = ErrInvalidTemplate
	} else {
		cause = fmt.Errorf("%w: %w", ErrInvalidTemplate, cause)
	}
	return NewError("AddNode").Kind(kind).Cause(cause).Err()
}

// IsNotFound reports whether err is any not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidTemplate reports whether err is an invalid template error.
func IsInvalidTemplate(err error) bool {
	return errors.Is(err, ErrInvalidTemplate)
}
