package nodekind

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/validation"
)

var (
	ErrRegistrySealed = errors.New("kind registry is sealed")
	ErrDuplicateKind  = errors.New("kind already registered")
	ErrUnknownKind    = fmt.Errorf("%w: unknown kind", graph.ErrInvalidTemplate)
)

// UpdateFunc recomputes a node's payload from its inputs.
type UpdateFunc func(n *graph.Node) error

// Kind describes how to build and update one type of node.
type Kind struct {
	Name        string           `validate:"required,kindname"`
	DisplayName string           `validate:"required,max=64"`
	Category    string           `validate:"max=64"`
	Inputs      []graph.PortSpec `validate:"dive"`
	Outputs     []graph.PortSpec `validate:"dive"`
	Defaults    map[string]any
	Update      UpdateFunc
}

// Registry is a closed set of node kinds. It is filled at startup and
// sealed before the editing session begins; lookups are safe from any
// goroutine.
type Registry struct {
	mu     sync.RWMutex
	kinds  map[string]Kind
	sealed bool
	logger logging.Logger
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		kinds:  make(map[string]Kind),
		logger: logging.OrNop(logger).With(logging.Component("nodekind")),
	}
}

// Register validates k and adds it.
func (r *Registry) Register(k Kind) error {
	if err := validateKind(k); err != nil {
		return fmt.Errorf("register kind %q: %w", k.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("register kind %q: %w", k.Name, ErrRegistrySealed)
	}
	if _, dup := r.kinds[k.Name]; dup {
		return fmt.Errorf("register kind %q: %w", k.Name, ErrDuplicateKind)
	}
	k.Inputs = slices.Clone(k.Inputs)
	k.Outputs = slices.Clone(k.Outputs)
	k.Defaults = graph.ClonePayload(k.Defaults)
	r.kinds[k.Name] = k

	r.logger.Debug("kind registered", logging.Kind(k.Name), logging.Count(len(k.Inputs)+len(k.Outputs)))
	return nil
}

func validateKind(k Kind) error {
	if err := validation.Struct(k); err != nil {
		return err
	}
	for key := range k.Defaults {
		if err := validation.ValidatePayloadKey(key); err != nil {
			return err
		}
	}
	// building once catches duplicate port names per direction
	_, err := graph.NewNode(k.Name, k.DisplayName, k.Inputs, k.Outputs)
	return err
}

// MustRegister is Register for static kind tables; it panics on error.
func (r *Registry) MustRegister(kinds ...Kind) *Registry {
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}
	return r
}

// Seal stops further registration.
func (r *Registry) Seal() *Registry {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
	return r
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds returns every registered kind sorted by name.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Collect(maps.Values(r.kinds))
	slices.SortFunc(out, func(a, b Kind) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Construct builds a detached node of the named kind with its default
// payload. It implements graph.Resolver.
func (r *Registry) Construct(name string) (*graph.Node, error) {
	k, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
	n, err := graph.NewNode(k.Name, k.DisplayName, k.Inputs, k.Outputs)
	if err != nil {
		return nil, err
	}
	maps.Copy(n.Payload, graph.ClonePayload(k.Defaults))
	return n, nil
}

// Hook returns an update hook dispatching to each node's kind. Nodes of
// kinds without an Update func are left as they are.
func (r *Registry) Hook() func(n *graph.Node) error {
	return func(n *graph.Node) error {
		k, ok := r.Lookup(n.Kind)
		if !ok {
			return fmt.Errorf("update node %s: %w %q", n.ID(), ErrUnknownKind, n.Kind)
		}
		if k.Update == nil {
			return nil
		}
		return k.Update(n)
	}
}
