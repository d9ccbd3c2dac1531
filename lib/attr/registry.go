package attr

import (
	"errors"
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// ErrUnknownType is returned if no factory is registered for a subject type name
var ErrUnknownType = errors.New("unknown subject type")

// Factory creates a new, default constructed subject
type Factory func() Subject

// Registry maps subject type names to factories
type Registry struct {
	factories *xsync.MapOf[string, Factory]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: xsync.NewMapOf[string, Factory]()}
}

// DefaultRegistry is used by the package level Register and Create functions.
// Subject packages register themselves here in their init function.
var DefaultRegistry = NewRegistry()

// Register adds a factory for the given type name.
// Registering the same type name twice is an error.
func (r *Registry) Register(typeName string, factory Factory) error {
	if _, loaded := r.factories.LoadOrStore(typeName, factory); loaded {
		return fmt.Errorf("subject type %q already registered", typeName)
	}
	return nil
}

// Create creates a new subject of the given type
func (r *Registry) Create(typeName string) (Subject, error) {
	factory, ok := r.factories.Load(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	return factory(), nil
}

// Types returns all registered type names in sorted order
func (r *Registry) Types() []string {
	types := make([]string, 0, r.factories.Size())
	r.factories.Range(func(name string, _ Factory) bool {
		types = append(types, name)
		return true
	})
	sort.Strings(types)
	return types
}

// Register adds a factory to the DefaultRegistry and panics on duplicates
func Register(typeName string, factory Factory) {
	if err := DefaultRegistry.Register(typeName, factory); err != nil {
		panic(err)
	}
}

// Create creates a subject using the DefaultRegistry
func Create(typeName string) (Subject, error) {
	return DefaultRegistry.Create(typeName)
}
