package nasc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Disposable represents a service that requires cleanup.
// Scoped instances implementing it are disposed when their scope is.
//
// Example:
//
//	type DatabaseConnection struct {}
//	func (d *DatabaseConnection) Dispose() error {
//	    return d.connection.Close()
//	}
type Disposable interface {
	Dispose() error
}

// Initializable represents a service that requires initialization.
// Initialize runs right after the instance is constructed, before any build
// rule decorates it.
type Initializable interface {
	Initialize() error
}

// ErrScopeDisposed is returned when resolving from a disposed scope.
var ErrScopeDisposed = errors.New("cannot resolve from disposed scope")

// Scope represents an isolated dependency resolution context.
// Scoped bindings create one instance per scope, allowing for request-scoped
// or transaction-scoped dependencies. Singletons are shared with the container.
//
// Example:
//
//	scope := container.CreateScope()
//	defer scope.Dispose()
//
//	uow := scope.Make((*UnitOfWork)(nil)).(UnitOfWork)
type Scope struct {
	parent    *Nasc
	instances *instanceCache

	mu            sync.Mutex
	creationOrder []interface{}
	children      []*Scope
	disposed      bool
}

func newScope(parent *Nasc) *Scope {
	return &Scope{
		parent:    parent,
		instances: newInstanceCache(),
	}
}

// Make resolves an instance within this scope. It panics on failure.
//
// Example:
//
//	service := scope.Make((*Service)(nil)).(Service)
func (s *Scope) Make(abstractType interface{}) interface{} {
	instance, err := s.MakeSafe(abstractType)
	if err != nil {
		panic(err)
	}
	return instance
}

// MakeSafe resolves an instance within this scope and returns any failure.
func (s *Scope) MakeSafe(abstractType interface{}) (interface{}, error) {
	if abstractType == nil {
		return nil, &ResolutionError{Context: "cannot resolve nil type"}
	}

	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()

	key := KeyOf(abstractType)
	if disposed {
		return nil, &ResolutionError{Type: key, Cause: ErrScopeDisposed}
	}

	instance, err := s.parent.resolveKey(key, "", &resolution{scope: s})
	if err != nil {
		return nil, &ResolutionError{Type: key, Cause: err}
	}
	return instance, nil
}

func (s *Scope) resolveScoped(key cacheKey, factory func() (interface{}, error)) (interface{}, error) {
	return s.instances.getOrCreate(key, factory)
}

// track records a scoped instance for disposal.
func (s *Scope) track(instance interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creationOrder = append(s.creationOrder, instance)
}

// CreateChildScope creates a child scope with its own scoped instances.
// Child scopes are disposed when the parent is disposed.
func (s *Scope) CreateChildScope() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		panic("cannot create child scope from disposed scope")
	}

	child := newScope(s.parent)
	s.children = append(s.children, child)
	return child
}

// Dispose releases resources held by this scope.
// Child scopes are disposed first, then every Disposable scoped instance in
// reverse creation order. Disposing twice is a no-op.
func (s *Scope) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	children, created := s.children, s.creationOrder
	s.children, s.creationOrder = nil, nil
	s.mu.Unlock()

	var result *multierror.Error
	for _, child := range children {
		if err := child.Dispose(); err != nil {
			result = multierror.Append(result, fmt.Errorf("child scope disposal error: %w", err))
		}
	}

	for i := len(created) - 1; i >= 0; i-- {
		if disposable, ok := created[i].(Disposable); ok {
			if err := disposable.Dispose(); err != nil {
				result = multierror.Append(result, fmt.Errorf("disposal error for %T: %w", created[i], err))
			}
		}
	}

	s.instances.reset()
	return result.ErrorOrNil()
}
