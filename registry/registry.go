// Package registry provides thread-safe storage and retrieval of dependency bindings.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Binding maps a service key type to the recipe used to construct it.
type Binding struct {
	// AbstractType is the key the service is requested by (e.g. the Logger interface).
	AbstractType reflect.Type

	// ConcreteType is the produced type (e.g. *ConsoleLogger).
	// Nil for factory bindings.
	ConcreteType reflect.Type

	// Lifetime is one of "transient", "singleton", "scoped", "factory".
	Lifetime string

	// Factory holds the container's FactoryFunc for factory bindings.
	Factory interface{}

	// Constructor holds parsed constructor metadata for constructor bindings.
	Constructor interface{}

	// Instance holds a pre-built value for instance bindings.
	Instance interface{}

	// Name is set for named bindings.
	Name string
}

// String renders the binding for logs and validation reports.
func (b *Binding) String() string {
	if b.Name != "" {
		return fmt.Sprintf("%v[%s] (%s)", b.AbstractType, b.Name, b.Lifetime)
	}
	return fmt.Sprintf("%v (%s)", b.AbstractType, b.Lifetime)
}

// Registry provides thread-safe storage for bindings.
// It uses maps keyed by reflect.Type for O(1) lookups.
type Registry struct {
	mu            sync.RWMutex
	bindings      map[reflect.Type]*Binding
	namedBindings map[reflect.Type]map[string]*Binding
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		bindings:      make(map[reflect.Type]*Binding),
		namedBindings: make(map[reflect.Type]map[string]*Binding),
	}
}

// Register stores a default (unnamed) binding.
// Returns *BindingAlreadyExistsError if the key is already bound.
//
// This method is goroutine-safe.
func (r *Registry) Register(binding *Binding) error {
	if binding == nil {
		return fmt.Errorf("binding cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[binding.AbstractType]; exists {
		return &BindingAlreadyExistsError{Type: binding.AbstractType}
	}

	r.bindings[binding.AbstractType] = binding
	return nil
}

// Get retrieves the default binding for a key type.
//
// This method is goroutine-safe.
func (r *Registry) Get(abstractType reflect.Type) (*Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, exists := r.bindings[abstractType]
	if !exists {
		return nil, &BindingNotFoundError{Type: abstractType}
	}

	return binding, nil
}

// Has reports whether a default binding exists for the key type.
//
// This method is goroutine-safe.
func (r *Registry) Has(abstractType reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.bindings[abstractType]
	return exists
}

// RegisterNamed stores a named binding.
// Multiple bindings of the same key type can coexist under different names.
//
// This method is goroutine-safe.
func (r *Registry) RegisterNamed(binding *Binding) error {
	if binding == nil {
		return fmt.Errorf("binding cannot be nil")
	}
	if binding.Name == "" {
		return fmt.Errorf("named binding must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	named := r.namedBindings[binding.AbstractType]
	if named == nil {
		named = make(map[string]*Binding)
		r.namedBindings[binding.AbstractType] = named
	}

	if _, exists := named[binding.Name]; exists {
		return &BindingAlreadyExistsError{Type: binding.AbstractType, Name: binding.Name}
	}

	named[binding.Name] = binding
	return nil
}

// GetNamed retrieves a binding by key type and name.
//
// This method is goroutine-safe.
func (r *Registry) GetNamed(abstractType reflect.Type, name string) (*Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, exists := r.namedBindings[abstractType][name]
	if !exists {
		return nil, &BindingNotFoundError{Type: abstractType, Name: name}
	}

	return binding, nil
}

// GetAll returns the default binding (if any) followed by the named bindings
// of a key type, ordered by name.
//
// This method is goroutine-safe.
func (r *Registry) GetAll(abstractType reflect.Type) []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Binding
	if binding, exists := r.bindings[abstractType]; exists {
		result = append(result, binding)
	}

	named := r.namedBindings[abstractType]
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		result = append(result, named[name])
	}

	return result
}

// All returns every binding in the registry ordered by key type and name.
func (r *Registry) All() []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		result = append(result, b)
	}
	for _, named := range r.namedBindings {
		for _, b := range named {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		ti, tj := result[i].AbstractType.String(), result[j].AbstractType.String()
		if ti != tj {
			return ti < tj
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// BindingAlreadyExistsError is returned when attempting to register a duplicate binding.
type BindingAlreadyExistsError struct {
	Type reflect.Type
	Name string
}

func (e *BindingAlreadyExistsError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("named binding '%s' for type %v already exists", e.Name, e.Type)
	}
	return fmt.Sprintf("binding already exists for type %v", e.Type)
}

// BindingNotFoundError is returned when a requested binding does not exist.
type BindingNotFoundError struct {
	Type reflect.Type
	Name string
}

func (e *BindingNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("named binding '%s' for type %v not found", e.Name, e.Type)
	}
	return fmt.Sprintf("binding not found for type %v", e.Type)
}
