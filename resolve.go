package nasc

import (
	"fmt"
	"reflect"

	"github.com/toutaio/toutago-nasc-interception/registry"
)

// resolution tracks one top-level resolution request: the keys currently
// under construction (for cycle detection) and the scope, if any.
type resolution struct {
	path  []reflect.Type
	scope *Scope
}

func (r *resolution) enter(key reflect.Type) (*resolution, error) {
	for i, t := range r.path {
		if t == key {
			names := make([]string, 0, len(r.path)-i+1)
			for _, p := range r.path[i:] {
				names = append(names, p.String())
			}
			names = append(names, key.String())
			return nil, &CircularDependencyError{Path: names}
		}
	}

	path := make([]reflect.Type, len(r.path), len(r.path)+1)
	copy(path, r.path)
	return &resolution{path: append(path, key), scope: r.scope}, nil
}

// resolveKey looks up the default or named binding for key and builds it.
func (n *Nasc) resolveKey(key reflect.Type, name string, res *resolution) (interface{}, error) {
	var (
		binding *registry.Binding
		err     error
	)
	if name != "" {
		binding, err = n.registry.GetNamed(key, name)
	} else {
		binding, err = n.registry.Get(key)
	}
	if err != nil {
		return nil, err
	}
	return n.resolveBinding(binding, res)
}

// resolveBinding produces an instance honoring the binding's lifetime.
func (n *Nasc) resolveBinding(b *registry.Binding, res *resolution) (interface{}, error) {
	res, err := res.enter(b.AbstractType)
	if err != nil {
		return nil, err
	}

	key := cacheKey{typ: b.AbstractType, name: b.Name}

	switch Lifetime(b.Lifetime) {
	case LifetimeTransient, LifetimeFactory:
		return n.construct(b, res)

	case LifetimeSingleton:
		// A singleton must not capture scoped dependencies.
		detached := &resolution{path: res.path}
		return n.singletons.getOrCreate(key, func() (interface{}, error) {
			return n.construct(b, detached)
		})

	case LifetimeScoped:
		if res.scope == nil {
			return nil, fmt.Errorf("scoped binding for type %v must be resolved using Scope.Make(), not container.Make()", b.AbstractType)
		}
		return res.scope.resolveScoped(key, func() (interface{}, error) {
			return n.construct(b, res)
		})

	default:
		return nil, fmt.Errorf("unknown lifetime %s for type %v", b.Lifetime, b.AbstractType)
	}
}

// construct runs the binding's activator after the build pipeline had its say.
func (n *Nasc) construct(b *registry.Binding, res *resolution) (interface{}, error) {
	event := &BuildEvent{
		ServiceType: b.AbstractType,
		Name:        b.Name,
		Lifetime:    Lifetime(b.Lifetime),
		Activator:   n.activator(b, res),
		Container:   n,
		res:         res,
	}
	return n.applyRules(event)()
}

// activator returns the base construction for a binding: the instance as the
// binding describes it, initialized, and tracked by the scope for disposal.
func (n *Nasc) activator(b *registry.Binding, res *resolution) Activator {
	var create Activator
	switch {
	case b.Instance != nil:
		instance := b.Instance
		create = func() (interface{}, error) { return instance, nil }

	case b.Factory != nil:
		factory := b.Factory.(FactoryFunc)
		create = func() (interface{}, error) {
			instance, err := factory(n)
			if err != nil {
				return nil, fmt.Errorf("factory function failed: %w", err)
			}
			return instance, nil
		}

	case b.Constructor != nil:
		info := b.Constructor.(*constructorInfo)
		create = func() (interface{}, error) { return n.invokeConstructor(info, res) }

	default:
		concrete := b.ConcreteType.Elem()
		create = func() (interface{}, error) { return reflect.New(concrete).Interface(), nil }
	}

	return func() (interface{}, error) {
		instance, err := create()
		if err != nil {
			return nil, err
		}
		if initializable, ok := instance.(Initializable); ok && b.Instance == nil {
			if err := initializable.Initialize(); err != nil {
				return nil, fmt.Errorf("failed to initialize instance of type %v: %w", b.AbstractType, err)
			}
		}
		if res.scope != nil && Lifetime(b.Lifetime) == LifetimeScoped {
			res.scope.track(instance)
		}
		return instance, nil
	}
}
