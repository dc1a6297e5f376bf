package proxy

import (
	"fmt"
	"reflect"
	"sync"
)

// Factory builds a proxy value around a Dispatcher.
type Factory func(d *Dispatcher) interface{}

// Generator creates proxies. It holds the interface wrappers and class
// factories registered with it.
//
// This type is goroutine-safe.
type Generator struct {
	mu         sync.RWMutex
	interfaces map[reflect.Type]Factory
	classes    map[reflect.Type]Factory
}

// Default is the process-wide generator. Generated RegisterProxies functions
// are usually called with it from an init function.
var Default = NewGenerator()

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{
		interfaces: make(map[reflect.Type]Factory),
		classes:    make(map[reflect.Type]Factory),
	}
}

// RegisterInterface registers the forwarding wrapper factory for iface.
// Registering the same interface again replaces the factory.
func (g *Generator) RegisterInterface(iface reflect.Type, factory Factory) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return &ProxyError{Type: iface, Reason: "RegisterInterface requires an interface type"}
	}
	if factory == nil {
		return &ProxyError{Type: iface, Reason: "factory cannot be nil"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.interfaces[iface] = factory
	return nil
}

// RegisterInterfaceProxy registers a typed wrapper factory for interface T.
//
// Example:
//
//	proxy.RegisterInterfaceProxy[Greeter](g, func(d *proxy.Dispatcher) Greeter {
//	    return greeterProxy{d: d}
//	})
func RegisterInterfaceProxy[T any](g *Generator, factory func(d *Dispatcher) T) error {
	iface := reflect.TypeOf((*T)(nil)).Elem()
	if factory == nil {
		return &ProxyError{Type: iface, Reason: "factory cannot be nil"}
	}
	return g.RegisterInterface(iface, func(d *Dispatcher) interface{} { return factory(d) })
}

// RegisterClass registers a proxy factory for a concrete type. It takes
// precedence over runtime synthesis for that type.
func (g *Generator) RegisterClass(class reflect.Type, factory Factory) error {
	if class == nil || class.Kind() == reflect.Interface {
		return &ProxyError{Type: class, Reason: "RegisterClass requires a concrete type"}
	}
	if factory == nil {
		return &ProxyError{Type: class, Reason: "factory cannot be nil"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.classes[class] = factory
	return nil
}

// CanProxy reports whether the generator can build a proxy exposing t.
func (g *Generator) CanProxy(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Interface {
		_, ok := g.interfaceFactory(t)
		return ok
	}
	if _, ok := g.classFactory(t); ok {
		return true
	}
	return synthesizable(t)
}

// CreateInterfaceProxyWithTarget returns a proxy implementing iface that
// forwards to target through interceptors.
func (g *Generator) CreateInterfaceProxyWithTarget(iface reflect.Type, target interface{}, interceptors ...Interceptor) (interface{}, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil, &ProxyError{Type: iface, Reason: "interface proxy requires an interface type"}
	}
	if target == nil {
		return nil, &ProxyError{Type: iface, Reason: "target cannot be nil"}
	}
	if !reflect.TypeOf(target).Implements(iface) {
		return nil, &ProxyError{Type: iface, Reason: fmt.Sprintf("target %T does not implement it", target)}
	}

	factory, ok := g.interfaceFactory(iface)
	if !ok {
		return nil, &ProxyError{Type: iface, Err: ErrNoProxy}
	}

	d, err := newDispatcher(iface, target, interceptors)
	if err != nil {
		return nil, err
	}
	return d.attach(factory, iface)
}

// CreateClassProxyWithTarget returns a proxy of the target's own concrete type
// that routes calls through interceptors. class may be the target's type or,
// for pointer targets, the pointed-to type.
//
// Without a registered factory the proxy is synthesized: a func type is wrapped
// directly, and a struct (or struct pointer) is shallow-copied with every
// non-nil exported func field wrapped.
func (g *Generator) CreateClassProxyWithTarget(class reflect.Type, target interface{}, interceptors ...Interceptor) (interface{}, error) {
	if class == nil || class.Kind() == reflect.Interface {
		return nil, &ProxyError{Type: class, Reason: "class proxy requires a concrete type"}
	}
	if target == nil {
		return nil, &ProxyError{Type: class, Reason: "target cannot be nil"}
	}

	targetType := reflect.TypeOf(target)
	if targetType != class && !(targetType.Kind() == reflect.Ptr && targetType.Elem() == class) {
		return nil, &ProxyError{Type: class, Reason: fmt.Sprintf("target %T is not a %v", target, class)}
	}

	if factory, ok := g.classFactory(targetType); ok {
		d, err := newDispatcher(targetType, target, interceptors)
		if err != nil {
			return nil, err
		}
		return d.attach(factory, targetType)
	}

	switch {
	case targetType.Kind() == reflect.Func:
		return funcProxy(targetType, target, interceptors)
	case synthesizable(targetType):
		return structProxy(targetType, target, interceptors)
	default:
		return nil, &ProxyError{Type: class, Reason: "no func fields to intercept and no class factory registered"}
	}
}

func (g *Generator) interfaceFactory(t reflect.Type) (Factory, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.interfaces[t]
	return f, ok
}

func (g *Generator) classFactory(t reflect.Type) (Factory, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if f, ok := g.classes[t]; ok {
		return f, true
	}
	if t.Kind() == reflect.Ptr {
		f, ok := g.classes[t.Elem()]
		return f, ok
	}
	return nil, false
}

// attach runs factory and checks the proxy it returns is assignable to want.
func (d *Dispatcher) attach(factory Factory, want reflect.Type) (interface{}, error) {
	p := factory(d)
	if p == nil || !reflect.TypeOf(p).AssignableTo(want) {
		return nil, &ProxyError{Type: want, Reason: fmt.Sprintf("factory returned %T", p)}
	}
	d.proxy = p
	return p, nil
}
