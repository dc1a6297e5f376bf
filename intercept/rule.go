// Package intercept installs interception proxies into a Nasc container.
//
// Each registration adds one Rule to the container's build pipeline. When a
// service whose type satisfies the rule's Predicate is constructed, the rule
// builds the real instance with the original activator, obtains interceptors
// from its Source, and returns a proxy that forwards to the instance through
// them.
//
//	container := nasc.New()
//	container.Bind((*Greeter)(nil), &EnglishGreeter{})
//	container.Bind((*AuditInterceptor)(nil), &AuditInterceptor{})
//
//	if err := intercept.Intercept[Greeter](container, (*AuditInterceptor)(nil)); err != nil {
//	    log.Fatal(err)
//	}
//	greeter := container.Make((*Greeter)(nil)).(Greeter) // a proxy
//
// Interface services need a forwarding wrapper registered with the proxy
// generator (see nasc-proxygen). Concrete func and func-field struct services
// are proxied without one.
package intercept

import (
	"errors"
	"fmt"
	"reflect"

	nasc "github.com/toutaio/toutago-nasc-interception"
	"github.com/toutaio/toutago-nasc-interception/proxy"
)

// ErrNilInterceptor is returned when a Source yields a nil interceptor.
var ErrNilInterceptor = errors.New("interceptor source returned a nil interceptor")

// Predicate selects the service types a rule intercepts.
type Predicate func(serviceType reflect.Type) bool

// Context is what a Source sees for one intercepted construction.
// Container and Resolve come from the build event: Resolve continues the
// construction in progress, keeping its scope and dependency path.
type Context struct {
	*nasc.BuildEvent
}

// Source produces the interceptors for one intercepted construction.
// It is called once per construction, after the target has been built.
type Source func(ctx *Context) ([]proxy.Interceptor, error)

// Rule is a nasc.BuildRule that substitutes interception proxies.
// Its predicate, source and proxy type are fixed once created.
type Rule struct {
	name      string
	match     Predicate
	source    Source
	proxyType reflect.Type
	generator *proxy.Generator
}

// RuleOption configures a Rule.
type RuleOption func(*Rule)

// WithProxyType makes the rule expose t instead of the requested service type.
func WithProxyType(t reflect.Type) RuleOption {
	return func(r *Rule) {
		r.proxyType = t
	}
}

// WithGenerator sets the proxy generator. The default is proxy.Default.
func WithGenerator(g *proxy.Generator) RuleOption {
	return func(r *Rule) {
		r.generator = g
	}
}

// WithName labels the rule in log output.
func WithName(name string) RuleOption {
	return func(r *Rule) {
		r.name = name
	}
}

// NewRule creates a rule from a predicate and an interceptor source.
func NewRule(match Predicate, source Source, opts ...RuleOption) *Rule {
	r := &Rule{
		match:     match,
		source:    source,
		generator: proxy.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates rule and appends it to the container's build pipeline.
// A rule with a fixed proxy type fails here, rather than at resolution, when
// the generator cannot proxy that type.
func Register(c *nasc.Nasc, rule *Rule) error {
	if c == nil {
		return &RegistrationError{Reason: "container cannot be nil"}
	}
	if rule == nil || rule.match == nil || rule.source == nil {
		return &RegistrationError{Reason: "rule needs a predicate and an interceptor source"}
	}
	if rule.generator == nil {
		return &RegistrationError{Reason: "rule has no proxy generator"}
	}
	if rule.proxyType != nil && !rule.generator.CanProxy(rule.proxyType) {
		return &RegistrationError{
			Type:   rule.proxyType,
			Reason: "proxy generator cannot proxy this type",
			Err:    proxy.ErrNoProxy,
		}
	}

	if err := c.AddBuildRule(rule); err != nil {
		return &RegistrationError{Reason: "container rejected rule", Err: err}
	}

	c.Logger().Debug().
		Str("rule", rule.String()).
		Msg("interception rule registered")
	return nil
}

// Matches reports whether serviceType is intercepted by this rule.
// Interceptors themselves are never intercepted.
func (r *Rule) Matches(serviceType reflect.Type) bool {
	if serviceType == nil || proxy.Implements(serviceType) {
		return false
	}
	return r.match(serviceType)
}

// Rewrite wraps the event's activator so it returns a proxy around the
// instance the original activator builds. A rule added with
// nasc.WithBuildRules or AddBuildRule works the same as one installed by
// Register, since everything it needs arrives on the event.
func (r *Rule) Rewrite(event *nasc.BuildEvent) nasc.Activator {
	proxyType := r.proxyType
	if proxyType == nil {
		proxyType = event.ServiceType
	}
	ctx := &Context{BuildEvent: event}

	return func() (interface{}, error) {
		target, err := event.Activator()
		if err != nil {
			return nil, err
		}

		interceptors, err := r.source(ctx)
		if err != nil {
			return nil, err
		}
		for i, interceptor := range interceptors {
			if interceptor == nil {
				return nil, fmt.Errorf("intercept %v: position %d: %w", event.ServiceType, i, ErrNilInterceptor)
			}
		}

		p, err := r.createProxy(proxyType, target, interceptors)
		if err != nil {
			return nil, err
		}

		if event.Container != nil {
			event.Container.Logger().Debug().
				Str("service", event.ServiceType.String()).
				Str("proxy", proxyType.String()).
				Int("interceptors", len(interceptors)).
				Msg("proxy created")
		}
		return p, nil
	}
}

func (r *Rule) createProxy(proxyType reflect.Type, target interface{}, interceptors []proxy.Interceptor) (interface{}, error) {
	if proxyType.Kind() == reflect.Interface {
		return r.generator.CreateInterfaceProxyWithTarget(proxyType, target, interceptors...)
	}
	return r.generator.CreateClassProxyWithTarget(proxyType, target, interceptors...)
}

// String describes the rule for logs.
func (r *Rule) String() string {
	name := r.name
	if name == "" {
		name = "rule"
	}
	if r.proxyType != nil {
		return fmt.Sprintf("%s(proxy=%v)", name, r.proxyType)
	}
	return name
}
