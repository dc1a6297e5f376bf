package intercept

import (
	"fmt"
	"reflect"

	nasc "github.com/toutaio/toutago-nasc-interception"
	"github.com/toutaio/toutago-nasc-interception/proxy"
)

// Intercept proxies interface T and every service type implementing it.
// The proxy always exposes T. Interceptor tokens such as
// (*AuditInterceptor)(nil) are resolved from the container on each
// construction; an unregistered one fails that resolution with the
// container's usual error.
//
// Intercept fails immediately when T is not an interface or no proxy is
// registered for it.
//
// Example:
//
//	intercept.Intercept[Greeter](container, (*AuditInterceptor)(nil), (*TimingInterceptor)(nil))
func Intercept[T any](c *nasc.Nasc, interceptors ...interface{}) error {
	return InterceptWithGenerator[T](c, proxy.Default, interceptors...)
}

// InterceptWithGenerator is Intercept with proxies created by g instead of
// proxy.Default.
//
// Example:
//
//	gen := proxy.NewGenerator()
//	RegisterProxies(gen)
//	intercept.InterceptWithGenerator[Greeter](container, gen, (*AuditInterceptor)(nil))
func InterceptWithGenerator[T any](c *nasc.Nasc, g *proxy.Generator, interceptors ...interface{}) error {
	iface := reflect.TypeOf((*T)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return &RegistrationError{Type: iface, Reason: "Intercept requires an interface type"}
	}

	keys, err := tokenKeys(interceptors, false)
	if err != nil {
		return err
	}

	rule := NewRule(Assignable[T](), resolveAll(keys),
		WithProxyType(iface),
		WithGenerator(g),
		WithName(fmt.Sprintf("intercept[%v]", iface)))
	return Register(c, rule)
}

// InterceptWithType proxies services matching match with a single interceptor
// of type I resolved from the container. The container must already be able to
// construct I; otherwise nothing is registered.
//
// Example:
//
//	container.Bind((*AuditInterceptor)(nil), &AuditInterceptor{})
//	intercept.InterceptWithType[*AuditInterceptor](container, intercept.InPackage("example.com/app/services"))
func InterceptWithType[I proxy.Interceptor](c *nasc.Nasc, match Predicate) error {
	key := nasc.Key[I]()
	if c == nil {
		return &RegistrationError{Type: key, Reason: "container cannot be nil"}
	}
	if err := c.CanResolve(key); err != nil {
		return &RegistrationError{Type: key, Reason: "interceptor cannot be constructed", Err: err}
	}

	return Register(c, NewRule(match, resolveAll([]reflect.Type{key}),
		WithName(fmt.Sprintf("interceptWithType[%v]", key))))
}

// InterceptWithInstances proxies services matching match with exactly the
// given interceptors, in order. Nothing is resolved from the container.
func InterceptWithInstances(c *nasc.Nasc, match Predicate, interceptors ...proxy.Interceptor) error {
	for i, interceptor := range interceptors {
		if interceptor == nil {
			return &RegistrationError{Reason: fmt.Sprintf("interceptor %d is nil", i), Err: ErrNilInterceptor}
		}
	}
	fixed := append([]proxy.Interceptor(nil), interceptors...)

	return Register(c, NewRule(match, func(*Context) ([]proxy.Interceptor, error) {
		return fixed, nil
	}, WithName("interceptWithInstances")))
}

// InterceptWithTypes proxies services matching match with interceptors
// resolved from the container by token. Every token must name a type that
// implements proxy.Interceptor; if one does not, an *InterceptorTypeError is
// returned and no rule is installed.
func InterceptWithTypes(c *nasc.Nasc, match Predicate, interceptors ...interface{}) error {
	keys, err := tokenKeys(interceptors, true)
	if err != nil {
		return err
	}
	return Register(c, NewRule(match, resolveAll(keys), WithName("interceptWithTypes")))
}

// InterceptWithFunc proxies services matching match with one interceptor
// created by create on every construction.
func InterceptWithFunc(c *nasc.Nasc, match Predicate, create func() proxy.Interceptor) error {
	if create == nil {
		return &RegistrationError{Reason: "interceptor func cannot be nil"}
	}
	return InterceptWithContextFuncs(c, match, func(*Context) []proxy.Interceptor {
		return []proxy.Interceptor{create()}
	})
}

// InterceptWithContextFunc is InterceptWithFunc with access to the
// construction being intercepted.
//
// Example:
//
//	intercept.InterceptWithContextFunc(container, intercept.Is[Greeter](), func(ctx *intercept.Context) proxy.Interceptor {
//	    return interceptors.Logging(logger.With().Str("service", ctx.ServiceType.String()).Logger())
//	})
func InterceptWithContextFunc(c *nasc.Nasc, match Predicate, create func(ctx *Context) proxy.Interceptor) error {
	if create == nil {
		return &RegistrationError{Reason: "interceptor func cannot be nil"}
	}
	return InterceptWithContextFuncs(c, match, func(ctx *Context) []proxy.Interceptor {
		return []proxy.Interceptor{create(ctx)}
	})
}

// InterceptWithFuncs proxies services matching match with the interceptors
// create returns on every construction.
func InterceptWithFuncs(c *nasc.Nasc, match Predicate, create func() []proxy.Interceptor) error {
	if create == nil {
		return &RegistrationError{Reason: "interceptor func cannot be nil"}
	}
	return InterceptWithContextFuncs(c, match, func(*Context) []proxy.Interceptor {
		return create()
	})
}

// InterceptWithContextFuncs is InterceptWithFuncs with access to the
// construction being intercepted.
func InterceptWithContextFuncs(c *nasc.Nasc, match Predicate, create func(ctx *Context) []proxy.Interceptor) error {
	if create == nil {
		return &RegistrationError{Reason: "interceptor func cannot be nil"}
	}
	return Register(c, NewRule(match, func(ctx *Context) ([]proxy.Interceptor, error) {
		return create(ctx), nil
	}, WithName("interceptWithFuncs")))
}

// tokenKeys converts interceptor tokens to key types. With check set, every
// key must implement proxy.Interceptor.
func tokenKeys(tokens []interface{}, check bool) ([]reflect.Type, error) {
	keys := make([]reflect.Type, 0, len(tokens))
	for i, token := range tokens {
		key := nasc.KeyOf(token)
		if key == nil {
			return nil, &RegistrationError{Reason: fmt.Sprintf("interceptor token %d is nil", i)}
		}
		if check && !proxy.Implements(key) {
			return nil, &InterceptorTypeError{Type: key}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// resolveAll resolves each key as part of the intercepted construction, so
// scoped interceptors come from the same scope and cycles through an
// interceptor are detected. Resolution errors are returned as the container
// reports them.
func resolveAll(keys []reflect.Type) Source {
	return func(ctx *Context) ([]proxy.Interceptor, error) {
		interceptors := make([]proxy.Interceptor, 0, len(keys))
		for _, key := range keys {
			instance, err := ctx.Resolve(key)
			if err != nil {
				return nil, err
			}
			interceptor, ok := instance.(proxy.Interceptor)
			if !ok {
				return nil, &InterceptorTypeError{Type: reflect.TypeOf(instance)}
			}
			interceptors = append(interceptors, interceptor)
		}
		return interceptors, nil
	}
}
