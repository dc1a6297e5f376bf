package intercept

import (
	"reflect"

	nasc "github.com/toutaio/toutago-nasc-interception"
)

// Is matches exactly the key type of T.
func Is[T any]() Predicate {
	want := nasc.Key[T]()
	return func(t reflect.Type) bool {
		return t == want
	}
}

// Assignable matches the key type of T and, when T is an interface, every
// service type that implements it directly or through its pointer.
func Assignable[T any]() Predicate {
	want := nasc.Key[T]()
	return func(t reflect.Type) bool {
		return implements(t, want)
	}
}

// InPackage matches service types declared in the package with the given import path.
//
// Every matched service must be proxyable. A concrete struct with no func
// fields and no registered class factory fails to resolve with a
// *proxy.ProxyError rather than being returned unproxied, so narrow broad
// predicates with Not when a package also holds plain structs:
//
//	intercept.All(
//	    intercept.InPackage("example.com/app/services"),
//	    intercept.Not(intercept.Is[services.Config]()),
//	)
func InPackage(path string) Predicate {
	return func(t reflect.Type) bool {
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		return t.PkgPath() == path
	}
}

// All matches when every one of preds matches.
func All(preds ...Predicate) Predicate {
	return func(t reflect.Type) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one of preds matches.
func Any(preds ...Predicate) Predicate {
	return func(t reflect.Type) bool {
		for _, p := range preds {
			if p(t) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(t reflect.Type) bool {
		return !p(t)
	}
}

func implements(t, iface reflect.Type) bool {
	if t == iface {
		return true
	}
	if iface.Kind() != reflect.Interface {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && reflect.PtrTo(t).Implements(iface)
}
