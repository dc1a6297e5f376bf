package proxy

import (
	"reflect"
)

// synthesizable reports whether a class proxy for t can be built with
// reflect.MakeFunc: t is a func type, or a struct or struct pointer with at
// least one exported func field.
func synthesizable(t reflect.Type) bool {
	if t.Kind() == reflect.Func {
		return true
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath == "" && f.Type.Kind() == reflect.Func {
			return true
		}
	}
	return false
}

func funcProxy(fnType reflect.Type, target interface{}, interceptors []Interceptor) (interface{}, error) {
	fn := reflect.ValueOf(target)
	if fn.IsNil() {
		return nil, &ProxyError{Type: fnType, Reason: "target func is nil"}
	}

	name := fnType.Name()
	if name == "" {
		name = "func"
	}

	d := &Dispatcher{proxyType: fnType, target: fn, interceptors: interceptors}
	call := callerFor(fn)
	p := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		return d.dispatch(name, fnType, args, call)
	}).Interface()
	d.proxy = p
	return p, nil
}

func structProxy(targetType reflect.Type, target interface{}, interceptors []Interceptor) (interface{}, error) {
	tv := reflect.ValueOf(target)
	source := tv
	if targetType.Kind() == reflect.Ptr {
		if tv.IsNil() {
			return nil, &ProxyError{Type: targetType, Reason: "target pointer is nil"}
		}
		source = tv.Elem()
	}

	structType := source.Type()
	clone := reflect.New(structType).Elem()
	clone.Set(source)

	d := &Dispatcher{proxyType: targetType, target: tv, interceptors: interceptors}
	slots := 0
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.PkgPath != "" || field.Type.Kind() != reflect.Func {
			continue
		}
		original := source.Field(i)
		if original.IsNil() {
			continue
		}

		name, sig, call := field.Name, field.Type, callerFor(original)
		clone.Field(i).Set(reflect.MakeFunc(sig, func(args []reflect.Value) []reflect.Value {
			return d.dispatch(name, sig, args, call)
		}))
		slots++
	}

	if slots == 0 {
		return nil, &ProxyError{Type: targetType, Reason: "every func field is nil"}
	}

	result := clone
	if targetType.Kind() == reflect.Ptr {
		result = clone.Addr()
	}
	d.proxy = result.Interface()
	return d.proxy, nil
}
