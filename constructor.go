package nasc

import (
	"fmt"
	"reflect"

	"github.com/toutaio/toutago-nasc-interception/registry"
)

// ConstructorFunc represents a constructor function.
// Supported signatures:
//   - func() *T
//   - func() (*T, error)
//   - func(Dep1, Dep2, ...) *T
//   - func(Dep1, Dep2, ...) (*T, error)
//
// Parameters are resolved from the container: interface parameters by the
// interface type, pointer parameters by the pointed-to type.
type ConstructorFunc interface{}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructorInfo holds metadata about a constructor function.
type constructorInfo struct {
	fn           reflect.Value
	paramTypes   []reflect.Type
	returnsError bool
	returnType   reflect.Type
}

// parseConstructor analyzes a constructor function and extracts metadata.
func parseConstructor(constructor ConstructorFunc) (*constructorInfo, error) {
	if constructor == nil {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	fnValue := reflect.ValueOf(constructor)
	fnType := fnValue.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %v", fnType.Kind())
	}
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("constructor cannot be variadic")
	}

	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, fmt.Errorf("constructor must return (*T) or (*T, error), got %d return values", numOut)
	}

	returnType := fnType.Out(0)
	if returnType.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("constructor must return a pointer, got %v", returnType.Kind())
	}

	returnsError := numOut == 2
	if returnsError && fnType.Out(1) != errorType {
		return nil, fmt.Errorf("constructor's second return value must be error, got %v", fnType.Out(1))
	}

	paramTypes := make([]reflect.Type, fnType.NumIn())
	for i := range paramTypes {
		paramTypes[i] = fnType.In(i)
	}

	return &constructorInfo{
		fn:           fnValue,
		paramTypes:   paramTypes,
		returnsError: returnsError,
		returnType:   returnType,
	}, nil
}

// paramKey maps a constructor parameter type to the key it is resolved by.
func paramKey(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// invokeConstructor calls a constructor with dependencies resolved within res.
func (n *Nasc) invokeConstructor(info *constructorInfo, res *resolution) (interface{}, error) {
	params := make([]reflect.Value, len(info.paramTypes))
	for i, paramType := range info.paramTypes {
		dep, err := n.resolveKey(paramKey(paramType), "", res)
		if err != nil {
			return nil, &ResolutionError{
				Type:    paramType,
				Context: fmt.Sprintf("constructor parameter %d", i),
				Cause:   err,
			}
		}

		value := reflect.ValueOf(dep)
		switch {
		case !value.IsValid():
			value = reflect.Zero(paramType)
		case !value.Type().AssignableTo(paramType):
			return nil, &ResolutionError{
				Type:    paramType,
				Context: fmt.Sprintf("constructor parameter %d: resolved %v is not assignable", i, value.Type()),
			}
		}
		params[i] = value
	}

	results := info.fn.Call(params)
	if info.returnsError && !results[1].IsNil() {
		return nil, fmt.Errorf("constructor returned error: %w", results[1].Interface().(error))
	}
	return results[0].Interface(), nil
}

// BindConstructor registers a transient binding built by a constructor function.
// The constructor's parameters are resolved from the container.
//
// Example:
//
//	container.BindConstructor((*UserService)(nil), NewUserService)
//	// Where: func NewUserService(logger Logger, db Database) (*UserService, error)
func (n *Nasc) BindConstructor(abstractType interface{}, constructor ConstructorFunc) error {
	return n.bindConstructor(abstractType, constructor, LifetimeTransient)
}

// SingletonConstructor registers a singleton binding built by a constructor function.
//
// Example:
//
//	container.SingletonConstructor((*Database)(nil), NewDatabase)
func (n *Nasc) SingletonConstructor(abstractType interface{}, constructor ConstructorFunc) error {
	return n.bindConstructor(abstractType, constructor, LifetimeSingleton)
}

// ScopedConstructor registers a scoped binding built by a constructor function.
//
// Example:
//
//	container.ScopedConstructor((*UnitOfWork)(nil), NewUnitOfWork)
func (n *Nasc) ScopedConstructor(abstractType interface{}, constructor ConstructorFunc) error {
	return n.bindConstructor(abstractType, constructor, LifetimeScoped)
}

func (n *Nasc) bindConstructor(abstractType interface{}, constructor ConstructorFunc, lifetime Lifetime) error {
	if abstractType == nil {
		return &InvalidBindingError{Reason: "abstract type cannot be nil"}
	}

	info, err := parseConstructor(constructor)
	if err != nil {
		return &InvalidBindingError{Reason: fmt.Sprintf("invalid constructor: %v", err)}
	}

	return n.register(&registry.Binding{
		AbstractType: KeyOf(abstractType),
		ConcreteType: info.returnType,
		Lifetime:     string(lifetime),
		Constructor:  info,
	})
}
