package nasc

import (
	"fmt"
	"reflect"
)

// AutoWire injects dependencies into the inject-tagged fields of a struct.
// Fields are resolved through the full build pipeline, so an intercepted
// service is injected as its proxy.
//
// Supported tag options:
//   - `inject:""` - required; AutoWire fails if the field cannot be resolved
//   - `inject:"optional"` - skipped when resolution fails
//   - `inject:"name=foo"` - uses a named binding
//   - `inject:"-"` - never injected
//
// Example:
//
//	type Service struct {
//	    Logger  Logger `inject:""`
//	    Cache   Cache  `inject:"optional"`
//	    FileLog Logger `inject:"name=file"`
//	}
//
//	service := &Service{}
//	container.AutoWire(service)
func (n *Nasc) AutoWire(instance interface{}) error {
	if instance == nil {
		return fmt.Errorf("cannot auto-wire nil instance")
	}

	value := reflect.ValueOf(instance)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("AutoWire requires a pointer to struct, got %T", instance)
	}

	elem := value.Elem()
	for _, field := range n.reflectionCache.injectableFields(elem.Type()) {
		if err := n.injectField(elem.Field(field.index), field); err != nil {
			return fmt.Errorf("failed to inject field %s: %w", field.name, err)
		}
	}
	return nil
}

func (n *Nasc) injectField(target reflect.Value, field injectField) error {
	resolved, err := n.resolveKey(paramKey(field.typ), field.opts.name, &resolution{})
	if err != nil {
		if field.opts.optional {
			return nil
		}
		return err
	}

	value := reflect.ValueOf(resolved)
	if !value.IsValid() {
		return nil
	}
	if !value.Type().AssignableTo(field.typ) {
		return fmt.Errorf("resolved type %v is not assignable to field type %v", value.Type(), field.typ)
	}

	target.Set(value)
	return nil
}
