package nasc

import (
	"reflect"
	"strings"
	"sync"
)

// injectOptions represents parsed options from an inject tag.
type injectOptions struct {
	optional bool   // leave the field empty if resolution fails
	name     string // named binding to use
}

// parseInjectTag parses an inject struct tag.
// Supported formats:
//   - `inject:""` - basic injection
//   - `inject:"optional"` - optional injection
//   - `inject:"name=foo"` - named binding
//   - `inject:"optional,name=foo"` - combined options
func parseInjectTag(tag string) injectOptions {
	var opts injectOptions
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "optional":
			opts.optional = true
		case strings.HasPrefix(part, "name="):
			opts.name = strings.TrimPrefix(part, "name=")
		}
	}
	return opts
}

// injectField describes one struct field that AutoWire fills.
type injectField struct {
	index int
	name  string
	typ   reflect.Type
	opts  injectOptions
}

// reflectionCache memoizes the injectable fields of struct types.
type reflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]injectField
}

func newReflectionCache() *reflectionCache {
	return &reflectionCache{
		fields: make(map[reflect.Type][]injectField),
	}
}

// injectableFields returns the exported, inject-tagged fields of a struct type.
// Fields tagged `inject:"-"` are skipped.
func (rc *reflectionCache) injectableFields(structType reflect.Type) []injectField {
	rc.mu.RLock()
	fields, exists := rc.fields[structType]
	rc.mu.RUnlock()
	if exists {
		return fields
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag, tagged := field.Tag.Lookup("inject")
		if !tagged || tag == "-" || field.PkgPath != "" {
			continue
		}
		fields = append(fields, injectField{
			index: i,
			name:  field.Name,
			typ:   field.Type,
			opts:  parseInjectTag(tag),
		})
	}

	rc.mu.Lock()
	rc.fields[structType] = fields
	rc.mu.Unlock()
	return fields
}
