package nasc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Success(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, container.Singleton((*Database)(nil), &MockDB{}))
	require.NoError(t, container.BindConstructor((*UserService)(nil), NewUserService))
	require.NoError(t, container.Scoped((*resource)(nil), &resource{}))

	assert.NoError(t, container.Validate())
}

func TestValidate_CollectsEveryFailure(t *testing.T) {
	container := New()
	require.NoError(t, container.BindConstructor((*UserService)(nil), NewUserService))
	require.NoError(t, container.Factory((*Database)(nil), func(*Nasc) (interface{}, error) {
		return nil, errBoom
	}))
	require.NoError(t, container.BindNamed((*Logger)(nil), &FileLogger{}, "file"))

	err := container.Validate()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Errors, 2)
	assert.Contains(t, err.Error(), "validation failed with 2 errors")
	assert.ErrorIs(t, err, errBoom)

	var first *ResolutionError
	require.ErrorAs(t, validation.Errors[0], &first)
	assert.Equal(t, Key[Database](), first.Type)
}

func TestValidate_DisposesScopedInstances(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*resource)(nil), &resource{}))
	rule := &capturingRule{}
	require.NoError(t, container.AddBuildRule(rule))

	require.NoError(t, container.Validate())
	require.Len(t, rule.built, 1)
	assert.True(t, rule.built[0].initialized)
	assert.True(t, rule.built[0].disposed)
}

func TestValidate_RunsBuildRules(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
	rule := &prefixRule{}
	require.NoError(t, container.AddBuildRule(rule))

	require.NoError(t, container.Validate())
	assert.Len(t, rule.events, 1)
}

// capturingRule records the resources built through it.
type capturingRule struct {
	built []*resource
}

func (r *capturingRule) Matches(t reflect.Type) bool { return t == Key[resource]() }

func (r *capturingRule) Rewrite(event *BuildEvent) Activator {
	return func() (interface{}, error) {
		v, err := event.Activator()
		if res, ok := v.(*resource); ok {
			r.built = append(r.built, res)
		}
		return v, err
	}
}
