package nasc

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prefixRule decorates Loggers with a prefix and records what it saw.
type prefixRule struct {
	prefix string
	events []*BuildEvent
}

func (r *prefixRule) Matches(t reflect.Type) bool {
	return t == Key[Logger]()
}

func (r *prefixRule) Rewrite(event *BuildEvent) Activator {
	r.events = append(r.events, event)
	return func() (interface{}, error) {
		inner, err := event.Activator()
		if err != nil {
			return nil, err
		}
		return &loggerDecorator{inner: inner.(Logger), prefix: r.prefix}, nil
	}
}

func TestAddBuildRule_Nil(t *testing.T) {
	var invalid *InvalidBindingError
	assert.ErrorAs(t, New().AddBuildRule(nil), &invalid)
}

func TestBuildRule_RewritesMatchingConstruction(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, container.Bind((*Database)(nil), &MockDB{}))
	rule := &prefixRule{prefix: "[app] "}
	require.NoError(t, container.AddBuildRule(rule))

	logger := container.Make((*Logger)(nil))
	decorated, ok := logger.(*loggerDecorator)
	require.True(t, ok)
	decorated.Log("hi")
	assert.Equal(t, []string{"[app] hi"}, decorated.inner.(*ConsoleLogger).Messages())

	assert.IsType(t, &MockDB{}, container.Make((*Database)(nil)))

	require.Len(t, rule.events, 1)
	event := rule.events[0]
	assert.Equal(t, Key[Logger](), event.ServiceType)
	assert.Equal(t, LifetimeTransient, event.Lifetime)
	assert.Empty(t, event.Name)
	assert.NotNil(t, event.Activator)
}

func TestBuildRule_EvaluatedPerConstruction(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
	rule := &prefixRule{}
	require.NoError(t, container.AddBuildRule(rule))

	container.Make((*Logger)(nil))
	container.Make((*Logger)(nil))
	assert.Len(t, rule.events, 2)
}

func TestBuildRule_FirstMatchWins(t *testing.T) {
	var buf bytes.Buffer
	first := &prefixRule{prefix: "1:"}
	second := &prefixRule{prefix: "2:"}
	container := New(WithLogger(zerolog.New(&buf)), WithDebug(), WithBuildRules(first, second))
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))

	logger := container.Make((*Logger)(nil)).(*loggerDecorator)
	assert.Equal(t, "1:", logger.prefix)
	assert.Len(t, first.events, 1)
	assert.Empty(t, second.events)
	assert.Contains(t, buf.String(), "build rule shadowed by an earlier match")
}

func TestBuildRule_SingletonCachesRewrittenInstance(t *testing.T) {
	container := New()
	require.NoError(t, container.Singleton((*Logger)(nil), &ConsoleLogger{}))
	rule := &prefixRule{}
	require.NoError(t, container.AddBuildRule(rule))

	first := container.Make((*Logger)(nil))
	second := container.Make((*Logger)(nil))
	assert.IsType(t, &loggerDecorator{}, first)
	assert.Same(t, first, second)
	require.Len(t, rule.events, 1)
	assert.Equal(t, LifetimeSingleton, rule.events[0].Lifetime)
}

func TestBuildRule_ScopedPerScope(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*Logger)(nil), &ConsoleLogger{}))
	rule := &prefixRule{}
	require.NoError(t, container.AddBuildRule(rule))

	scope1, scope2 := container.CreateScope(), container.CreateScope()
	a := scope1.Make((*Logger)(nil))
	b := scope1.Make((*Logger)(nil))
	c := scope2.Make((*Logger)(nil))

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Len(t, rule.events, 2)
}

func TestBuildRule_NamedBindings(t *testing.T) {
	container := New()
	require.NoError(t, container.BindNamed((*Logger)(nil), &FileLogger{}, "file"))
	rule := &prefixRule{}
	require.NoError(t, container.AddBuildRule(rule))

	logger := container.MakeNamed((*Logger)(nil), "file")
	assert.IsType(t, &loggerDecorator{}, logger)
	require.Len(t, rule.events, 1)
	assert.Equal(t, "file", rule.events[0].Name)
}

func TestBuildRule_ActivatorErrorPropagates(t *testing.T) {
	container := New()
	require.NoError(t, container.Factory((*Logger)(nil), func(*Nasc) (interface{}, error) {
		return nil, errBoom
	}))
	require.NoError(t, container.AddBuildRule(&prefixRule{}))

	_, err := container.MakeSafe((*Logger)(nil))
	assert.ErrorIs(t, err, errBoom)
}

func TestBuildRule_AppliesToConstructorDependencies(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, container.Bind((*Database)(nil), &MockDB{}))
	require.NoError(t, container.BindConstructor((*UserService)(nil), NewUserService))
	require.NoError(t, container.AddBuildRule(&prefixRule{}))

	svc := container.Make((*UserService)(nil)).(*UserService)
	assert.IsType(t, &loggerDecorator{}, svc.Logger)
}

// resolvingRule resolves another service while rewriting a Logger.
type resolvingRule struct {
	dep      reflect.Type
	resolved []interface{}
	events   []*BuildEvent
}

func (r *resolvingRule) Matches(t reflect.Type) bool {
	return t == Key[Logger]()
}

func (r *resolvingRule) Rewrite(event *BuildEvent) Activator {
	r.events = append(r.events, event)
	return func() (interface{}, error) {
		dep, err := event.Resolve(r.dep)
		if err != nil {
			return nil, err
		}
		r.resolved = append(r.resolved, dep)
		return event.Activator()
	}
}

func TestBuildEvent_ResolveCarriesContainer(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, container.Bind((*Database)(nil), &MockDB{}))
	rule := &resolvingRule{dep: Key[Database]()}
	require.NoError(t, container.AddBuildRule(rule))

	container.Make((*Logger)(nil))

	require.Len(t, rule.events, 1)
	assert.Same(t, container, rule.events[0].Container)
	require.Len(t, rule.resolved, 1)
	assert.IsType(t, &MockDB{}, rule.resolved[0])
}

func TestBuildEvent_ResolveUsesCurrentScope(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, container.Scoped((*Database)(nil), &MockDB{}))
	rule := &resolvingRule{dep: Key[Database]()}
	require.NoError(t, container.AddBuildRule(rule))

	scope := container.CreateScope()
	_, err := scope.MakeSafe((*Logger)(nil))
	require.NoError(t, err)

	require.Len(t, rule.resolved, 1)
	assert.Same(t, scope.Make((*Database)(nil)), rule.resolved[0])
}

func TestBuildEvent_ResolveDetectsCycle(t *testing.T) {
	for _, lifetime := range []string{"transient", "singleton"} {
		t.Run(lifetime, func(t *testing.T) {
			container := New()
			if lifetime == "singleton" {
				require.NoError(t, container.Singleton((*Logger)(nil), &ConsoleLogger{}))
			} else {
				require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))
			}
			require.NoError(t, container.AddBuildRule(&resolvingRule{dep: Key[Logger]()}))

			_, err := container.MakeSafe((*Logger)(nil))
			var cycle *CircularDependencyError
			require.ErrorAs(t, err, &cycle)
			assert.Equal(t, []string{"nasc.Logger", "nasc.Logger"}, cycle.Path)
		})
	}
}

func TestBuildEvent_ResolveWithoutContainer(t *testing.T) {
	event := &BuildEvent{ServiceType: Key[Logger]()}
	_, err := event.Resolve(Key[Database]())

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, err.Error(), "build event has no container")
}
