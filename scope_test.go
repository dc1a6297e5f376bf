package nasc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_ScopedInstancePerScope(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*Logger)(nil), &ConsoleLogger{}))

	scope1 := container.CreateScope()
	scope2 := container.CreateScope()

	a1 := scope1.Make((*Logger)(nil))
	a2 := scope1.Make((*Logger)(nil))
	b := scope2.Make((*Logger)(nil))

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
}

func TestScope_ScopedFromContainerFails(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*Logger)(nil), &ConsoleLogger{}))

	_, err := container.MakeSafe((*Logger)(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be resolved using Scope.Make(), not container.Make()")
}

func TestScope_SharesSingletons(t *testing.T) {
	container := New()
	require.NoError(t, container.Singleton((*Database)(nil), &MockDB{}))

	fromContainer := container.Make((*Database)(nil))
	fromScope := container.CreateScope().Make((*Database)(nil))
	assert.Same(t, fromContainer, fromScope)
}

func TestScope_TransientIsNew(t *testing.T) {
	container := New()
	require.NoError(t, container.Bind((*Logger)(nil), &ConsoleLogger{}))

	scope := container.CreateScope()
	assert.NotSame(t, scope.Make((*Logger)(nil)), scope.Make((*Logger)(nil)))
}

func TestScope_SingletonCannotCaptureScoped(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, container.Singleton((*Database)(nil), &MockDB{}))
	require.NoError(t, container.SingletonConstructor((*UserService)(nil), NewUserService))

	_, err := container.CreateScope().MakeSafe((*UserService)(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be resolved using Scope.Make()")
}

type conn struct{ resource }

func TestScope_InitializesAndDisposesChildrenFirst(t *testing.T) {
	var order []string
	container := New()
	require.NoError(t, container.Scoped((*resource)(nil), &resource{}))

	scope := container.CreateScope()
	r1 := scope.Make((*resource)(nil)).(*resource)
	r1.name, r1.log = "parent", &order
	assert.True(t, r1.initialized)

	child := scope.CreateChildScope()
	r2 := child.Make((*resource)(nil)).(*resource)
	r2.name, r2.log = "child", &order
	assert.NotSame(t, r1, r2)

	require.NoError(t, scope.Dispose())
	assert.Equal(t, []string{"child", "parent"}, order)
	assert.True(t, r1.disposed)
	assert.True(t, r2.disposed)
}

func TestScope_DisposesInReverseCreationOrder(t *testing.T) {
	var order []string
	container := New()
	require.NoError(t, container.Scoped((*resource)(nil), &resource{}))
	require.NoError(t, container.Scoped((*conn)(nil), &conn{}))

	scope := container.CreateScope()
	r := scope.Make((*resource)(nil)).(*resource)
	r.name, r.log = "resource", &order
	c := scope.Make((*conn)(nil)).(*conn)
	c.name, c.log = "conn", &order

	require.NoError(t, scope.Dispose())
	assert.Equal(t, []string{"conn", "resource"}, order)
}

func TestScope_DisposeAggregatesErrors(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*resource)(nil), &resource{}))

	scope := container.CreateScope()
	scope.Make((*resource)(nil)).(*resource).disposeErr = errBoom

	child := scope.CreateChildScope()
	child.Make((*resource)(nil)).(*resource).disposeErr = errors.New("child failed")

	err := scope.Dispose()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "child scope disposal error")
	assert.Contains(t, err.Error(), "disposal error for *nasc.resource")
}

func TestScope_DisposeIsIdempotent(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*resource)(nil), &resource{}))

	scope := container.CreateScope()
	scope.Make((*resource)(nil)).(*resource).disposeErr = errBoom

	assert.Error(t, scope.Dispose())
	assert.NoError(t, scope.Dispose())
}

func TestScope_DisposedScope(t *testing.T) {
	container := New()
	require.NoError(t, container.Scoped((*Logger)(nil), &ConsoleLogger{}))

	scope := container.CreateScope()
	require.NoError(t, scope.Dispose())

	_, err := scope.MakeSafe((*Logger)(nil))
	assert.ErrorIs(t, err, ErrScopeDisposed)
	assert.PanicsWithValue(t, "cannot create child scope from disposed scope", func() {
		scope.CreateChildScope()
	})
}

func TestScope_NilType(t *testing.T) {
	scope := New().CreateScope()
	_, err := scope.MakeSafe(nil)
	assert.EqualError(t, err, "failed to resolve unknown: cannot resolve nil type")
	assert.Panics(t, func() { scope.Make(nil) })
}
