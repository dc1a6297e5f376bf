package nasc

// Lifetime represents the lifecycle strategy for a bound dependency.
type Lifetime string

const (
	// LifetimeTransient creates a new instance on every resolution.
	// This is the default lifetime for Bind() operations.
	LifetimeTransient Lifetime = "transient"

	// LifetimeSingleton creates one instance, lazily, and reuses it for all resolutions.
	// Build rules run once, so an intercepted singleton caches its proxy.
	LifetimeSingleton Lifetime = "singleton"

	// LifetimeScoped creates one instance per scope.
	LifetimeScoped Lifetime = "scoped"

	// LifetimeFactory calls a custom factory function on every resolution.
	LifetimeFactory Lifetime = "factory"
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	return string(l)
}

// FactoryFunc creates instances dynamically.
// It receives the container to resolve dependencies and returns the created instance or an error.
//
// Example:
//
//	factory := func(c *Nasc) (interface{}, error) {
//	    config := c.Make((*Config)(nil)).(*Config)
//	    return NewConnection(config.DSN), nil
//	}
//	container.Factory((*Connection)(nil), factory)
type FactoryFunc func(*Nasc) (interface{}, error)
