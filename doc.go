// Package nasc provides a dependency injection container for Go.
//
// Nasc (Old Irish: "Link" or "Bond") resolves services by type at runtime. It
// supports several lifetimes, constructor injection, auto-wiring, named
// bindings, scopes, service providers, and a build pipeline that lets
// extensions rewrite how services are constructed.
//
// # Quick Start
//
//	container := nasc.New()
//	container.Bind((*Logger)(nil), &ConsoleLogger{})
//	logger := container.Make((*Logger)(nil)).(Logger)
//
// # Lifetimes
//
// Transient - new instance each time:
//
//	container.Bind((*Service)(nil), &MyService{})
//
// Singleton - single shared instance:
//
//	container.Singleton((*Cache)(nil), &MemoryCache{})
//
// Scoped - one instance per scope:
//
//	scope := container.CreateScope()
//	defer scope.Dispose()
//	service := scope.Make((*ScopedService)(nil))
//
// # Constructor Injection
//
//	container.BindConstructor((*UserService)(nil), NewUserService)
//	// func NewUserService(db Database, logger Logger) *UserService
//
// # Build Pipeline
//
// Every construction produces a BuildEvent carrying the requested service type
// and an Activator, the function that builds the instance. Build rules added
// with AddBuildRule are evaluated in order; the first rule that matches the
// service type replaces the Activator. The intercept package uses this to
// wrap services in proxies:
//
//	intercept.Intercept[Logger](container, (*AuditInterceptor)(nil))
//
// Rules run inside the lifetime: a singleton caches the rewritten instance.
// A rule that needs other services resolves them with BuildEvent.Resolve,
// which stays in the scope and dependency path of the construction.
//
// # Error Handling
//
// Make panics on failure; MakeSafe and Resolve return a *ResolutionError whose
// cause chain can be inspected with errors.As:
//
//	service, err := container.MakeSafe((*Service)(nil))
//	var notFound *nasc.BindingNotFoundError
//	if errors.As(err, &notFound) { ... }
//
// Validate builds every binding once and reports all failures together.
//
// # Logging
//
// Diagnostics go through zerolog. The default logger is disabled; use
// WithLogger or WithDebug to see registrations and rule rewrites.
//
// # Thread Safety
//
// Registration and resolution are safe for concurrent use.
package nasc
