package nasc

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/toutaio/toutago-nasc-interception/registry"
)

// Nasc is the dependency injection container.
// It manages bindings and resolves dependencies in a thread-safe manner.
type Nasc struct {
	registry        *registry.Registry
	singletons      *instanceCache
	reflectionCache *reflectionCache
	rules           *buildRules

	providersMu sync.Mutex
	providers   []*providerEntry

	logger         zerolog.Logger
	customLogger   bool
	debug          bool
	validateOnBoot bool
}

// New creates a new Nasc container instance.
// Options can be provided to configure the container behavior.
//
// Example:
//
//	container := nasc.New()
//	// or with options:
//	container := nasc.New(nasc.WithDebug())
func New(options ...Option) *Nasc {
	n := &Nasc{
		registry:        registry.New(),
		singletons:      newInstanceCache(),
		reflectionCache: newReflectionCache(),
		rules:           &buildRules{},
		logger:          zerolog.Nop(),
	}

	for _, opt := range options {
		if err := opt(n); err != nil {
			panic(fmt.Sprintf("failed to apply option: %v", err))
		}
	}
	n.finishLogger()

	return n
}

// Logger returns the container's logger. Extensions log through it so one
// option controls all container diagnostics.
func (n *Nasc) Logger() *zerolog.Logger {
	return &n.logger
}

// KeyOf converts a type token into the key type bindings are stored under.
// A pointer token such as (*Logger)(nil) yields Logger; any other value yields
// its own type.
func KeyOf(token interface{}) reflect.Type {
	t := reflect.TypeOf(token)
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// Key returns the key type for T, following the same convention as KeyOf:
// Key[Logger]() is Logger and Key[*Service]() is Service.
func Key[T any]() reflect.Type {
	return paramKey(reflect.TypeOf((*T)(nil)).Elem())
}

// Bind registers a transient binding between an abstract type and a concrete
// implementation. The abstractType should be a pointer token like (*Logger)(nil);
// the concrete type must be a pointer to struct.
//
// Example:
//
//	container.Bind((*Logger)(nil), &ConsoleLogger{})
func (n *Nasc) Bind(abstractType, concreteType interface{}) error {
	return n.bindConcrete(abstractType, concreteType, LifetimeTransient, "")
}

// Singleton registers a singleton binding.
// The instance is created lazily on first resolution and reused afterwards.
//
// Example:
//
//	container.Singleton((*Database)(nil), &PostgresDB{})
//	db1 := container.Make((*Database)(nil)).(Database)
//	db2 := container.Make((*Database)(nil)).(Database)
//	// db1 == db2
func (n *Nasc) Singleton(abstractType, concreteType interface{}) error {
	return n.bindConcrete(abstractType, concreteType, LifetimeSingleton, "")
}

// Scoped registers a scoped binding.
// One instance is created per scope; scoped bindings must be resolved through a Scope.
//
// Example:
//
//	container.Scoped((*UnitOfWork)(nil), &DbUnitOfWork{})
//	scope := container.CreateScope()
//	uow := scope.Make((*UnitOfWork)(nil)).(UnitOfWork)
func (n *Nasc) Scoped(abstractType, concreteType interface{}) error {
	return n.bindConcrete(abstractType, concreteType, LifetimeScoped, "")
}

// BindNamed registers a named transient binding.
// Named bindings allow multiple implementations of the same interface.
//
// Example:
//
//	container.BindNamed((*Logger)(nil), &FileLogger{}, "file")
//	fileLogger := container.MakeNamed((*Logger)(nil), "file").(Logger)
func (n *Nasc) BindNamed(abstractType, concreteType interface{}, name string) error {
	if name == "" {
		return &InvalidBindingError{Reason: "name cannot be empty"}
	}
	return n.bindConcrete(abstractType, concreteType, LifetimeTransient, name)
}

// Factory registers a factory binding. The factory runs on every resolution.
//
// Example:
//
//	container.Factory((*Connection)(nil), func(c *Nasc) (interface{}, error) {
//	    config := c.Make((*Config)(nil)).(*Config)
//	    return NewConnection(config.DSN), nil
//	})
func (n *Nasc) Factory(abstractType interface{}, factory FactoryFunc) error {
	if abstractType == nil {
		return &InvalidBindingError{Reason: "abstract type cannot be nil"}
	}
	if factory == nil {
		return &InvalidBindingError{Reason: "factory function cannot be nil"}
	}

	return n.register(&registry.Binding{
		AbstractType: KeyOf(abstractType),
		Lifetime:     string(LifetimeFactory),
		Factory:      factory,
	})
}

// Instance registers a pre-built value as a singleton.
//
// Example:
//
//	container.Instance((*Config)(nil), cfg)
func (n *Nasc) Instance(abstractType, instance interface{}) error {
	if abstractType == nil {
		return &InvalidBindingError{Reason: "abstract type cannot be nil"}
	}
	if instance == nil {
		return &InvalidBindingError{Reason: "instance cannot be nil"}
	}

	abstractT := KeyOf(abstractType)
	instanceT := reflect.TypeOf(instance)
	if abstractT.Kind() == reflect.Interface && !instanceT.Implements(abstractT) {
		return &InvalidBindingError{Reason: fmt.Sprintf("%v does not implement %v", instanceT, abstractT)}
	}

	return n.register(&registry.Binding{
		AbstractType: abstractT,
		ConcreteType: instanceT,
		Lifetime:     string(LifetimeSingleton),
		Instance:     instance,
	})
}

func (n *Nasc) bindConcrete(abstractType, concreteType interface{}, lifetime Lifetime, name string) error {
	if abstractType == nil {
		return &InvalidBindingError{Reason: "abstract type cannot be nil"}
	}
	if concreteType == nil {
		return &InvalidBindingError{Reason: "concrete type cannot be nil"}
	}

	concreteT := reflect.TypeOf(concreteType)
	if concreteT.Kind() != reflect.Ptr || concreteT.Elem().Kind() != reflect.Struct {
		return &InvalidBindingError{
			Reason: fmt.Sprintf("concrete type must be pointer to struct, got %v", concreteT),
		}
	}

	return n.register(&registry.Binding{
		AbstractType: KeyOf(abstractType),
		ConcreteType: concreteT,
		Lifetime:     string(lifetime),
		Name:         name,
	})
}

func (n *Nasc) register(binding *registry.Binding) error {
	var err error
	if binding.Name != "" {
		err = n.registry.RegisterNamed(binding)
	} else {
		err = n.registry.Register(binding)
	}
	if err != nil {
		return err
	}

	n.logger.Debug().Str("binding", binding.String()).Msg("binding registered")
	return nil
}

// Make resolves and returns an instance of the registered type.
// It panics with a *ResolutionError if resolution fails; use MakeSafe to get
// the error instead.
//
// Example:
//
//	logger := container.Make((*Logger)(nil)).(Logger)
func (n *Nasc) Make(abstractType interface{}) interface{} {
	instance, err := n.MakeSafe(abstractType)
	if err != nil {
		panic(err)
	}
	return instance
}

// MakeSafe resolves an instance and returns any failure as a *ResolutionError.
//
// Example:
//
//	service, err := container.MakeSafe((*Service)(nil))
//	if err != nil {
//	    log.Fatal(err)
//	}
func (n *Nasc) MakeSafe(abstractType interface{}) (interface{}, error) {
	if abstractType == nil {
		return nil, &ResolutionError{Context: "cannot resolve nil type"}
	}
	return n.Resolve(KeyOf(abstractType))
}

// Resolve resolves the default binding of a key type.
func (n *Nasc) Resolve(key reflect.Type) (interface{}, error) {
	instance, err := n.resolveKey(key, "", &resolution{})
	if err != nil {
		return nil, &ResolutionError{Type: key, Cause: err}
	}
	return instance, nil
}

// MakeAs resolves T and asserts the result to T.
//
// Example:
//
//	logger, err := nasc.MakeAs[Logger](container)
func MakeAs[T any](n *Nasc) (T, error) {
	var zero T
	key := Key[T]()
	instance, err := n.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &ResolutionError{
			Type:    key,
			Context: fmt.Sprintf("resolved %T is not a %v", instance, reflect.TypeOf((*T)(nil)).Elem()),
		}
	}
	return typed, nil
}

// MakeNamed resolves a named binding. It panics on failure.
//
// Example:
//
//	logger := container.MakeNamed((*Logger)(nil), "file").(Logger)
func (n *Nasc) MakeNamed(abstractType interface{}, name string) interface{} {
	if abstractType == nil {
		panic(&ResolutionError{Context: "cannot resolve nil type"})
	}
	if name == "" {
		panic(&ResolutionError{Type: KeyOf(abstractType), Context: "name cannot be empty"})
	}

	key := KeyOf(abstractType)
	instance, err := n.resolveKey(key, name, &resolution{})
	if err != nil {
		panic(&ResolutionError{Type: key, Name: name, Cause: err})
	}
	return instance
}

// MakeAll resolves every implementation of a key type: the default binding
// first, then named bindings ordered by name. It panics on failure.
//
// Example:
//
//	for _, logger := range container.MakeAll((*Logger)(nil)) {
//	    logger.(Logger).Log("message")
//	}
func (n *Nasc) MakeAll(abstractType interface{}) []interface{} {
	if abstractType == nil {
		panic(&ResolutionError{Context: "cannot resolve nil type"})
	}

	key := KeyOf(abstractType)
	bindings := n.registry.GetAll(key)
	instances := make([]interface{}, 0, len(bindings))
	for _, binding := range bindings {
		instance, err := n.resolveBinding(binding, &resolution{})
		if err != nil {
			panic(&ResolutionError{Type: key, Name: binding.Name, Cause: err})
		}
		instances = append(instances, instance)
	}
	return instances
}

// Has reports whether a default binding exists for the key type.
func (n *Nasc) Has(key reflect.Type) bool {
	return n.registry.Has(key)
}

// CanResolve checks, without constructing anything, that the container knows
// how to build key: a default binding exists and, for constructor bindings,
// every parameter has a binding too.
func (n *Nasc) CanResolve(key reflect.Type) error {
	binding, err := n.registry.Get(key)
	if err != nil {
		return err
	}

	info, ok := binding.Constructor.(*constructorInfo)
	if !ok {
		return nil
	}
	for i, paramType := range info.paramTypes {
		if !n.registry.Has(paramKey(paramType)) {
			return &ResolutionError{
				Type:    key,
				Context: fmt.Sprintf("constructor parameter %d (%v) has no binding", i, paramType),
			}
		}
	}
	return nil
}

// CreateScope creates a new dependency resolution scope.
//
// Example:
//
//	scope := container.CreateScope()
//	defer scope.Dispose()
//	uow := scope.Make((*UnitOfWork)(nil)).(UnitOfWork)
func (n *Nasc) CreateScope() *Scope {
	return newScope(n)
}
