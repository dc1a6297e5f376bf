package nasc

import (
	"reflect"
	"sync"
)

// Activator builds one instance of a registered service.
// It is the unit build rules rewrite: a rule receives the original activator
// and returns a replacement that usually calls it and decorates the result.
type Activator func() (interface{}, error)

// BuildEvent describes one construction about to happen.
type BuildEvent struct {
	// ServiceType is the key type the service was requested by.
	ServiceType reflect.Type

	// Name is the binding name, empty for default bindings.
	Name string

	// Lifetime of the binding being built.
	Lifetime Lifetime

	// Activator is the original construction, before any rule applied.
	Activator Activator

	// Container is the container performing the construction.
	Container *Nasc

	res *resolution
}

// Resolve builds key as part of the construction in progress. The dependency
// path and scope of that construction carry over, so a cycle through the
// resolved service is reported as a *CircularDependencyError and scoped
// bindings resolve in the same scope.
func (e *BuildEvent) Resolve(key reflect.Type) (interface{}, error) {
	if e.Container == nil {
		return nil, &ResolutionError{Type: key, Context: "build event has no container"}
	}
	res := e.res
	if res == nil {
		res = &resolution{}
	}
	instance, err := e.Container.resolveKey(key, "", res)
	if err != nil {
		return nil, &ResolutionError{Type: key, Cause: err}
	}
	return instance, nil
}

// BuildRule rewrites the construction of matching services.
//
// Rules are kept in registration order. For each construction the first rule
// whose Matches returns true replaces the activator with the result of
// Rewrite; later matching rules are skipped.
type BuildRule interface {
	Matches(serviceType reflect.Type) bool
	Rewrite(event *BuildEvent) Activator
}

// buildRules is the ordered rule list owned by a container.
type buildRules struct {
	mu    sync.RWMutex
	rules []BuildRule
}

func (r *buildRules) add(rule BuildRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

func (r *buildRules) snapshot() []BuildRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules
}

// AddBuildRule appends a rule to the container's build pipeline.
// Rules affect every construction that happens after they are added,
// including singletons that have not been created yet.
//
// Example:
//
//	container.AddBuildRule(myRule)
//	svc := container.Make((*Service)(nil)) // built through myRule if it matches
func (n *Nasc) AddBuildRule(rule BuildRule) error {
	if rule == nil {
		return &InvalidBindingError{Reason: "build rule cannot be nil"}
	}
	n.rules.add(rule)
	n.logger.Debug().Int("rules", len(n.rules.snapshot())).Msg("build rule added")
	return nil
}

// applyRules returns the activator to use for event, after the first matching rule.
func (n *Nasc) applyRules(event *BuildEvent) Activator {
	var winner BuildRule
	for i, rule := range n.rules.snapshot() {
		if !rule.Matches(event.ServiceType) {
			continue
		}
		if winner != nil {
			n.logger.Debug().
				Str("service", event.ServiceType.String()).
				Int("rule", i).
				Msg("build rule shadowed by an earlier match")
			continue
		}
		winner = rule
	}

	if winner == nil {
		return event.Activator
	}

	n.logger.Debug().
		Str("service", event.ServiceType.String()).
		Str("name", event.Name).
		Str("lifetime", event.Lifetime.String()).
		Msg("construction rewritten by build rule")
	return winner.Rewrite(event)
}
