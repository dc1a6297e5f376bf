package nasc

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate builds every registered binding once, through the build pipeline,
// and reports every failure in a single *ValidationError. Scoped bindings are
// built inside a throwaway scope that is disposed before returning.
//
// Singletons created during validation stay cached.
func (n *Nasc) Validate() error {
	scope := n.CreateScope()

	var result *multierror.Error
	for _, binding := range n.registry.All() {
		if _, err := n.resolveBinding(binding, &resolution{scope: scope}); err != nil {
			result = multierror.Append(result, &ResolutionError{
				Type:  binding.AbstractType,
				Name:  binding.Name,
				Cause: err,
			})
		}
	}

	if err := scope.Dispose(); err != nil {
		result = multierror.Append(result, fmt.Errorf("validation scope: %w", err))
	}

	if result == nil {
		n.logger.Debug().Msg("container validated")
		return nil
	}
	return &ValidationError{Errors: result.Errors}
}
