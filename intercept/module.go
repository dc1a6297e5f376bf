package intercept

import (
	"fmt"
	"sync"

	nasc "github.com/toutaio/toutago-nasc-interception"
)

// Installer installs interception into a container, usually by calling one of
// the Intercept functions.
type Installer func(c *nasc.Nasc) error

// Module groups interception registrations as a nasc.ServiceProvider, so they
// are installed through the container's provider lifecycle. Modules are
// identified by name: registering a second module with the same name is a no-op.
//
// Example:
//
//	container.RegisterProvider(intercept.NewModule("audit",
//	    func(c *nasc.Nasc) error {
//	        return intercept.Intercept[Greeter](c, (*AuditInterceptor)(nil))
//	    },
//	))
type Module struct {
	Name     string
	Installs []Installer

	mu sync.Mutex
	// installed counts, per container, the installers that already succeeded.
	installed map[*nasc.Nasc]int
}

// NewModule returns a Module running installs in order.
func NewModule(name string, installs ...Installer) *Module {
	return &Module{Name: name, Installs: installs}
}

// Install returns an Installer that registers rule.
func Install(rule *Rule) Installer {
	return func(c *nasc.Nasc) error {
		return Register(c, rule)
	}
}

// Register runs every installer, stopping at the first failure. Registering
// again with the same container resumes after the installers that already
// succeeded, so their rules are not installed twice.
func (m *Module) Register(c *nasc.Nasc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.installed == nil {
		m.installed = make(map[*nasc.Nasc]int)
	}

	for i := m.installed[c]; i < len(m.Installs); i++ {
		if install := m.Installs[i]; install != nil {
			if err := install(c); err != nil {
				return fmt.Errorf("intercept module %q: installer %d: %w", m.Name, i, err)
			}
		}
		m.installed[c] = i + 1
	}
	c.Logger().Debug().Str("module", m.Name).Int("installers", len(m.Installs)).Msg("interception module installed")
	return nil
}

// ProviderName implements nasc.NamedProvider.
func (m *Module) ProviderName() string {
	return "intercept:" + m.Name
}
