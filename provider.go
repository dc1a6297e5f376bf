package nasc

import (
	"fmt"
	"reflect"
)

// ServiceProvider encapsulates related registrations: bindings, build rules,
// or both.
//
// Example:
//
//	type LoggingProvider struct{}
//
//	func (p *LoggingProvider) Register(container *Nasc) error {
//	    return container.Singleton((*Logger)(nil), &ConsoleLogger{})
//	}
type ServiceProvider interface {
	Register(container *Nasc) error
}

// BootableProvider is a provider with a boot phase.
// Boot is called by BootProviders, after every provider has registered.
type BootableProvider interface {
	ServiceProvider
	Boot(container *Nasc) error
}

// DeferredProvider is a provider that decides at registration time whether
// it should register at all.
type DeferredProvider interface {
	ServiceProvider
	ShouldRegister(container *Nasc) bool
}

// NamedProvider is a provider identified by name instead of by type, so several
// values of one provider type can be registered side by side.
type NamedProvider interface {
	ServiceProvider
	ProviderName() string
}

type providerEntry struct {
	provider ServiceProvider
	booted   bool

	// registering is set while Register runs; the entry reserves its key.
	registering bool
}

// RegisterProvider registers a service provider with the container.
// Register is called immediately. A provider whose type (or name, for a
// NamedProvider) was already registered is ignored, as is a DeferredProvider
// that declines. The key is reserved while Register runs, so concurrent
// registrations of one provider run Register once; a failed Register releases
// the key.
//
// Example:
//
//	container.RegisterProvider(&LoggingProvider{})
//	container.RegisterProvider(&DatabaseProvider{})
//	container.BootProviders()
func (n *Nasc) RegisterProvider(provider ServiceProvider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	if deferred, ok := provider.(DeferredProvider); ok && !deferred.ShouldRegister(n) {
		n.logger.Debug().Str("provider", fmt.Sprintf("%T", provider)).Msg("deferred provider skipped")
		return nil
	}

	key := providerKey(provider)
	n.providersMu.Lock()
	for _, entry := range n.providers {
		if providerKey(entry.provider) == key {
			n.providersMu.Unlock()
			return nil
		}
	}
	entry := &providerEntry{provider: provider, registering: true}
	n.providers = append(n.providers, entry)
	n.providersMu.Unlock()

	if err := provider.Register(n); err != nil {
		n.dropProvider(entry)
		return fmt.Errorf("provider registration failed: %w", err)
	}

	n.providersMu.Lock()
	entry.registering = false
	n.providersMu.Unlock()

	n.logger.Debug().Str("provider", fmt.Sprintf("%T", provider)).Msg("provider registered")
	return nil
}

func (n *Nasc) dropProvider(target *providerEntry) {
	n.providersMu.Lock()
	defer n.providersMu.Unlock()
	for i, entry := range n.providers {
		if entry == target {
			n.providers = append(n.providers[:i], n.providers[i+1:]...)
			return
		}
	}
}

func providerKey(provider ServiceProvider) interface{} {
	if named, ok := provider.(NamedProvider); ok {
		return named.ProviderName()
	}
	return reflect.TypeOf(provider)
}

// BootProviders calls Boot on every registered BootableProvider that has not
// booted yet. With WithValidation, the container is validated afterwards.
func (n *Nasc) BootProviders() error {
	for _, entry := range n.snapshotProviders() {
		if entry.booted {
			continue
		}
		bootable, ok := entry.provider.(BootableProvider)
		if !ok {
			continue
		}
		if err := bootable.Boot(n); err != nil {
			return fmt.Errorf("provider boot failed: %w", err)
		}
		entry.booted = true
	}

	if n.validateOnBoot {
		return n.Validate()
	}
	return nil
}

// GetProviders returns the registered providers in registration order.
func (n *Nasc) GetProviders() []ServiceProvider {
	entries := n.snapshotProviders()
	providers := make([]ServiceProvider, len(entries))
	for i, entry := range entries {
		providers[i] = entry.provider
	}
	return providers
}

// snapshotProviders returns the providers that finished registering.
func (n *Nasc) snapshotProviders() []*providerEntry {
	n.providersMu.Lock()
	defer n.providersMu.Unlock()
	entries := make([]*providerEntry, 0, len(n.providers))
	for _, entry := range n.providers {
		if !entry.registering {
			entries = append(entries, entry)
		}
	}
	return entries
}
