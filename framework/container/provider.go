package container

import (
	"sync"

	"github.com/pkg/errors"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register() is called when the provider is added (or, for deferred
// providers, the first time one of its names is resolved). Boot() is called
// after ALL eager providers have been registered, making it safe to resolve
// other names inside Boot().
//
//	type EngineProvider struct{ container.BaseProvider }
//
//	func (p *EngineProvider) Register(c *container.Container) error {
//	    return c.RegisterConstructorOnce("Engine", (*Engine)(nil), "engineConfig")
//	}
type ServiceProvider interface {
	// Register adds entries to the container.
	// Do NOT resolve other names here; use Boot() for that.
	Register(c *Container) error

	// Boot is called after all providers are registered.
	Boot(c *Container) error

	// Provides returns the names this provider registers.
	// Only consulted for deferred providers.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() names is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
// Embed it in your provider and only override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // name → provider
	loaded     map[ServiceProvider]bool
	lazy       []ServiceProvider // deferred providers loaded before Boot
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app and installs it as
// app's deferred loader.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		loaded:     make(map[ServiceProvider]bool),
		registered: make(map[ServiceProvider]bool),
	}
	app.SetDeferredLoader(r.load)
	return r
}

// Register adds a provider and calls its Register() method (unless deferred).
// Adding the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, name := range provider.Provides() {
			r.deferred[name] = provider
		}
		r.mu.Unlock()
		return nil
	}
	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return errors.Wrapf(err, "registering provider %T", provider)
	}

	// Already booted: boot this provider immediately
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting provider %T", provider)
		}
	}
	return nil
}

// load is the container's DeferredLoader. It registers the provider owning
// name; Boot, if due, runs once the current resolution has finished.
//
// A failed Register is rolled back and the provider stays deferred, so the
// next miss retries it.
func (r *ProviderRegistry) load(c *Container, name string) (bool, error) {
	r.mu.Lock()
	provider, ok := r.deferred[name]
	if !ok || r.loaded[provider] {
		r.mu.Unlock()
		return false, nil
	}
	r.mu.Unlock()

	snap := c.snapshot()
	if err := provider.Register(c); err != nil {
		c.restore(snap)
		return false, errors.Wrapf(err, "registering deferred provider %T", provider)
	}

	r.mu.Lock()
	r.loaded[provider] = true
	for _, n := range provider.Provides() {
		delete(r.deferred, n)
	}
	booted := r.booted
	if !booted {
		r.lazy = append(r.lazy, provider)
	}
	r.mu.Unlock()

	if booted {
		c.afterResolution(func() error {
			return errors.Wrapf(provider.Boot(c), "booting deferred provider %T", provider)
		})
	}
	return true, nil
}

// Boot calls Boot() on all eager providers, then on deferred providers that
// were already loaded. Must be called after ALL providers have been
// registered.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	pending := append(append([]ServiceProvider(nil), r.eager...), r.lazy...)
	r.lazy = nil
	r.mu.Unlock()

	for _, provider := range pending {
		if err := provider.Boot(r.app); err != nil {
			return errors.Wrapf(err, "booting provider %T", provider)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
