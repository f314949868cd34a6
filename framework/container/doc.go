// Package container provides a small dependency-injection registry and
// resolver, plus the Service Provider system built on top of it.
//
// # Overview
//
// Every name maps to a production rule: a constant, a factory function or a
// constructor (a struct type). Rules declare the names they depend on; Get
// resolves those first, in order, and hands them to the producer followed by
// any extra arguments passed to Get.
//
// Go has no runtime constructor call, so a Constructor allocates a new struct
// and assigns the arguments to its exported fields in declaration order.
//
// # Registering
//
//	c := container.New()
//
//	// Constant
//	c.RegisterConstant("engineConfig", EngineConfig{HP: 120, MaxSpeed: 200})
//
//	// Constructor: new *Engine{Config: <engineConfig>} on every Get
//	c.RegisterConstructor("Engine", (*Engine)(nil), "engineConfig")
//
//	// Once: built on the first Get, the same *Car afterwards
//	c.RegisterConstructorOnce("Car", (*Car)(nil), "Engine")
//
//	// Factory: T or (T, error)
//	c.RegisterFactory("foo", func(bar int, rest ...any) []any {
//	    return append([]any{bar}, rest...)
//	}, "BAR")
//
//	// Many at once
//	c.RegisterConstants(map[string]any{"host": "localhost"}, "db.")
//
// Registering a name twice fails with DuplicateNameError unless
// Definition.Overwrite is set.
//
// # Resolving
//
//	car, err := c.Get("Car")
//	list, err := c.Get("foo", 444, 555)  // foo(<BAR>, 444, 555)
//
//	// Generic
//	car, err := container.Resolve[*Car](c, "Car")
//
// Extra arguments go to the requested name only, never to its dependencies.
// Passing arguments to a once-entry that already has its value fails with
// RedundantArgsError, unless SetIgnoreRedundantArgs(true) was called.
//
// # Cycles
//
// A dependency that is already on the active resolution path fails with
// CircularDependencyError, whose message spells the path out:
//
//	container: circular dependency detected: Foo => Bar => Foo
//
// # Counters
//
// ResolvedCounts reports how often each name was requested, cache hits
// included.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    return c.RegisterFactoryOnce("mailer", mail.NewSMTP, "config")
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(c *container.Container) error {
//	    // only called on the first c.Get("heavy")
//	    return c.RegisterFactoryOnce("heavy", heavySetup)
//	}
package container
