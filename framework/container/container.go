package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps names to production rules and resolves them on demand.
//
// It supports:
//   - Constants, factories and constructors, each with declared dependencies
//   - Once-entries, produced on the first Get and cached afterwards
//   - Extra arguments appended after the resolved dependencies
//   - Cycle detection along the active resolution path
//   - Per-name resolution counters
//   - Deferred providers loaded on the first miss
type Container struct {
	// mu guards entries and the entry records themselves.
	mu      sync.RWMutex
	entries map[string]*entry

	// resolveMu serialises top-level resolutions, so a once-producer runs
	// at most once.
	resolveMu sync.Mutex

	ignoreRedundantArgs atomic.Bool

	// deferred is consulted when a name is missing during resolution.
	deferred DeferredLoader
	// settle holds work queued during a resolution, run after resolveMu is
	// released.
	settle []func() error

	log atomic.Pointer[zap.Logger]
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for debug records. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		c.SetLogger(l)
	}
}

// WithIgnoreRedundantArgs sets the initial value of SetIgnoreRedundantArgs.
func WithIgnoreRedundantArgs(ignore bool) Option {
	return func(c *Container) { c.ignoreRedundantArgs.Store(ignore) }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		entries: make(map[string]*entry),
	}
	c.log.Store(zap.NewNop())
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetIgnoreRedundantArgs turns RedundantArgsError off (true) or back on
// (false). Arguments passed to a memoized entry are then dropped silently.
// The value is read at every resolution.
func (c *Container) SetIgnoreRedundantArgs(ignore bool) {
	c.ignoreRedundantArgs.Store(ignore)
}

// IgnoresRedundantArgs reports the current toggle.
func (c *Container) IgnoresRedundantArgs() bool {
	return c.ignoreRedundantArgs.Load()
}

// SetLogger replaces the logger used for debug records. nil is ignored.
func (c *Container) SetLogger(l *zap.Logger) {
	if l != nil {
		c.log.Store(l)
	}
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger { return c.log.Load() }

// ── Registration ──────────────────────────────────────────────────────────────

// Register is the canonical registration call; all helpers funnel into it.
//
// Overwriting an existing name requires def.Overwrite and starts a fresh
// entry whose counter is 0.
func (c *Container) Register(def Definition) error {
	st, err := newState(def)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[def.Name]; exists && !def.Overwrite {
		return &DuplicateNameError{Name: def.Name}
	}
	c.entries[def.Name] = &entry{name: def.Name, state: st}

	c.Logger().Debug("registered dependency",
		zap.String("name", def.Name),
		zap.Stringer("kind", def.Kind),
		zap.Strings("dependencies", def.Dependencies),
		zap.Bool("once", def.Once),
		zap.Bool("overwrite", def.Overwrite),
	)
	return nil
}

// RegisterConstant registers value under name.
//
//	c.RegisterConstant("engineConfig", EngineConfig{HP: 120})
func (c *Container) RegisterConstant(name string, value any) error {
	return c.Register(Definition{Name: name, Kind: Constant, Producer: value})
}

// RegisterFactory registers fn, called on every Get with the resolved deps.
//
//	c.RegisterFactory("foo", func(bar int, extra ...any) []any { ... }, "BAR")
func (c *Container) RegisterFactory(name string, fn any, deps ...string) error {
	return c.Register(Definition{Name: name, Kind: Factory, Producer: fn, Dependencies: deps})
}

// RegisterFactoryOnce registers fn, called on the first Get only.
func (c *Container) RegisterFactoryOnce(name string, fn any, deps ...string) error {
	return c.Register(Definition{Name: name, Kind: Factory, Producer: fn, Dependencies: deps, Once: true})
}

// RegisterConstructor registers a struct type, allocated on every Get.
//
//	c.RegisterConstructor("Engine", (*Engine)(nil), "engineConfig")
func (c *Container) RegisterConstructor(name string, typ any, deps ...string) error {
	return c.Register(Definition{Name: name, Kind: Constructor, Producer: typ, Dependencies: deps})
}

// RegisterConstructorOnce registers a struct type, allocated on the first Get
// only.
func (c *Container) RegisterConstructorOnce(name string, typ any, deps ...string) error {
	return c.Register(Definition{Name: name, Kind: Constructor, Producer: typ, Dependencies: deps, Once: true})
}

// RegisterBulk registers defs in order and stops at the first failure.
// Definitions before the failing one stay registered.
func (c *Container) RegisterBulk(defs []Definition) error {
	for i, def := range defs {
		if err := c.Register(def); err != nil {
			return errors.Wrapf(err, "bulk registration #%d", i)
		}
	}
	return nil
}

// RegisterConstants registers each value as a constant named prefix+key.
// Keys are registered in sorted order.
//
//	c.RegisterConstants(map[string]any{"host": "localhost", "port": 5432}, "db.")
func (c *Container) RegisterConstants(values map[string]any, prefix string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.RegisterConstant(prefix+k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// lookup is a pure read.
func (c *Container) lookup(name string) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// snapshot copies the name → entry table.
func (c *Container) snapshot() map[string]*entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[string]*entry, len(c.entries))
	for name, e := range c.entries {
		snap[name] = e
	}
	return snap
}

// restore undoes every registration made since snap was taken: new names
// are removed and overwritten names get their previous entry back.
func (c *Container) restore(snap map[string]*entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, e := range c.entries {
		old, ok := snap[name]
		switch {
		case !ok:
			delete(c.entries, name)
		case old != e:
			c.entries[name] = old
		}
	}
}

// Has reports whether name is registered.
func (c *Container) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// Names returns the registered names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Memoized reports whether name holds a final value: a constant, or a
// once-entry that has been produced.
func (c *Container) Memoized(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return false
	}
	_, done := e.state.(*memoized)
	return done
}

// ResolvedCount returns the counter of one name, 0 when unknown.
func (c *Container) ResolvedCount(name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[name]; ok {
		return e.resolvedCounter
	}
	return 0
}

// ResolvedCounts returns how often each name was requested. The map is a
// copy.
func (c *Container) ResolvedCounts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int, len(c.entries))
	for name, e := range c.entries {
		out[name] = e.resolvedCounter
	}
	return out
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// name when working with interfaces. An untyped nil yields "".
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
//	c.RegisterFactoryOnce(key, NewUserRepository, "db")
//	repo, err := container.Resolve[UserRepository](c, key)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	car, err := container.Resolve[*Car](c, "Car")
func Resolve[T any](c *Container, name string, args ...any) (T, error) {
	var zero T
	instance, err := c.Get(name, args...)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: %q resolved to %T", reflect.TypeOf((*T)(nil)).Elem(), name, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, name string, args ...any) T {
	v, err := Resolve[T](c, name, args...)
	if err != nil {
		panic(err)
	}
	return v
}
