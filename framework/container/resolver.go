package container

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DeferredLoader is asked to register name when it is missing during a
// resolution. It returns true if it registered something. Loaders run while
// the container is resolving: they may Register but must not Get.
type DeferredLoader func(c *Container, name string) (bool, error)

// SetDeferredLoader installs the loader used on misses. nil removes it.
func (c *Container) SetDeferredLoader(l DeferredLoader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deferred = l
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name: its dependencies first, in declaration order, then the
// producer with (deps..., args...). Only the top-level call's args are
// forwarded; dependencies are always resolved without arguments.
//
// Deferred providers loaded along the way are booted after the resolution;
// every queued Boot runs and their errors are combined.
//
// Producers receive what they need as arguments and must not call Get on
// the container producing them.
//
//	car, err := c.Get("Car")
//	list, err := c.Get("foo", 444, 555) // foo(BAR, 444, 555)
func (c *Container) Get(name string, args ...any) (any, error) {
	value, settle, err := c.resolveTop(name, args)
	var serr error
	for _, fn := range settle {
		serr = multierr.Append(serr, fn())
	}
	if err != nil {
		return nil, err
	}
	if serr != nil {
		return nil, serr
	}
	return value, nil
}

// resolveTop runs one top-level resolution under resolveMu and hands back
// the work queued with afterResolution.
func (c *Container) resolveTop(name string, args []any) (any, []func() error, error) {
	c.resolveMu.Lock()
	defer c.resolveMu.Unlock()

	path := make(activePath, 0, 8)
	value, err := c.resolve(name, args, &path)

	settle := c.settle
	c.settle = nil
	return value, settle, err
}

// afterResolution queues fn to run once the current Get has released the
// resolution lock. Only valid while resolving (i.e. from a DeferredLoader).
func (c *Container) afterResolution(fn func() error) {
	c.settle = append(c.settle, fn)
}

func (c *Container) resolve(name string, args []any, path *activePath) (any, error) {
	e, st, err := c.enter(name)
	if err != nil {
		return nil, err
	}

	switch st := st.(type) {
	case *memoized:
		if len(args) > 0 && !c.ignoreRedundantArgs.Load() {
			return nil, &RedundantArgsError{Name: name}
		}
		return st.value, nil

	case *pending:
		values, err := c.resolveDependencies(name, st.dependencies, path)
		if err != nil {
			return nil, err
		}
		values = append(values, args...)

		value, err := st.produce(name, values)
		if err != nil {
			return nil, err
		}
		if st.once {
			c.memoize(e, st, value)
		}
		return value, nil
	}
	panic("container: unreachable entry state")
}

// enter looks name up, loading deferred providers on a miss, and counts the
// request. It returns the state as seen at that moment.
func (c *Container) enter(name string) (*entry, state, error) {
	e, ok := c.lookup(name)
	if !ok {
		c.mu.RLock()
		loader := c.deferred
		c.mu.RUnlock()
		if loader != nil {
			loaded, err := loader(c, name)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "loading deferred provider for %q", name)
			}
			if loaded {
				e, ok = c.lookup(name)
			}
		}
	}
	if !ok {
		return nil, nil, &UnknownDependencyError{Name: name}
	}

	c.mu.Lock()
	e.resolvedCounter++
	st, count := e.state, e.resolvedCounter
	c.mu.Unlock()

	_, cached := st.(*memoized)
	c.Logger().Debug("resolving dependency",
		zap.String("name", name),
		zap.Int("count", count),
		zap.Bool("cached", cached),
	)
	return e, st, nil
}

// resolveDependencies resolves deps in order with name on the active path.
func (c *Container) resolveDependencies(name string, deps []string, path *activePath) ([]any, error) {
	values := make([]any, 0, len(deps))
	if len(deps) == 0 {
		return values, nil
	}

	path.push(name)
	defer path.pop()

	for _, d := range deps {
		if path.contains(d) {
			return nil, &CircularDependencyError{Chain: path.closedBy(d)}
		}
		v, err := c.resolve(d, nil, path)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// memoize swaps a once-entry to its final value. Nothing happens if the
// entry was overwritten while it was being produced.
func (c *Container) memoize(e *entry, from *pending, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[e.name] != e || e.state != state(from) {
		return
	}
	e.state = &memoized{value: value}
	c.Logger().Debug("memoized dependency", zap.String("name", e.name))
}

// ── Active path ───────────────────────────────────────────────────────────────

// activePath is the stack of names whose dependencies are being resolved.
type activePath []string

func (p *activePath) push(name string) { *p = append(*p, name) }

func (p *activePath) pop() { *p = (*p)[:len(*p)-1] }

func (p activePath) contains(name string) bool { return slices.Contains(p, name) }

// closedBy returns a copy of the path followed by the closing name.
func (p activePath) closedBy(name string) []string {
	chain := make([]string, len(p)+1)
	copy(chain, p)
	chain[len(p)] = name
	return chain
}
