package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ── Sentinels ─────────────────────────────────────────────────────────────────

// Sentinels matched by the typed errors below through errors.Is.
//
//	if errors.Is(err, container.ErrCircularDependency) { ... }
var (
	ErrInvalidName           = errors.New("invalid dependency name")
	ErrDuplicateName         = errors.New("duplicate dependency name")
	ErrInvalidProducer       = errors.New("invalid producer")
	ErrInvalidDependencyList = errors.New("invalid dependency list")
	ErrUnknownDependency     = errors.New("unknown dependency")
	ErrCircularDependency    = errors.New("circular dependency")
	ErrRedundantArgs         = errors.New("redundant arguments")
	ErrArgument              = errors.New("argument mismatch")
	ErrProducer              = errors.New("producer failed")
)

// ── Registration errors ───────────────────────────────────────────────────────

// InvalidNameError is returned when a name is empty or contains whitespace.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("container: expected dependency name to be a non-empty identifier, but got: %q", e.Name)
}

func (e *InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

// DuplicateNameError is returned when a name is registered twice without
// Definition.Overwrite.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("container: dependency %q is already registered", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// InvalidProducerError is returned when the producer does not fit its Kind.
type InvalidProducerError struct {
	Name string
	Kind Kind
	// Got is the Go type of the rejected producer.
	Got string
	// Reason is set when the type is right but its shape is not,
	// e.g. a factory returning three values.
	Reason string
}

func (e *InvalidProducerError) Error() string {
	want := "a factory function"
	switch e.Kind {
	case Constructor:
		want = "a constructor (struct type)"
	case Constant:
		want = "a constant"
	}
	msg := fmt.Sprintf("container: expected %s for %q, but got: %s", want, e.Name, e.Got)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *InvalidProducerError) Is(target error) bool { return target == ErrInvalidProducer }

// InvalidDependencyListError is returned when a dependency list holds
// something that is not a valid name. Observed describes every element,
// Positions lists the offending indexes.
type InvalidDependencyListError struct {
	Name      string
	Observed  []string
	Positions []int
}

func (e *InvalidDependencyListError) Error() string {
	return fmt.Sprintf("container: expected dependencies for %q to be a list of names, but got: [%s] (invalid at %v)",
		e.Name, strings.Join(e.Observed, ", "), e.Positions)
}

func (e *InvalidDependencyListError) Is(target error) bool { return target == ErrInvalidDependencyList }

// ── Resolution errors ─────────────────────────────────────────────────────────

// UnknownDependencyError is returned when a name has no entry.
type UnknownDependencyError struct {
	Name string
}

func (e *UnknownDependencyError) Error() string {
	return "container: unknown dependency: " + e.Name
}

func (e *UnknownDependencyError) Is(target error) bool { return target == ErrUnknownDependency }

// CircularDependencyError carries the active path plus the dependency that
// closed the cycle, e.g. [Foo Bar Foo].
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency detected: " + strings.Join(e.Chain, " => ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// RedundantArgsError is returned when arguments are passed to a once-entry
// that already holds its value.
type RedundantArgsError struct {
	Name string
}

func (e *RedundantArgsError) Error() string {
	return fmt.Sprintf("container: Get(%q, args...) with non-empty args is only allowed as the first Get() call for this once-dependency. "+
		"Use SetIgnoreRedundantArgs(true) to suppress this error.", e.Name)
}

func (e *RedundantArgsError) Is(target error) bool { return target == ErrRedundantArgs }

// ArgumentError is returned when the resolved argument list does not fit the
// producer's parameters or the constructor's fields.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("container: cannot produce %q: %s", e.Name, e.Reason)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// ProducerError wraps the error returned by a (T, error) factory.
type ProducerError struct {
	Name string
	Err  error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("container: factory for %q failed: %v", e.Name, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }

func (e *ProducerError) Is(target error) bool { return target == ErrProducer }
