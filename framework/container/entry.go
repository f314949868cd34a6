package container

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// ── Kind ──────────────────────────────────────────────────────────────────────

// Kind selects how a producer turns its arguments into a value.
type Kind uint8

const (
	// Constant stores the producer itself as the value.
	Constant Kind = iota
	// Factory calls a func with the arguments and returns its result.
	Factory
	// Constructor allocates a new struct and fills its exported fields with
	// the arguments, in field order.
	Constructor
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Factory:
		return "factory"
	case Constructor:
		return "constructor"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ── Definition ────────────────────────────────────────────────────────────────

// Definition is the input of Register. Every Register* helper builds one.
//
//	c.Register(container.Definition{
//	    Name:         "Car",
//	    Kind:         container.Constructor,
//	    Producer:     (*Car)(nil),
//	    Dependencies: []string{"Engine"},
//	    Once:         true,
//	})
type Definition struct {
	Name string
	Kind Kind
	// Producer is the value for Constant, a func for Factory and a struct
	// type (reflect.Type, struct value or pointer to struct) for Constructor.
	Producer     any
	Dependencies []string
	Overwrite    bool
	Once         bool
}

// ── Entry state ───────────────────────────────────────────────────────────────

// state is either *pending or *memoized. The resolver swaps the whole value,
// never single fields.
type state interface{ isState() }

// pending still has to be produced on every (or the first, if once) Get.
type pending struct {
	kind         Kind
	fn           reflect.Value // Factory
	typ          reflect.Type  // Constructor, the struct type
	dependencies []string
	once         bool
}

// memoized holds a final value: a Constant, or a once-entry already produced.
type memoized struct {
	value any
}

func (*pending) isState()  {}
func (*memoized) isState() {}

// entry is the registry record for one name.
type entry struct {
	name            string
	state           state
	resolvedCounter int
}

// ── Validation ────────────────────────────────────────────────────────────────

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// validName reports whether name can be used as a key: non-empty and free of
// whitespace.
func validName(name string) bool {
	if name == "" {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}

// newState validates def and builds the initial entry state.
func newState(def Definition) (state, error) {
	if !validName(def.Name) {
		return nil, &InvalidNameError{Name: def.Name}
	}

	deps, err := copyDependencies(def.Name, def.Dependencies)
	if err != nil {
		return nil, err
	}

	switch def.Kind {
	case Constant:
		if len(deps) > 0 {
			return nil, &InvalidProducerError{Name: def.Name, Kind: Constant, Got: fmt.Sprintf("%T", def.Producer), Reason: "constants take no dependencies"}
		}
		return &memoized{value: def.Producer}, nil
	case Factory, Constructor:
	default:
		return nil, &InvalidProducerError{Name: def.Name, Kind: def.Kind, Got: fmt.Sprintf("%T", def.Producer), Reason: "unknown kind " + def.Kind.String()}
	}
	p := &pending{kind: def.Kind, dependencies: deps, once: def.Once}

	if def.Kind == Factory {
		fn, err := factoryFunc(def.Name, def.Producer)
		if err != nil {
			return nil, err
		}
		p.fn = fn
		return p, nil
	}

	typ, ok := structType(def.Producer)
	if !ok {
		return nil, &InvalidProducerError{Name: def.Name, Kind: Constructor, Got: fmt.Sprintf("%T", def.Producer)}
	}
	p.typ = typ
	return p, nil
}

// copyDependencies returns a private copy of deps, or nil when empty.
func copyDependencies(name string, deps []string) ([]string, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	var bad []int
	observed := make([]string, len(deps))
	for i, d := range deps {
		switch {
		case d == "":
			observed[i] = "empty"
			bad = append(bad, i)
		case !validName(d):
			observed[i] = "whitespace"
			bad = append(bad, i)
		default:
			observed[i] = "string"
		}
	}
	if len(bad) > 0 {
		return nil, &InvalidDependencyListError{Name: name, Observed: observed, Positions: bad}
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out, nil
}

// factoryFunc accepts funcs returning T or (T, error).
func factoryFunc(name string, producer any) (reflect.Value, error) {
	v := reflect.ValueOf(producer)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return reflect.Value{}, &InvalidProducerError{Name: name, Kind: Factory, Got: fmt.Sprintf("%T", producer)}
	}
	t := v.Type()
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return reflect.Value{}, &InvalidProducerError{Name: name, Kind: Factory, Got: t.String(), Reason: "must return T or (T, error)"}
	}
	return v, nil
}

// structType extracts the struct type a Constructor producer stands for.
func structType(producer any) (reflect.Type, bool) {
	t, ok := producer.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(producer)
	}
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

// ── Production ────────────────────────────────────────────────────────────────

// produce invokes the producer with the final argument list.
func (p *pending) produce(name string, args []any) (any, error) {
	if p.kind == Constructor {
		return construct(name, p.typ, args)
	}
	return call(name, p.fn, args)
}

func call(name string, fn reflect.Value, args []any) (any, error) {
	t := fn.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, &ArgumentError{Name: name, Reason: fmt.Sprintf("factory takes at least %d arguments, got %d", n-1, len(args))}
		}
	} else if len(args) != n {
		return nil, &ArgumentError{Name: name, Reason: fmt.Sprintf("factory takes %d arguments, got %d", n, len(args))}
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= n-1 {
			pt = t.In(n - 1).Elem()
		} else {
			pt = t.In(i)
		}
		v, err := argValue(a, pt)
		if err != nil {
			return nil, &ArgumentError{Name: name, Reason: fmt.Sprintf("argument %d: %v", i, err)}
		}
		in[i] = v
	}

	out := fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, &ProducerError{Name: name, Err: out[1].Interface().(error)}
	}
	return out[0].Interface(), nil
}

func construct(name string, typ reflect.Type, args []any) (any, error) {
	ptr := reflect.New(typ)
	s := ptr.Elem()
	next := 0
	for i := 0; i < typ.NumField() && next < len(args); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		v, err := argValue(args[next], f.Type)
		if err != nil {
			return nil, &ArgumentError{Name: name, Reason: fmt.Sprintf("field %s: %v", f.Name, err)}
		}
		s.Field(i).Set(v)
		next++
	}
	if next < len(args) {
		return nil, &ArgumentError{Name: name, Reason: fmt.Sprintf("%s has room for %d arguments, got %d", typ, next, len(args))}
	}
	return ptr.Interface(), nil
}

// argValue converts a resolved argument to a value of type t. nil becomes
// the zero value of t.
func argValue(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
	}
	v := reflect.ValueOf(a)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
	}
	return v, nil
}
