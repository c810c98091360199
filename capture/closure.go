package capture

import (
	"fmt"
	"strings"
)

// Body is the code of a lambda. It sees captured state only through the Frame.
type Body func(frame *Frame) (any, error)

// Field is one captured binding of a Closure.
type Field struct {
	Name    string
	Mode    Mode
	Storage Storage
	// Const is set on by-value fields of a non-mutable lambda.
	Const bool

	value any
	alias *Cell
}

// Owned reports whether the field holds its own copy rather than an alias.
func (f *Field) Owned() bool {
	return f.Mode == ByValue
}

// Closure is a synthesized lambda: its fields, the handle to the enclosing object, and its signature.
//
// A by-reference field keeps the aliased cell reachable after the defining scope ends.
// That is a dangling alias in the modeled language; the Engine's DanglingPolicy decides
// whether such accesses succeed, are flagged or are rejected.
type Closure struct {
	Name      string
	Fields    []Field
	Self      *Object
	Signature Signature
	Body      Body

	globals *Env
	engine  *Engine
}

var _ Callable = new(Closure)

func (c *Closure) field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

func (c *Closure) Field(name string) (Field, bool) {
	f := c.field(name)
	if f == nil {
		return Field{}, false
	}
	return *f, true
}

func (c *Closure) FieldNames() []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}

// Peek reads a field without invoking the body.
func (c *Closure) Peek(name string) (any, error) {
	f := c.field(name)
	if f == nil {
		return nil, newError(ErrUnknownField, name, "not captured")
	}
	return c.load(f)
}

func (c *Closure) load(f *Field) (any, error) {
	if f.alias == nil {
		if f.Const {
			// a const field hands out copies so in-place changes cannot reach it
			return snapshot(f.value), nil
		}
		return f.value, nil
	}
	if err := c.engine.checkAlias(f.Name, f.alias); err != nil {
		return nil, err
	}
	return f.alias.Load(), nil
}

func (c *Closure) store(f *Field, value any) error {
	switch {
	case f.Const:
		return newError(ErrConstFieldWrite, f.Name, "by-value capture of a lambda that is not mutable")
	case f.alias != nil:
		if err := c.engine.checkAlias(f.Name, f.alias); err != nil {
			return err
		}
		f.alias.Store(value)
	default:
		f.value = value
	}
	return nil
}

// Copy returns an independent instance: by-value fields are duplicated, by-reference fields
// and the enclosing object handle keep pointing at the same storage.
func (c *Closure) Copy() *Closure {
	ret := *c
	ret.Fields = make([]Field, len(c.Fields))
	for i, f := range c.Fields {
		if f.alias == nil {
			f.value = snapshot(f.value)
		}
		ret.Fields[i] = f
	}
	return &ret
}

// Call invokes the closure with the engine that synthesized it.
func (c *Closure) Call(args ...any) (any, error) {
	return c.engine.Invoke(c, args...)
}

func (c *Closure) String() string {
	var b strings.Builder
	name := c.Name
	if name == "" {
		name = "lambda"
	}
	b.WriteString(name)
	b.WriteString("[")
	for i, f := range c.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Mode == ByReference {
			b.WriteString("&")
		}
		b.WriteString(f.Name)
	}
	if c.Self != nil {
		if len(c.Fields) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("this")
	}
	b.WriteString("]")
	fmt.Fprintf(&b, "%s", c.Signature)
	return b.String()
}
