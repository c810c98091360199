package capture

import "fmt"

// Invoke binds args to c's parameters and runs its body.
func (e *Engine) Invoke(c *Closure, args ...any) (any, error) {
	params := c.Signature.Params
	if len(args) != len(params) {
		return nil, newError(ErrInvocationSignatureMismatch, c.Name, "want %d arguments, got %d", len(params), len(args))
	}
	for i, param := range params {
		if !param.Type.Match(args[i]) {
			return nil, newError(ErrInvocationSignatureMismatch, c.Name, "argument %d (%s): want %v, got %T", i, param.Name, param.Type, args[i])
		}
	}

	e.logger().Debug("invoke",
		"closure", c.Name,
		"argc", len(args),
	)

	frame := &Frame{
		closure: c,
		args:    args,
	}
	ret, err := c.Body(frame)
	if err != nil {
		return nil, err
	}

	if !c.Signature.Result.Match(ret) {
		// the result type is fixed before synthesis; a mismatch is a bug in the body
		panic(fmt.Errorf("closure %s returned %T, declared %v", c.Name, ret, c.Signature.Result))
	}
	return ret, nil
}

// Frame is what a body sees during one invocation.
type Frame struct {
	closure *Closure
	args    []any
}

func (f *Frame) Closure() *Closure {
	return f.closure
}

func (f *Frame) Args() []any {
	return f.args
}

func (f *Frame) Arg(i int) any {
	return f.args[i]
}

// Param returns the argument bound to the named parameter.
func (f *Frame) Param(name string) (any, bool) {
	for i, p := range f.closure.Signature.Params {
		if p.Name == name {
			return f.args[i], true
		}
	}
	return nil, false
}

// Self returns the enclosing object handle, or nil if it was not captured.
func (f *Frame) Self() *Object {
	return f.closure.Self
}

// Get reads a captured field, or else a process-global binding by name.
func (f *Frame) Get(name string) (any, error) {
	if field := f.closure.field(name); field != nil {
		return f.closure.load(field)
	}
	if v, ok := f.global(name); ok {
		return v.Cell.Load(), nil
	}
	return nil, newError(ErrUnknownField, name, "not captured")
}

// Set writes a captured field, or else a process-global binding by name.
func (f *Frame) Set(name string, value any) error {
	if field := f.closure.field(name); field != nil {
		return f.closure.store(field, value)
	}
	if v, ok := f.global(name); ok {
		v.Cell.Store(value)
		return nil
	}
	return newError(ErrUnknownField, name, "not captured")
}

func (f *Frame) global(name string) (EnvVar, bool) {
	if f.closure.globals == nil {
		return EnvVar{}, false
	}
	v, ok := f.closure.globals.Lookup(name)
	if !ok || v.Storage != Global {
		return EnvVar{}, false
	}
	return v, true
}
