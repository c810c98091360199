package starlambda

import (
	"fmt"

	"github.com/reusee/captai/capture"
	"go.starlark.net/starlark"
)

// objectValue is the enclosing object handle seen as `this`.
type objectValue struct {
	object *capture.Object
	// lists and dicts handed out during one invocation, written back by flush
	containers map[string]starlark.Value
}

var _ starlark.HasSetField = new(objectValue)

func (o *objectValue) String() string {
	return o.object.String()
}

func (o *objectValue) Type() string {
	return "object"
}

func (o *objectValue) Freeze() {}

func (o *objectValue) Truth() starlark.Bool {
	return starlark.True
}

func (o *objectValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: object")
}

func (o *objectValue) Attr(name string) (starlark.Value, error) {
	if v, ok := o.containers[name]; ok {
		return v, nil
	}
	v, ok := o.object.Get(name)
	if !ok {
		return nil, starlark.NoSuchAttrError(fmt.Sprintf("%s has no member %s", o.object.TypeName, name))
	}
	ret := ToStarlark(v)
	if isContainer(ret) {
		if o.containers == nil {
			o.containers = make(map[string]starlark.Value)
		}
		o.containers[name] = ret
	}
	return ret, nil
}

func (o *objectValue) AttrNames() []string {
	return o.object.Members()
}

func (o *objectValue) SetField(name string, value starlark.Value) error {
	v, err := FromStarlark(value)
	if err != nil {
		return err
	}
	if !o.object.Set(name, v) {
		return starlark.NoSuchAttrError(fmt.Sprintf("%s has no member %s", o.object.TypeName, name))
	}
	delete(o.containers, name)
	if isContainer(value) {
		if o.containers == nil {
			o.containers = make(map[string]starlark.Value)
		}
		o.containers[name] = value
	}
	return nil
}

// flush stores the lists and dicts read from members back into the object.
func (o *objectValue) flush() error {
	for _, name := range o.object.Members() {
		value, ok := o.containers[name]
		if !ok {
			continue
		}
		v, err := FromStarlark(value)
		if err != nil {
			return fmt.Errorf("member %s: %w", name, err)
		}
		o.object.Set(name, v)
	}
	return nil
}

// fieldsValue is `cap`: the captured fields of the running closure.
type fieldsValue struct {
	frame *capture.Frame
	// lists and dicts handed out during one invocation, so in-place changes are kept
	containers map[string]starlark.Value
}

func newFieldsValue(frame *capture.Frame) *fieldsValue {
	return &fieldsValue{
		frame:      frame,
		containers: make(map[string]starlark.Value),
	}
}

var _ starlark.HasSetField = new(fieldsValue)

func (f *fieldsValue) String() string {
	return f.frame.Closure().String()
}

func (f *fieldsValue) Type() string {
	return "captures"
}

func (f *fieldsValue) Freeze() {}

func (f *fieldsValue) Truth() starlark.Bool {
	return starlark.True
}

func (f *fieldsValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: captures")
}

func (f *fieldsValue) Attr(name string) (starlark.Value, error) {
	field, ok := f.frame.Closure().Field(name)
	if !ok {
		return nil, starlark.NoSuchAttrError(fmt.Sprintf("%s is not captured", name))
	}
	if v, ok := f.containers[name]; ok {
		return v, nil
	}
	v, err := f.frame.Get(name)
	if err != nil {
		return nil, err
	}
	ret := ToStarlark(v)
	if isContainer(ret) {
		if field.Const {
			ret.Freeze()
		}
		f.containers[name] = ret
	}
	return ret, nil
}

func (f *fieldsValue) AttrNames() []string {
	return f.frame.Closure().FieldNames()
}

func (f *fieldsValue) SetField(name string, value starlark.Value) error {
	if _, ok := f.frame.Closure().Field(name); !ok {
		return starlark.NoSuchAttrError(fmt.Sprintf("%s is not captured", name))
	}
	v, err := FromStarlark(value)
	if err != nil {
		return err
	}
	if err := f.frame.Set(name, v); err != nil {
		return err
	}
	delete(f.containers, name)
	if isContainer(value) {
		f.containers[name] = value
	}
	return nil
}

// flush stores the lists and dicts read from writable fields back through the frame.
func (f *fieldsValue) flush() error {
	for _, field := range f.frame.Closure().Fields {
		value, ok := f.containers[field.Name]
		if !ok || field.Const {
			continue
		}
		v, err := FromStarlark(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		if err := f.frame.Set(field.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// frozen returns the const fields whose lists or dicts the body has read.
func (f *fieldsValue) frozen() (names []string) {
	for _, field := range f.frame.Closure().Fields {
		if _, ok := f.containers[field.Name]; ok && field.Const {
			names = append(names, field.Name)
		}
	}
	return
}

// closureValue lets a body call or return another closure.
type closureValue struct {
	closure *capture.Closure
}

var _ starlark.Callable = new(closureValue)

func (c *closureValue) String() string {
	return c.closure.String()
}

func (c *closureValue) Type() string {
	return "closure"
}

func (c *closureValue) Freeze() {}

func (c *closureValue) Truth() starlark.Bool {
	return starlark.True
}

func (c *closureValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: closure")
}

func (c *closureValue) Name() string {
	return c.closure.Name
}

func (c *closureValue) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return callGo(c.closure, args, kwargs)
}

// callableValue wraps any other Go callable.
type callableValue struct {
	callable capture.Callable
}

var _ starlark.Callable = new(callableValue)

func (c *callableValue) String() string {
	return fmt.Sprintf("%v", c.callable)
}

func (c *callableValue) Type() string {
	return "callable"
}

func (c *callableValue) Freeze() {}

func (c *callableValue) Truth() starlark.Bool {
	return starlark.True
}

func (c *callableValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: callable")
}

func (c *callableValue) Name() string {
	return "callable"
}

func (c *callableValue) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return callGo(c.callable, args, kwargs)
}

func callGo(callable capture.Callable, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("keyword arguments not supported")
	}
	goArgs := make([]any, len(args))
	for i, arg := range args {
		v, err := FromStarlark(arg)
		if err != nil {
			return nil, err
		}
		goArgs[i] = v
	}
	ret, err := callable.Call(goArgs...)
	if err != nil {
		return nil, err
	}
	return ToStarlark(ret), nil
}

// starlarkFunc is a Starlark function that escaped its body, such as a returned lambda.
type starlarkFunc struct {
	fn starlark.Callable
}

var _ capture.Callable = new(starlarkFunc)

func (s *starlarkFunc) Call(args ...any) (any, error) {
	thread := &starlark.Thread{
		Name: s.fn.Name(),
	}
	tuple := make(starlark.Tuple, len(args))
	for i, arg := range args {
		tuple[i] = ToStarlark(arg)
	}
	ret, err := starlark.Call(thread, s.fn, tuple, nil)
	if err != nil {
		return nil, err
	}
	return FromStarlark(ret)
}

func (s *starlarkFunc) String() string {
	return s.fn.String()
}

func isContainer(v starlark.Value) bool {
	switch v.(type) {
	case *starlark.List, *starlark.Dict:
		return true
	}
	return false
}
