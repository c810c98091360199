package scenarios

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/logs"
	"github.com/reusee/captai/starlambda"
)

// Session is the state of one scenario: the scope stack, the enclosing objects,
// the lambda definitions and the closure instances bound to names.
// It is not safe for concurrent use.
type Session struct {
	Name string

	ctx         context.Context
	engine      *capture.Engine
	logger      logs.Logger
	cue         *cue.Context
	root        *capture.Env
	scopes      []*capture.Env
	objects     map[string]*capture.Object
	definitions map[string]definition
	closures    map[string]capture.Callable
	transcript  []string
	output      []string
}

type definition struct {
	def *starlambda.Definition
	env *capture.Env
}

func NewSession(ctx context.Context, name string, engine *capture.Engine, logger logs.Logger) *Session {
	root := capture.NewEnv()
	return &Session{
		Name:        name,
		ctx:         ctx,
		engine:      engine,
		logger:      logger,
		cue:         cuecontext.New(),
		root:        root,
		scopes:      []*capture.Env{root.NewChild()},
		objects:     make(map[string]*capture.Object),
		definitions: make(map[string]definition),
		closures:    make(map[string]capture.Callable),
	}
}

// Env is the innermost open scope.
func (s *Session) Env() *capture.Env {
	return s.scopes[len(s.scopes)-1]
}

func (s *Session) Transcript() []string {
	return s.transcript
}

func (s *Session) note(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	s.transcript = append(s.transcript, line)
	s.logger.DebugContext(s.ctx, "scenario",
		"name", s.Name,
		"line", line,
	)
}

func (s *Session) print(msg string) {
	s.output = append(s.output, msg)
}

func (s *Session) Global(name string, value any) {
	s.root.DefGlobal(name, value)
	s.note("global %s = %s", name, show(value))
}

func (s *Session) Let(name string, value any) {
	s.Env().Def(name, value)
	s.note("let %s = %s", name, show(value))
}

func (s *Session) Set(name string, value any) error {
	if !s.Env().Set(name, value) {
		return fmt.Errorf("no binding named %s", name)
	}
	s.note("set %s = %s", name, show(value))
	return nil
}

func (s *Session) Get(name string) (any, error) {
	v, ok := s.Env().Get(name)
	if !ok {
		return nil, fmt.Errorf("no binding named %s", name)
	}
	return v, nil
}

// Enter opens a nested block scope.
func (s *Session) Enter() {
	s.scopes = append(s.scopes, s.Env().NewChild())
	s.note("enter")
}

// EnterMethod creates an object and opens the scope of one of its member functions.
func (s *Session) EnterMethod(typeName string, members []Binding) *capture.Object {
	object := capture.NewObject(typeName)
	for _, member := range members {
		object.Def(member.Name, normalize(member.Value))
	}
	s.objects[typeName] = object
	s.scopes = append(s.scopes, capture.NewMethodEnv(s.Env(), object))
	s.note("method of %s", object)
	return object
}

// Leave closes the innermost scope; its local bindings end.
func (s *Session) Leave() error {
	if len(s.scopes) == 1 {
		return fmt.Errorf("no scope to leave")
	}
	s.Env().Close()
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.note("leave")
	return nil
}

func (s *Session) Object(typeName string) (*capture.Object, error) {
	object, ok := s.objects[typeName]
	if !ok {
		return nil, fmt.Errorf("no object of type %s", typeName)
	}
	return object, nil
}

func toLambda(spec LambdaSpec) (lambda starlambda.Lambda, err error) {
	lambda = starlambda.Lambda{
		Name:    spec.Name,
		Clause:  spec.Clause,
		Mutable: spec.Mutable,
		Body:    spec.Body,
	}
	for _, param := range spec.Params {
		t, err := capture.ParseType(param.Type)
		if err != nil {
			return lambda, err
		}
		lambda.Params = append(lambda.Params, capture.Param{
			Name: param.Name,
			Type: t,
		})
	}
	lambda.Result, err = capture.ParseType(spec.Result)
	return
}

// Define defines a lambda in the current scope and binds its first instance to the lambda's name.
func (s *Session) Define(spec LambdaSpec) (*capture.Closure, error) {
	lambda, err := toLambda(spec)
	if err != nil {
		return nil, err
	}
	env := s.Env()
	def, err := starlambda.Define(s.engine, env, lambda, starlambda.Options{
		Print: s.print,
	})
	if err != nil {
		return nil, err
	}
	closure, err := def.Synthesize(env)
	if err != nil {
		return nil, err
	}
	s.definitions[spec.Name] = definition{
		def: def,
		env: env,
	}
	s.bind(spec.Name, closure)
	s.note("define %s", closure)
	return closure, nil
}

func (s *Session) bind(name string, callable capture.Callable) {
	s.closures[name] = callable
	s.Env().Def(name, callable)
}

// Instance makes a fresh closure from a definition, as evaluating the lambda expression again would.
func (s *Session) Instance(definitionName string, as string) (*capture.Closure, error) {
	d, ok := s.definitions[definitionName]
	if !ok {
		return nil, fmt.Errorf("no lambda definition named %s", definitionName)
	}
	closure, err := d.def.Synthesize(d.env)
	if err != nil {
		return nil, err
	}
	closure.Name = as
	s.bind(as, closure)
	s.note("instance %s of %s", closure, definitionName)
	return closure, nil
}

// Closure returns the closure bound to name.
func (s *Session) Closure(name string) (*capture.Closure, error) {
	callable, err := s.callable(name)
	if err != nil {
		return nil, err
	}
	closure, ok := callable.(*capture.Closure)
	if !ok {
		return nil, fmt.Errorf("%s is not a closure", name)
	}
	return closure, nil
}

func (s *Session) callable(name string) (capture.Callable, error) {
	if callable, ok := s.closures[name]; ok {
		return callable, nil
	}
	if v, ok := s.Env().Get(name); ok {
		if callable, ok := v.(capture.Callable); ok {
			return callable, nil
		}
	}
	return nil, fmt.Errorf("no closure named %s", name)
}

// Copy copies a closure object: owned fields are duplicated, aliases and the object handle are shared.
func (s *Session) Copy(from string, as string) (*capture.Closure, error) {
	closure, err := s.Closure(from)
	if err != nil {
		return nil, err
	}
	ret := closure.Copy()
	ret.Name = as
	s.bind(as, ret)
	s.note("copy %s = %s", as, from)
	return ret, nil
}

// Call invokes a closure and returns its result and what the body printed.
func (s *Session) Call(name string, args ...any) (ret any, output []string, err error) {
	callable, err := s.callable(name)
	if err != nil {
		return nil, nil, err
	}
	s.output = nil
	defer func() {
		output = s.output
		s.output = nil
	}()
	ret, err = callable.Call(args...)
	if err != nil {
		s.note("call %s(%s): %v", name, showArgs(args), err)
		return nil, nil, err
	}
	for _, line := range s.output {
		s.note("  | %s", line)
	}
	s.note("call %s(%s) = %s", name, showArgs(args), show(ret))
	return ret, nil, nil
}

// Bindings returns the bindings visible from the current scope.
func (s *Session) Bindings() []capture.EnvVar {
	return s.Env().Visible()
}

// Closures returns the names of the bound closures.
func (s *Session) Closures() []string {
	names := make([]string, 0, len(s.closures))
	for name := range s.closures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func show(v any) string {
	switch v := v.(type) {
	case nil:
		return "void"
	case string:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%v", v)
}

func showArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = show(arg)
	}
	return strings.Join(parts, ", ")
}
