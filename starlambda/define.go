package starlambda

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/captai/capture"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

// Define resolves the capture clause of lambda against env, analyzes its body and compiles it.
// It reports every rejection a capture clause and its body can cause before any closure exists.
func Define(engine *capture.Engine, env *capture.Env, lambda Lambda, options Options) (*Definition, error) {
	spec, err := capture.ParseClause(lambda.Clause)
	if err != nil {
		return nil, bodyError(lambda, err)
	}
	spec.Mutable = lambda.Mutable

	for _, param := range lambda.Params {
		if param.Name == capName || param.Name == thisName {
			return nil, bodyError(lambda, fmt.Errorf("parameter name %s is reserved", param.Name))
		}
	}

	file, err := fileOptions.Parse(filename(lambda), source(lambda), 0)
	if err != nil {
		return nil, bodyError(lambda, err)
	}
	analysis := analyze(file)

	plan, err := engine.Resolve(spec, env)
	if err != nil {
		return nil, bodyError(lambda, err)
	}

	// free names, resolved against the bindings visible at the definition
	var globals []string
	var bare []string
	program, err := starlark.FileProgram(file, func(name string) bool {
		switch name {
		case capName, thisName:
			return true
		}
		if _, ok := options.Funcs[name]; ok {
			return true
		}
		v, ok := env.Lookup(name)
		if !ok {
			return false
		}
		if v.Storage == capture.Global {
			if !slices.Contains(globals, name) {
				globals = append(globals, name)
			}
		} else if !slices.Contains(bare, name) {
			bare = append(bare, name)
		}
		return true
	})
	if err != nil {
		return nil, bodyError(lambda, err)
	}

	uses := make([]string, 0, len(analysis.fields)+len(bare))
	for _, use := range analysis.fields {
		v, ok := env.Lookup(use.name)
		if !ok {
			return nil, bodyError(lambda, &capture.Error{
				Kind:   capture.ErrUnknownOrIneligibleBinding,
				Name:   use.name,
				Detail: fmt.Sprintf("not visible (%s)", use.pos),
			})
		}
		if v.Storage == capture.Global {
			return nil, bodyError(lambda, &capture.Error{
				Kind:   capture.ErrUnknownOrIneligibleBinding,
				Name:   use.name,
				Detail: fmt.Sprintf("global bindings are not captured, read it as %s (%s)", use.name, use.pos),
			})
		}
		uses = append(uses, use.name)
	}
	uses = append(uses, bare...)
	if err := engine.CheckUses(plan, env, uses); err != nil {
		return nil, bodyError(lambda, err)
	}
	if len(bare) > 0 {
		return nil, bodyError(lambda, &capture.Error{
			Kind:   capture.ErrUncapturedBindingUsed,
			Name:   bare[0],
			Detail: fmt.Sprintf("captured bindings are read as %s.%s", capName, bare[0]),
		})
	}

	if analysis.this && !plan.CaptureSelf {
		if plan.Default == capture.None {
			return nil, bodyError(lambda, &capture.Error{
				Kind:   capture.ErrUncapturedBindingUsed,
				Name:   thisName,
				Detail: "the enclosing object is not in the capture list",
			})
		}
		if env.Enclosing() == nil {
			return nil, bodyError(lambda, &capture.Error{
				Kind: capture.ErrNoEnclosingObject,
				Name: thisName,
			})
		}
		// a capture default captures the enclosing object when the body uses it
		plan.CaptureSelf = true
	}

	if !plan.Mutable {
		for _, use := range analysis.fields {
			if use.write && plan.ModeOf(use.name) == capture.ByValue {
				return nil, bodyError(lambda, &capture.Error{
					Kind:   capture.ErrConstFieldWrite,
					Name:   use.name,
					Detail: fmt.Sprintf("by-value capture of a lambda that is not mutable (%s)", use.pos),
				})
			}
		}
	}

	result := lambda.Result
	if result == capture.Infer {
		result = analysis.result
	}

	return &Definition{
		Lambda: lambda,
		Spec:   spec,
		Plan:   plan,
		Signature: capture.Signature{
			Params: lambda.Params,
			Result: result,
		},
		engine:  engine,
		program: program,
		globals: globals,
		options: options,
	}, nil
}

// Synthesize makes a closure instance from the bindings of env.
func (d *Definition) Synthesize(env *capture.Env) (*capture.Closure, error) {
	closure, err := d.engine.Synthesize(d.Plan, env, d.Signature, d.body)
	if err != nil {
		return nil, bodyError(d.Lambda, err)
	}
	closure.Name = d.Lambda.Name
	return closure, nil
}

func (d *Definition) body(frame *capture.Frame) (any, error) {
	thread := &starlark.Thread{
		Name: filename(d.Lambda),
	}
	if d.options.Print != nil {
		thread.Print = func(_ *starlark.Thread, msg string) {
			d.options.Print(msg)
		}
	}

	fields := newFieldsValue(frame)
	predeclared := starlark.StringDict{
		capName:  fields,
		thisName: starlark.None,
	}
	var this *objectValue
	if self := frame.Self(); self != nil {
		this = &objectValue{object: self}
		predeclared[thisName] = this
	}
	for name, fn := range d.options.Funcs {
		if callable, ok := fn.(capture.Callable); ok {
			predeclared[name] = ToStarlark(callable)
			continue
		}
		predeclared[name] = starlarkutil.MakeFunc(name, fn)
	}
	for _, name := range d.globals {
		v, err := frame.Get(name)
		if err != nil {
			return nil, err
		}
		predeclared[name] = ToStarlark(v)
	}

	module, err := d.program.Init(thread, predeclared)
	if err != nil {
		return nil, err
	}

	args := make(starlark.Tuple, len(frame.Args()))
	for i, arg := range frame.Args() {
		args[i] = ToStarlark(arg)
	}
	ret, callErr := starlark.Call(thread, module[funcName], args, nil)

	// in-place changes made before a failure are kept, as assignments are
	if err := fields.flush(); err != nil {
		return nil, errors.Join(callErr, err)
	}
	if this != nil {
		if err := this.flush(); err != nil {
			return nil, errors.Join(callErr, err)
		}
	}
	for _, name := range d.globals {
		if !isContainer(predeclared[name]) {
			continue
		}
		v, err := FromStarlark(predeclared[name])
		if err != nil {
			return nil, errors.Join(callErr, err)
		}
		if err := frame.Set(name, v); err != nil {
			return nil, errors.Join(callErr, err)
		}
	}

	if callErr != nil {
		if names := fields.frozen(); len(names) > 0 && strings.Contains(callErr.Error(), "frozen") {
			return nil, &capture.Error{
				Kind:   capture.ErrConstFieldWrite,
				Name:   strings.Join(names, ", "),
				Detail: callErr.Error(),
			}
		}
		return nil, callErr
	}
	return FromStarlark(ret)
}
