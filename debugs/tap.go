package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/logs"
	"github.com/reusee/captai/starlambda"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens an interactive Starlark session over globals. It returns when the input ends.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		names := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "tap: "+what,
			"globals", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		mappings := make(starlark.StringDict)
		for name, value := range globals {
			mappings[name] = starlambda.ToStarlark(value)
		}

		thread := &starlark.Thread{
			Name: "tap",
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, thread, mappings)
	}
}

// ClosureGlobals collects what a tap over a closure shows: the bindings visible from env,
// then the closure's fields under "cap" and its enclosing object under "this".
func ClosureGlobals(c *capture.Closure, env *capture.Env) map[string]any {
	ret := make(map[string]any)
	if env != nil {
		for _, v := range env.Visible() {
			ret[v.Name] = v.Cell.Load()
		}
	}
	if c == nil {
		return ret
	}
	fields := make(map[string]any, len(c.Fields))
	for _, name := range c.FieldNames() {
		value, err := c.Peek(name)
		if err != nil {
			// unreadable aliases are shown as the error
			value = err.Error()
		}
		fields[name] = value
	}
	ret["cap"] = fields
	if c.Self != nil {
		ret["this"] = c.Self
	}
	return ret
}
