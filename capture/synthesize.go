package capture

import "fmt"

// Synthesize builds the closure for plan. Values of by-value fields are taken now;
// by-reference fields alias the bindings' cells.
func (e *Engine) Synthesize(plan *Plan, env *Env, sig Signature, body Body) (*Closure, error) {
	if sig.Result == Infer {
		return nil, fmt.Errorf("result type not resolved")
	}
	for _, param := range sig.Params {
		if param.Type == Infer || param.Type == Void {
			return nil, fmt.Errorf("bad type %v for parameter %s", param.Type, param.Name)
		}
	}
	if body == nil {
		return nil, fmt.Errorf("no body")
	}

	closure := &Closure{
		Signature: sig,
		Body:      body,
		globals:   env.Root(),
		engine:    e,
	}

	explicit := make(map[string]bool, len(plan.Entries))
	for _, entry := range plan.Entries {
		explicit[entry.Name] = true
		v, ok := env.Lookup(entry.Name)
		if !ok || !v.Storage.Capturable() {
			return nil, newError(ErrUnknownOrIneligibleBinding, entry.Name, "not visible at synthesis")
		}
		closure.Fields = append(closure.Fields, makeField(v, entry.Mode, plan.Mutable))
	}

	if plan.Default != None {
		var used map[string]bool
		if plan.Uses != nil {
			used = make(map[string]bool, len(plan.Uses))
			for _, name := range plan.Uses {
				used[name] = true
			}
		}
		for _, v := range env.Visible() {
			if !v.Storage.Capturable() || explicit[v.Name] {
				continue
			}
			if used != nil && !used[v.Name] {
				continue
			}
			closure.Fields = append(closure.Fields, makeField(v, plan.Default, plan.Mutable))
		}
	}

	if plan.CaptureSelf {
		self := env.Enclosing()
		if self == nil {
			return nil, newError(ErrNoEnclosingObject, "this", "")
		}
		closure.Self = self
	}

	e.logger().Debug("closure synthesized",
		"fields", closure.FieldNames(),
		"self", closure.Self != nil,
		"signature", sig.String(),
	)

	return closure, nil
}

func makeField(v EnvVar, mode Mode, mutable bool) Field {
	field := Field{
		Name:    v.Name,
		Mode:    mode,
		Storage: v.Storage,
	}
	if mode == ByReference {
		field.alias = v.Cell
		return field
	}
	field.value = snapshot(v.Cell.Load())
	field.Const = !mutable
	return field
}
