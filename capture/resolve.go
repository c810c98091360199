package capture

// Resolve validates spec against the bindings visible from env and returns the capture plan.
func (e *Engine) Resolve(spec CaptureSpec, env *Env) (*Plan, error) {
	plan := &Plan{
		Default:     spec.Default,
		Mutable:     spec.Mutable,
		CaptureSelf: spec.CaptureSelf,
	}

	seen := make(map[string]bool, len(spec.Overrides))
	for _, override := range spec.Overrides {
		if seen[override.Name] {
			return nil, newError(ErrDuplicateCapture, override.Name, "listed more than once")
		}
		seen[override.Name] = true

		if override.Mode != ByValue && override.Mode != ByReference {
			return nil, newError(ErrBadCaptureClause, override.Name, "override mode must be by-value or by-reference, got %v", override.Mode)
		}

		v, ok := env.Lookup(override.Name)
		if !ok {
			return nil, newError(ErrUnknownOrIneligibleBinding, override.Name, "not visible")
		}
		if !v.Storage.Capturable() {
			return nil, newError(ErrUnknownOrIneligibleBinding, override.Name, "%v bindings are not captured", v.Storage)
		}

		if override.Mode == spec.Default {
			return nil, newError(ErrRedundantCaptureSpec, override.Name, "same mode as the capture default (%v)", spec.Default)
		}

		plan.Entries = append(plan.Entries, PlanEntry{
			Name:    override.Name,
			Mode:    override.Mode,
			Storage: v.Storage,
		})
	}

	if spec.CaptureSelf && env.Enclosing() == nil {
		return nil, newError(ErrNoEnclosingObject, "this", "")
	}

	e.logger().Debug("capture resolved",
		"default", plan.Default,
		"entries", len(plan.Entries),
		"mutable", plan.Mutable,
		"self", plan.CaptureSelf,
	)

	return plan, nil
}

// CheckUses is called by body analysis with the names a body references.
// Without a capture default, every used local or member binding must be listed explicitly.
// The uses are recorded in the plan so that Synthesize materializes only those implied bindings.
func (e *Engine) CheckUses(plan *Plan, env *Env, uses []string) error {
	seen := make(map[string]bool, len(uses))
	recorded := make([]string, 0, len(uses))
	for _, name := range uses {
		if seen[name] {
			continue
		}
		seen[name] = true
		recorded = append(recorded, name)

		if _, ok := plan.Entry(name); ok {
			continue
		}
		v, ok := env.Lookup(name)
		if !ok || !v.Storage.Capturable() {
			// globals are reachable by name; unknown names are the body analyzer's to report
			continue
		}
		if plan.Default == None {
			return newError(ErrUncapturedBindingUsed, name, "%v binding is not in the capture list", v.Storage)
		}
	}
	plan.Uses = recorded
	return nil
}
