package capture

type PlanEntry struct {
	Name    string
	Mode    Mode
	Storage Storage
}

// Plan is a resolved capture clause. Entries hold the explicit overrides in declaration
// order; bindings implied by Default are materialized by Synthesize.
type Plan struct {
	Default     Mode
	Entries     []PlanEntry
	Mutable     bool
	CaptureSelf bool
	// Uses, when not nil, limits the implied bindings to the ones the body uses.
	Uses []string
}

func (p *Plan) Entry(name string) (PlanEntry, bool) {
	for _, entry := range p.Entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return PlanEntry{}, false
}

// ModeOf returns how name would be captured: its override, else the default.
func (p *Plan) ModeOf(name string) Mode {
	if entry, ok := p.Entry(name); ok {
		return entry.Mode
	}
	return p.Default
}
