package modes

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	// ModeDevelopment is used by tests; configuration files outside the working tree are ignored.
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return "unknown"
}
