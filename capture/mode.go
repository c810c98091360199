package capture

import "fmt"

// Mode is how a binding is captured.
type Mode uint8

const (
	None Mode = iota
	ByValue
	ByReference
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case ByValue:
		return "by-value"
	case ByReference:
		return "by-reference"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode accepts the clause spellings ("=", "&", "") as well as the names printed by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "none":
		return None, nil
	case "=", "by-value":
		return ByValue, nil
	case "&", "by-reference":
		return ByReference, nil
	}
	return None, fmt.Errorf("bad capture mode: %q", s)
}
