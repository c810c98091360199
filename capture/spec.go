package capture

import (
	"strings"
	"unicode"
)

type Override struct {
	Name string
	Mode Mode
}

// CaptureSpec is a declared capture clause.
type CaptureSpec struct {
	Default     Mode
	Overrides   []Override
	Mutable     bool
	CaptureSelf bool
}

// ParseClause parses a bracketed capture clause such as "[=, &a, this]".
// The capture default must come first; "*this" is not supported.
func ParseClause(clause string) (spec CaptureSpec, err error) {
	clause = strings.TrimSpace(clause)
	if !strings.HasPrefix(clause, "[") || !strings.HasSuffix(clause, "]") {
		return spec, newError(ErrBadCaptureClause, "", "want [...], got %q", clause)
	}
	inner := strings.TrimSpace(clause[1 : len(clause)-1])
	if inner == "" {
		return spec, nil
	}

	for i, item := range strings.Split(inner, ",") {
		item = strings.TrimSpace(item)
		switch {

		case item == "=" || item == "&":
			if i != 0 {
				return spec, newError(ErrBadCaptureClause, "", "capture default %q must come first", item)
			}
			spec.Default, _ = ParseMode(item)

		case item == "this":
			if spec.CaptureSelf {
				return spec, newError(ErrDuplicateCapture, "this", "")
			}
			spec.CaptureSelf = true

		case item == "*this":
			return spec, newError(ErrBadCaptureClause, "*this", "copying the enclosing object is not supported")

		case strings.HasPrefix(item, "&"):
			name := strings.TrimSpace(item[1:])
			if !isIdent(name) {
				return spec, newError(ErrBadCaptureClause, "", "bad capture %q", item)
			}
			spec.Overrides = append(spec.Overrides, Override{
				Name: name,
				Mode: ByReference,
			})

		default:
			if !isIdent(item) {
				return spec, newError(ErrBadCaptureClause, "", "bad capture %q", item)
			}
			spec.Overrides = append(spec.Overrides, Override{
				Name: item,
				Mode: ByValue,
			})

		}
	}

	return spec, nil
}

// String renders the spec as a capture clause.
func (s CaptureSpec) String() string {
	var items []string
	switch s.Default {
	case ByValue:
		items = append(items, "=")
	case ByReference:
		items = append(items, "&")
	}
	for _, o := range s.Overrides {
		if o.Mode == ByReference {
			items = append(items, "&"+o.Name)
		} else {
			items = append(items, o.Name)
		}
	}
	if s.CaptureSelf {
		items = append(items, "this")
	}
	ret := "[" + strings.Join(items, ", ") + "]"
	if s.Mutable {
		ret += " mutable"
	}
	return ret
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
