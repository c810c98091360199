package capture

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOrIneligibleBinding  = errors.New("unknown or ineligible binding")
	ErrRedundantCaptureSpec        = errors.New("redundant capture spec")
	ErrDuplicateCapture            = errors.New("duplicate capture")
	ErrNoEnclosingObject           = errors.New("no enclosing object")
	ErrUncapturedBindingUsed       = errors.New("uncaptured binding used")
	ErrInvocationSignatureMismatch = errors.New("invocation signature mismatch")
	ErrConstFieldWrite             = errors.New("write to const field")
	ErrUnknownField                = errors.New("unknown field")
	ErrDanglingAlias               = errors.New("dangling alias")
	ErrBadCaptureClause            = errors.New("bad capture clause")
)

var kindNames = map[error]string{
	ErrUnknownOrIneligibleBinding:  "UnknownOrIneligibleBinding",
	ErrRedundantCaptureSpec:        "RedundantCaptureSpec",
	ErrDuplicateCapture:            "DuplicateCapture",
	ErrNoEnclosingObject:           "NoEnclosingObject",
	ErrUncapturedBindingUsed:       "UncapturedBindingUsed",
	ErrInvocationSignatureMismatch: "InvocationSignatureMismatch",
	ErrConstFieldWrite:             "ConstFieldWrite",
	ErrUnknownField:                "UnknownField",
	ErrDanglingAlias:               "DanglingAlias",
	ErrBadCaptureClause:            "BadCaptureClause",
}

// Error is a rejection tied to one binding name.
type Error struct {
	Kind   error
	Name   string
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg = e.Name + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, name string, format string, args ...any) *Error {
	err := &Error{
		Kind: kind,
		Name: name,
	}
	if format != "" {
		err.Detail = fmt.Sprintf(format, args...)
	}
	return err
}

// KindName returns the name of the capture error kind err wraps, or "" if it wraps none.
func KindName(err error) string {
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return ""
}

// KindByName is the inverse of KindName.
func KindByName(name string) (error, bool) {
	for kind, n := range kindNames {
		if n == name {
			return kind, true
		}
	}
	return nil, false
}
