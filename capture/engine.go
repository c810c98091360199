package capture

import (
	"fmt"
	"log/slog"

	"github.com/reusee/captai/logs"
)

// DanglingPolicy decides what a by-reference field does once its binding's scope has ended.
type DanglingPolicy uint8

const (
	// DanglingAllow keeps the alias usable: the closure extends the binding's lifetime.
	DanglingAllow DanglingPolicy = iota
	// DanglingFlag keeps the alias usable and logs a warning on every access.
	DanglingFlag
	// DanglingReject fails the access with ErrDanglingAlias.
	DanglingReject
)

func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch s {
	case "", "allow":
		return DanglingAllow, nil
	case "flag":
		return DanglingFlag, nil
	case "reject":
		return DanglingReject, nil
	}
	return DanglingAllow, fmt.Errorf("bad dangling alias policy: %q", s)
}

func (p DanglingPolicy) String() string {
	switch p {
	case DanglingAllow:
		return "allow"
	case DanglingFlag:
		return "flag"
	case DanglingReject:
		return "reject"
	}
	return fmt.Sprintf("DanglingPolicy(%d)", p)
}

// Engine resolves capture clauses, synthesizes closures and invokes them.
// It holds no per-closure state; one Engine serves any number of definitions.
type Engine struct {
	Logger   logs.Logger
	Dangling DanglingPolicy
}

func NewEngine(logger logs.Logger, dangling DanglingPolicy) *Engine {
	return &Engine{
		Logger:   logger,
		Dangling: dangling,
	}
}

var discardLogger = slog.New(slog.DiscardHandler)

func (e *Engine) logger() logs.Logger {
	if e == nil || e.Logger == nil {
		return discardLogger
	}
	return e.Logger
}

func (e *Engine) policy() DanglingPolicy {
	if e == nil {
		return DanglingAllow
	}
	return e.Dangling
}

func (e *Engine) checkAlias(name string, cell *Cell) error {
	if !cell.Expired() {
		return nil
	}
	switch e.policy() {
	case DanglingFlag:
		e.logger().Warn("access through dangling alias", "field", name)
	case DanglingReject:
		return newError(ErrDanglingAlias, name, "scope of the aliased binding has ended")
	}
	return nil
}
