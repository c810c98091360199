package starlambda

import (
	"fmt"
	"strings"

	"github.com/reusee/captai/capture"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Lambda is a lambda expression whose body is Starlark.
//
// The body is the statement list of a function taking Params. It reads and writes
// captured fields as cap.<name>, members of the enclosing object as this.<member>,
// and process-global bindings by their bare names.
type Lambda struct {
	Name    string
	Clause  string
	Mutable bool
	Params  []capture.Param
	// Result is capture.Infer to derive it from the body's return statements.
	Result capture.Type
	Body   string
}

type Options struct {
	// Funcs are Go functions callable from the body by name.
	Funcs map[string]any
	// Print receives the output of print() in the body.
	Print func(msg string)
}

const (
	capName  = "cap"
	thisName = "this"
	funcName = "lambda_"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

// Definition is a resolved and analyzed lambda. Every Synthesize makes a new closure instance.
type Definition struct {
	Lambda    Lambda
	Spec      capture.CaptureSpec
	Plan      *capture.Plan
	Signature capture.Signature

	engine  *capture.Engine
	program *starlark.Program
	globals []string
	options Options
}

func (d *Definition) String() string {
	name := d.Lambda.Name
	if name == "" {
		name = "lambda"
	}
	return name + d.Spec.String() + d.Signature.String()
}

func source(lambda Lambda) string {
	var b strings.Builder
	b.WriteString("def " + funcName + "(")
	for i, param := range lambda.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.Name)
	}
	b.WriteString("):\n")
	body := strings.TrimRight(lambda.Body, " \t\n")
	if strings.TrimSpace(body) == "" {
		body = "pass"
	}
	for line := range strings.SplitSeq(body, "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func filename(lambda Lambda) string {
	if lambda.Name == "" {
		return "lambda"
	}
	return lambda.Name
}

func bodyError(lambda Lambda, err error) error {
	return fmt.Errorf("lambda %s: %w", filename(lambda), err)
}
