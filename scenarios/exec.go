package scenarios

import (
	"fmt"
	"strings"

	"github.com/reusee/captai/capture"
)

// ExecHelp lists the commands Exec accepts.
const ExecHelp = `global NAME = VALUE        declare a process-global binding
let NAME = VALUE           declare a local binding in the current scope
set NAME = VALUE           assign a visible binding
enter                      open a block scope
method TYPE {MEMBERS}      create an object and open one of its member function scopes
leave                      close the current scope
def NAME [CLAUSE] [mutable] [(PARAMS)] [-> TYPE]: BODY
call NAME(ARGS) [-> NAME]  invoke a closure, optionally binding the result
copy NAME = CLOSURE        copy a closure object
instance NAME = LAMBDA     evaluate a lambda definition again
show NAME                  print a binding or a closure
bindings                   list the visible bindings
VALUE, ARGS and MEMBERS are CUE; BODY is Starlark, statements separated by ';'`

// Exec runs one command line against the session and returns what it shows.
func (s *Session) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch command {

	case "global", "let", "set":
		name, src, ok := strings.Cut(rest, "=")
		if !ok {
			return "", fmt.Errorf("want %s NAME = VALUE", command)
		}
		name = strings.TrimSpace(name)
		value, err := s.parseValue(src)
		if err != nil {
			return "", err
		}
		switch command {
		case "global":
			s.Global(name, value)
		case "let":
			s.Let(name, value)
		case "set":
			if err := s.Set(name, value); err != nil {
				return "", err
			}
		}
		return "", nil

	case "enter":
		s.Enter()
		return "", nil

	case "leave":
		return "", s.Leave()

	case "method":
		typeName, src, _ := strings.Cut(rest, " ")
		if typeName == "" {
			return "", fmt.Errorf("want method TYPE {MEMBERS}")
		}
		members, err := s.parseMembers(src)
		if err != nil {
			return "", err
		}
		object := s.EnterMethod(typeName, members)
		return object.String(), nil

	case "def":
		spec, err := parseDef(rest)
		if err != nil {
			return "", err
		}
		closure, err := s.Define(spec)
		if err != nil {
			return "", err
		}
		return closure.String(), nil

	case "call":
		call, as, _ := strings.Cut(rest, "->")
		name, argsSrc, ok := strings.Cut(strings.TrimSpace(call), "(")
		if !ok || !strings.HasSuffix(argsSrc, ")") {
			return "", fmt.Errorf("want call NAME(ARGS)")
		}
		args, err := s.parseArgs(strings.TrimSuffix(argsSrc, ")"))
		if err != nil {
			return "", err
		}
		ret, output, err := s.Call(strings.TrimSpace(name), args...)
		if err != nil {
			return "", err
		}
		if as = strings.TrimSpace(as); as != "" {
			if callable, ok := ret.(capture.Callable); ok {
				s.bind(as, callable)
			} else {
				s.Let(as, ret)
			}
		}
		var b strings.Builder
		for _, line := range output {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(show(ret))
		return b.String(), nil

	case "copy", "instance":
		as, from, ok := strings.Cut(rest, "=")
		if !ok {
			return "", fmt.Errorf("want %s NAME = SOURCE", command)
		}
		as, from = strings.TrimSpace(as), strings.TrimSpace(from)
		var closure *capture.Closure
		var err error
		if command == "copy" {
			closure, err = s.Copy(from, as)
		} else {
			closure, err = s.Instance(from, as)
		}
		if err != nil {
			return "", err
		}
		return closure.String(), nil

	case "show":
		if closure, err := s.Closure(rest); err == nil {
			return describe(closure), nil
		}
		v, err := s.Get(rest)
		if err != nil {
			return "", err
		}
		return show(v), nil

	case "bindings":
		var b strings.Builder
		for i, v := range s.Bindings() {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s %s = %s", v.Storage, v.Name, show(v.Cell.Load()))
			if v.Cell.Expired() {
				b.WriteString(" (ended)")
			}
		}
		return b.String(), nil

	case "help":
		return ExecHelp, nil

	}

	return "", fmt.Errorf("unknown command: %s", command)
}

func describe(c *capture.Closure) string {
	var b strings.Builder
	b.WriteString(c.String())
	for _, field := range c.Fields {
		value, err := c.Peek(field.Name)
		var shown string
		if err != nil {
			shown = err.Error()
		} else {
			shown = show(value)
		}
		qualifier := field.Mode.String()
		if field.Const {
			qualifier += ", const"
		}
		fmt.Fprintf(&b, "\n  %s (%s) = %s", field.Name, qualifier, shown)
	}
	if c.Self != nil {
		fmt.Fprintf(&b, "\n  this -> %s", c.Self)
	}
	return b.String()
}

func (s *Session) parseValue(src string) (any, error) {
	value := s.cue.CompileString(src)
	if err := value.Err(); err != nil {
		return nil, err
	}
	var ret any
	if err := value.Decode(&ret); err != nil {
		return nil, err
	}
	return normalize(ret), nil
}

func (s *Session) parseArgs(src string) ([]any, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	value, err := s.parseValue("[" + src + "]")
	if err != nil {
		return nil, err
	}
	return value.([]any), nil
}

// parseMembers keeps the declaration order of the struct fields.
func (s *Session) parseMembers(src string) ([]Binding, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	value := s.cue.CompileString(src)
	if err := value.Err(); err != nil {
		return nil, err
	}
	iter, err := value.Fields()
	if err != nil {
		return nil, err
	}
	var ret []Binding
	for iter.Next() {
		var v any
		if err := iter.Value().Decode(&v); err != nil {
			return nil, err
		}
		ret = append(ret, Binding{
			Name:  iter.Selector().Unquoted(),
			Value: normalize(v),
		})
	}
	return ret, nil
}

// parseDef parses NAME [CLAUSE] [mutable] [(PARAMS)] [-> TYPE]: BODY.
func parseDef(src string) (spec LambdaSpec, err error) {
	name, rest, _ := strings.Cut(src, " ")
	spec.Name = strings.TrimSpace(name)
	rest = strings.TrimSpace(rest)

	if !strings.HasPrefix(rest, "[") {
		return spec, fmt.Errorf("want a capture clause after %s", spec.Name)
	}
	end := strings.Index(rest, "]")
	if end < 0 {
		return spec, fmt.Errorf("unterminated capture clause")
	}
	spec.Clause = rest[:end+1]
	rest = strings.TrimSpace(rest[end+1:])

	if after, ok := strings.CutPrefix(rest, "mutable"); ok {
		spec.Mutable = true
		rest = strings.TrimSpace(after)
	}

	if strings.HasPrefix(rest, "(") {
		end := strings.Index(rest, ")")
		if end < 0 {
			return spec, fmt.Errorf("unterminated parameter list")
		}
		for param := range strings.SplitSeq(rest[1:end], ",") {
			param = strings.TrimSpace(param)
			if param == "" {
				continue
			}
			name, typ, _ := strings.Cut(param, " ")
			typ = strings.TrimSpace(typ)
			if typ == "" {
				typ = "any"
			}
			spec.Params = append(spec.Params, ParamSpec{
				Name: name,
				Type: typ,
			})
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	if after, ok := strings.CutPrefix(rest, "->"); ok {
		typ, body, ok := strings.Cut(after, ":")
		if !ok {
			return spec, fmt.Errorf("want ': BODY' after the result type")
		}
		spec.Result = strings.TrimSpace(typ)
		rest = ":" + body
	}

	body, ok := strings.CutPrefix(rest, ":")
	if !ok {
		return spec, fmt.Errorf("want ': BODY'")
	}
	spec.Body = strings.TrimSpace(body)
	return spec, nil
}
