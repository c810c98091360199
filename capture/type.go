package capture

import (
	"fmt"
	"reflect"
	"strings"
)

// Type is the type of a parameter or a result in an invocation signature.
type Type uint8

const (
	Any Type = iota
	Void
	Bool
	Int
	Float
	String
	List
	Map
	Func
	ObjectType
	// Infer marks a result type that body analysis has yet to derive.
	// Synthesize rejects it.
	Infer
)

var typeNames = [...]string{
	Any:        "any",
	Void:       "void",
	Bool:       "bool",
	Int:        "int",
	Float:      "float",
	String:     "string",
	List:       "list",
	Map:        "map",
	Func:       "func",
	ObjectType: "object",
	Infer:      "auto",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return Infer, nil
	case "float64", "double":
		return Float, nil
	case "str":
		return String, nil
	}
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return Any, fmt.Errorf("unknown type: %q", s)
}

// Callable is a value a Func parameter accepts besides Go functions.
type Callable interface {
	Call(args ...any) (any, error)
}

func (t Type) Match(v any) bool {
	switch t {
	case Any:
		return true
	case Void:
		return v == nil
	case Bool:
		_, ok := v.(bool)
		return ok
	case Int:
		switch v.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	case Float:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	case String:
		_, ok := v.(string)
		return ok
	case List:
		_, ok := v.([]any)
		return ok
	case Map:
		_, ok := v.(map[string]any)
		return ok
	case Func:
		if _, ok := v.(Callable); ok {
			return true
		}
		return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
	case ObjectType:
		_, ok := v.(*Object)
		return ok
	}
	return false
}

// TypeOf returns the narrowest Type matching v.
func TypeOf(v any) Type {
	if v == nil {
		return Void
	}
	for _, t := range []Type{Bool, Int, Float, String, List, Map, ObjectType, Func} {
		if t.Match(v) {
			return t
		}
	}
	return Any
}

type Param struct {
	Name string
	Type Type
}

type Signature struct {
	Params []Param
	Result Type
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Name != "" {
			b.WriteString(p.Name)
			b.WriteString(" ")
		}
		b.WriteString(p.Type.String())
	}
	b.WriteString(") -> ")
	b.WriteString(s.Result.String())
	return b.String()
}
