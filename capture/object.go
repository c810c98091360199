package capture

import (
	"fmt"
	"strings"
)

// Object is an instance whose member function defines a lambda.
type Object struct {
	TypeName string
	names    []string
	cells    map[string]*Cell
}

func NewObject(typeName string) *Object {
	return &Object{
		TypeName: typeName,
		cells:    make(map[string]*Cell),
	}
}

// Def declares a member, or resets its value if it exists.
func (o *Object) Def(name string, value any) {
	if cell, ok := o.cells[name]; ok {
		cell.Store(value)
		return
	}
	o.names = append(o.names, name)
	o.cells[name] = NewCell(value)
}

func (o *Object) Get(name string) (any, bool) {
	cell, ok := o.cells[name]
	if !ok {
		return nil, false
	}
	return cell.Load(), true
}

func (o *Object) Set(name string, value any) bool {
	cell, ok := o.cells[name]
	if !ok {
		return false
	}
	cell.Store(value)
	return true
}

func (o *Object) Members() []string {
	return append([]string(nil), o.names...)
}

func (o *Object) cell(name string) *Cell {
	return o.cells[name]
}

// Clone copies the object and its member values.
func (o *Object) Clone() *Object {
	ret := NewObject(o.TypeName)
	for _, name := range o.names {
		ret.Def(name, snapshot(o.cells[name].Load()))
	}
	return ret
}

func (o *Object) String() string {
	var b strings.Builder
	b.WriteString(o.TypeName)
	b.WriteString("{")
	for i, name := range o.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", name, o.cells[name].Load())
	}
	b.WriteString("}")
	return b.String()
}
