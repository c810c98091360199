package capture

// EnvVar is a binding visible in an Env.
type EnvVar struct {
	Name    string
	Storage Storage
	Cell    *Cell
}

// Env is one lexical scope. Lookups walk Parent; inner declarations shadow outer ones.
type Env struct {
	Parent *Env
	Vars   []EnvVar
	// Self is the enclosing object of a member function scope.
	Self   *Object
	closed bool
}

// NewEnv returns a root scope, the home of process-global bindings.
func NewEnv() *Env {
	return &Env{}
}

func (e *Env) NewChild() *Env {
	return &Env{
		Parent: e,
	}
}

// NewMethodEnv returns the scope of a member function of self: its members are visible as
// Member bindings, and self is the enclosing object of every lambda defined below it.
func NewMethodEnv(parent *Env, self *Object) *Env {
	env := &Env{
		Parent: parent,
		Self:   self,
	}
	for _, name := range self.names {
		env.Vars = append(env.Vars, EnvVar{
			Name:    name,
			Storage: Member,
			Cell:    self.cell(name),
		})
	}
	return env
}

func (e *Env) def(name string, storage Storage, cell *Cell) *Cell {
	e.Vars = append(e.Vars, EnvVar{
		Name:    name,
		Storage: storage,
		Cell:    cell,
	})
	return cell
}

// Def declares a local binding.
func (e *Env) Def(name string, value any) *Cell {
	return e.def(name, Local, NewCell(value))
}

// DefGlobal declares a process-global binding in the root scope.
func (e *Env) DefGlobal(name string, value any) *Cell {
	return e.Root().def(name, Global, NewCell(value))
}

// DefMember declares a member of the enclosing object and makes it visible here.
func (e *Env) DefMember(name string, value any) (*Cell, bool) {
	self := e.Enclosing()
	if self == nil {
		return nil, false
	}
	self.Def(name, value)
	cell := self.cell(name)
	for env := e; env != nil; env = env.Parent {
		if env.Self == self {
			for _, v := range env.Vars {
				if v.Cell == cell {
					return cell, true
				}
			}
			env.def(name, Member, cell)
			return cell, true
		}
	}
	return cell, true
}

func (e *Env) Lookup(name string) (EnvVar, bool) {
	for env := e; env != nil; env = env.Parent {
		// later declarations in the same scope win
		for i := len(env.Vars) - 1; i >= 0; i-- {
			if env.Vars[i].Name == name {
				return env.Vars[i], true
			}
		}
	}
	return EnvVar{}, false
}

func (e *Env) Get(name string) (any, bool) {
	v, ok := e.Lookup(name)
	if !ok {
		return nil, false
	}
	return v.Cell.Load(), true
}

func (e *Env) Set(name string, value any) bool {
	v, ok := e.Lookup(name)
	if !ok {
		return false
	}
	v.Cell.Store(value)
	return true
}

// Visible returns every binding reachable from e, outermost scope first, without shadowed ones.
func (e *Env) Visible() []EnvVar {
	var chain []*Env
	for env := e; env != nil; env = env.Parent {
		chain = append(chain, env)
	}
	var ret []EnvVar
	seen := make(map[string]bool)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, v := range chain[i].Vars {
			if seen[v.Name] {
				continue
			}
			if winner, _ := e.Lookup(v.Name); winner.Cell != v.Cell {
				continue
			}
			seen[v.Name] = true
			ret = append(ret, v)
		}
	}
	return ret
}

// Enclosing returns the nearest enclosing object, or nil outside member functions.
func (e *Env) Enclosing() *Object {
	for env := e; env != nil; env = env.Parent {
		if env.Self != nil {
			return env.Self
		}
	}
	return nil
}

func (e *Env) Root() *Env {
	env := e
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Close ends the scope: the local bindings it declared expire.
// Closures aliasing them still hold the cells; what a read does then is the Engine's DanglingPolicy.
func (e *Env) Close() {
	if e.closed {
		return
	}
	e.closed = true
	for _, v := range e.Vars {
		if v.Storage == Local {
			v.Cell.expire()
		}
	}
}

func (e *Env) Closed() bool {
	return e.closed
}
