package scenarios

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/procs"
)

// ErrExpectation reports a step whose outcome differs from what the document expects.
var ErrExpectation = errors.New("expectation not met")

func expectation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExpectation, fmt.Sprintf(format, args...))
}

// Proc returns the action of the step.
func (s Step) Proc() (procs.Proc[*Session], error) {
	var actions []procs.Proc[*Session]
	if s.Global != nil {
		actions = append(actions, globalStep(*s.Global))
	}
	if s.Let != nil {
		actions = append(actions, letStep(*s.Let))
	}
	if s.Set != nil {
		actions = append(actions, setStep(*s.Set))
	}
	if s.Enter {
		actions = append(actions, procs.Func[*Session](func(s *Session) error {
			s.Enter()
			return nil
		}))
	}
	if s.Method != nil {
		actions = append(actions, methodStep(*s.Method))
	}
	if s.Leave {
		actions = append(actions, procs.Func[*Session]((*Session).Leave))
	}
	if s.Define != nil {
		actions = append(actions, defineStep(*s.Define))
	}
	if s.Instance != nil {
		actions = append(actions, instanceStep(*s.Instance))
	}
	if s.Copy != nil {
		actions = append(actions, copyStep(*s.Copy))
	}
	if s.Call != nil {
		actions = append(actions, callStep(*s.Call))
	}
	if s.Check != nil {
		actions = append(actions, checkStep(*s.Check))
	}
	if s.Member != nil {
		actions = append(actions, memberStep(*s.Member))
	}
	if s.Field != nil {
		actions = append(actions, fieldStep(*s.Field))
	}
	if len(actions) != 1 {
		return nil, fmt.Errorf("a step holds exactly one action, got %d", len(actions))
	}
	return actions[0], nil
}

type globalStep Binding

func (g globalStep) Run(s *Session) (procs.Proc[*Session], error) {
	s.Global(g.Name, normalize(g.Value))
	return nil, nil
}

type letStep Binding

func (l letStep) Run(s *Session) (procs.Proc[*Session], error) {
	s.Let(l.Name, normalize(l.Value))
	return nil, nil
}

type setStep Binding

func (a setStep) Run(s *Session) (procs.Proc[*Session], error) {
	return nil, s.Set(a.Name, normalize(a.Value))
}

type methodStep MethodStep

func (m methodStep) Run(s *Session) (procs.Proc[*Session], error) {
	s.EnterMethod(m.Type, m.Members)
	return nil, nil
}

// checkKind compares a rejection with the error kind a step expects.
func checkKind(what string, err error, want string) error {
	if want == "" {
		return err
	}
	if _, ok := capture.KindByName(want); !ok {
		return fmt.Errorf("unknown error kind %s", want)
	}
	if err == nil {
		return expectation("%s: want %s, got success", what, want)
	}
	if got := capture.KindName(err); got != want {
		return expectation("%s: want %s, got %v", what, want, err)
	}
	return nil
}

type defineStep LambdaSpec

func (d defineStep) Run(s *Session) (procs.Proc[*Session], error) {
	_, err := s.Define(LambdaSpec(d))
	if err != nil && d.ExpectError != "" {
		s.note("define %s rejected: %v", d.Name, err)
	}
	return nil, checkKind("define "+d.Name, err, d.ExpectError)
}

type instanceStep InstanceStep

func (i instanceStep) Run(s *Session) (procs.Proc[*Session], error) {
	_, err := s.Instance(i.Definition, i.As)
	return nil, err
}

type copyStep CopyStep

func (c copyStep) Run(s *Session) (procs.Proc[*Session], error) {
	_, err := s.Copy(c.From, c.As)
	return nil, err
}

type callStep CallStep

func (c callStep) Run(s *Session) (procs.Proc[*Session], error) {
	args := make([]any, len(c.Args))
	for i, arg := range c.Args {
		args[i] = normalize(arg)
	}
	ret, output, err := s.Call(c.Closure, args...)
	if err != nil || c.ExpectError != "" {
		return nil, checkKind("call "+c.Closure, err, c.ExpectError)
	}
	if c.Expect != nil {
		if want := normalize(*c.Expect); !reflect.DeepEqual(ret, want) {
			return nil, expectation("call %s: got %s, want %s", c.Closure, show(ret), show(want))
		}
	}
	if c.Output != nil && !slices.Equal(output, c.Output) {
		return nil, expectation("call %s printed %q, want %q", c.Closure, output, c.Output)
	}
	if c.As != "" {
		if callable, ok := ret.(capture.Callable); ok {
			s.bind(c.As, callable)
		} else {
			s.Let(c.As, ret)
		}
	}
	return nil, nil
}

type checkStep Binding

func (c checkStep) Run(s *Session) (procs.Proc[*Session], error) {
	got, err := s.Get(c.Name)
	if err != nil {
		return nil, err
	}
	if want := normalize(c.Value); !reflect.DeepEqual(got, want) {
		return nil, expectation("%s: got %s, want %s", c.Name, show(got), show(want))
	}
	return nil, nil
}

type memberStep MemberCheck

func (m memberStep) Run(s *Session) (procs.Proc[*Session], error) {
	object, err := s.Object(m.Object)
	if err != nil {
		return nil, err
	}
	got, ok := object.Get(m.Name)
	if !ok {
		return nil, fmt.Errorf("%s has no member %s", m.Object, m.Name)
	}
	if want := normalize(m.Value); !reflect.DeepEqual(got, want) {
		return nil, expectation("%s.%s: got %s, want %s", m.Object, m.Name, show(got), show(want))
	}
	return nil, nil
}

type fieldStep FieldCheck

func (f fieldStep) Run(s *Session) (procs.Proc[*Session], error) {
	closure, err := s.Closure(f.Closure)
	if err != nil {
		return nil, err
	}
	got, err := closure.Peek(f.Name)
	if err != nil {
		return nil, err
	}
	if want := normalize(f.Value); !reflect.DeepEqual(got, want) {
		return nil, expectation("%s.%s: got %s, want %s", f.Closure, f.Name, show(got), show(want))
	}
	return nil, nil
}
