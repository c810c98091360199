package procs

import (
	"errors"
	"slices"
	"testing"
)

type twice struct {
	name string
	done bool
}

func (t twice) Run(trace *[]string) (Proc[*[]string], error) {
	*trace = append(*trace, t.name)
	if t.done {
		return nil, nil
	}
	return twice{name: t.name + "'", done: true}, nil
}

func TestProcs(t *testing.T) {
	var trace []string
	proc := Procs[*[]string]{
		twice{name: "a"},
		Func[*[]string](func(trace *[]string) error {
			*trace = append(*trace, "b")
			return nil
		}),
	}
	runs, err := Drain(&trace, Proc[*[]string](proc))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(trace, []string{"a", "a'", "b"}) {
		t.Fatalf("got %v", trace)
	}
	if runs != 3 {
		t.Fatalf("got %d", runs)
	}
}

func TestProcsError(t *testing.T) {
	errStop := errors.New("stop")
	var trace []string
	proc := Procs[*[]string]{
		Func[*[]string](func(*[]string) error {
			return errStop
		}),
		twice{name: "unreached"},
	}
	runs, err := Drain(&trace, Proc[*[]string](proc))
	if !errors.Is(err, errStop) {
		t.Fatalf("got %v", err)
	}
	if runs != 0 || len(trace) != 0 {
		t.Fatalf("got %d %v", runs, trace)
	}
}
