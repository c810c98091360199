package debugs

import (
	"testing"

	"github.com/reusee/captai/capture"
	"github.com/reusee/captai/modes"
	"github.com/reusee/dscope"
)

func TestTap(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Call(func(
		tap Tap,
	) {
		tap(t.Context(), "test", map[string]any{
			"foo": 42,
		})
	})
}

func TestClosureGlobals(t *testing.T) {
	env := capture.NewEnv().NewChild()
	env.Def("a", 1)
	self := capture.NewObject("Widget")
	plan := &capture.Plan{Default: capture.ByValue, CaptureSelf: true}
	method := capture.NewMethodEnv(env, self)
	c, err := new(capture.Engine).Synthesize(plan, method, capture.Signature{}, func(*capture.Frame) (any, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	env.Set("a", 2)

	globals := ClosureGlobals(c, method)
	if globals["a"] != 2 {
		t.Fatalf("got %v", globals["a"])
	}
	fields := globals["cap"].(map[string]any)
	if fields["a"] != 1 {
		t.Fatalf("got %v", fields)
	}
	if globals["this"] != self {
		t.Fatalf("got %v", globals["this"])
	}
}
