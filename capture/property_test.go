package capture

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func drawEnv(rt *rapid.T) (*Env, []string) {
	env := NewEnv()
	env.DefGlobal("g", rapid.Int().Draw(rt, "g"))
	env = env.NewChild()
	n := rapid.IntRange(1, 6).Draw(rt, "n")
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a' + i))
		env.Def(names[i], rapid.Int().Draw(rt, names[i]))
	}
	return env, names
}

func readAll(names []string) Body {
	return func(frame *Frame) (any, error) {
		ret := make([]any, len(names))
		for i, name := range names {
			v, err := frame.Get(name)
			if err != nil {
				return nil, err
			}
			ret[i] = v
		}
		return ret, nil
	}
}

func synth(rt *rapid.T, env *Env, spec CaptureSpec, body Body) *Closure {
	engine := new(Engine)
	plan, err := engine.Resolve(spec, env)
	if err != nil {
		rt.Fatalf("resolve: %v", err)
	}
	c, err := engine.Synthesize(plan, env, Signature{Result: Any}, body)
	if err != nil {
		rt.Fatalf("synthesize: %v", err)
	}
	return c
}

func TestPropertyByValueFrozen(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		env, names := drawEnv(rt)
		before := make([]any, len(names))
		for i, name := range names {
			before[i], _ = env.Get(name)
		}
		c := synth(rt, env, CaptureSpec{Default: ByValue}, readAll(names))
		for _, name := range names {
			env.Set(name, rapid.Int().Draw(rt, "new "+name))
		}
		got, err := c.Call()
		if err != nil {
			rt.Fatal(err)
		}
		for i := range names {
			if got.([]any)[i] != before[i] {
				rt.Fatalf("%s: got %v, want %v", names[i], got.([]any)[i], before[i])
			}
		}
	})
}

func TestPropertyByReferenceObserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		env, names := drawEnv(rt)
		c := synth(rt, env, CaptureSpec{Default: ByReference}, readAll(names))
		after := make([]any, len(names))
		for i, name := range names {
			after[i] = rapid.Int().Draw(rt, "new "+name)
			env.Set(name, after[i])
		}
		got, err := c.Call()
		if err != nil {
			rt.Fatal(err)
		}
		for i := range names {
			if got.([]any)[i] != after[i] {
				rt.Fatalf("%s: got %v, want %v", names[i], got.([]any)[i], after[i])
			}
		}
	})
}

func TestPropertyMutableInstances(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		env, names := drawEnv(rt)
		target := rapid.SampledFrom(names).Draw(rt, "target")
		original, _ := env.Get(target)

		// each call adds its argument to the field and returns the new value
		add := func(frame *Frame) (any, error) {
			v, err := frame.Get(target)
			if err != nil {
				return nil, err
			}
			n := v.(int) + frame.Arg(0).(int)
			return n, frame.Set(target, n)
		}
		engine := new(Engine)
		plan, err := engine.Resolve(CaptureSpec{Default: ByValue, Mutable: true}, env)
		if err != nil {
			rt.Fatal(err)
		}
		sig := Signature{Params: []Param{{Name: "d", Type: Int}}, Result: Int}
		first, err := engine.Synthesize(plan, env, sig, add)
		if err != nil {
			rt.Fatal(err)
		}
		second, err := engine.Synthesize(plan, env, sig, add)
		if err != nil {
			rt.Fatal(err)
		}

		sum := original.(int)
		for _, d := range rapid.SliceOfN(rapid.IntRange(-100, 100), 1, 8).Draw(rt, "deltas") {
			sum += d
			got, err := first.Call(d)
			if err != nil {
				rt.Fatal(err)
			}
			if got != sum {
				rt.Fatalf("got %v, want %v", got, sum)
			}
		}
		if v, _ := second.Peek(target); v != original {
			rt.Fatalf("second instance observed writes: %v", v)
		}
		if v, _ := env.Get(target); v != original {
			rt.Fatalf("binding observed writes: %v", v)
		}
	})
}

func TestPropertyHandleOverridesValue(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		self := NewObject("T")
		self.Def("i", rapid.Int().Draw(rt, "i"))
		env := NewMethodEnv(NewEnv(), self).NewChild()
		value := rapid.Int().Draw(rt, "value")
		c := synth(rt, env, CaptureSpec{Default: ByValue, CaptureSelf: true}, func(frame *Frame) (any, error) {
			frame.Self().Set("i", value)
			return nil, nil
		})
		if _, err := c.Call(); err != nil {
			rt.Fatal(err)
		}
		if v, _ := self.Get("i"); v != value {
			rt.Fatalf("got %v, want %v", v, value)
		}
	})
}

func TestPropertyResolverRejections(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		env, names := drawEnv(rt)
		name := rapid.SampledFrom(names).Draw(rt, "name")
		mode := rapid.SampledFrom([]Mode{ByValue, ByReference}).Draw(rt, "mode")
		engine := new(Engine)

		_, err := engine.Resolve(CaptureSpec{
			Default:   mode,
			Overrides: []Override{{Name: name, Mode: mode}},
		}, env)
		if !errors.Is(err, ErrRedundantCaptureSpec) {
			rt.Fatalf("got %v", err)
		}

		_, err = engine.Resolve(CaptureSpec{
			Overrides: []Override{{Name: "g", Mode: mode}},
		}, env)
		if !errors.Is(err, ErrUnknownOrIneligibleBinding) {
			rt.Fatalf("got %v", err)
		}

		_, err = engine.Resolve(CaptureSpec{
			Overrides: []Override{{Name: name, Mode: ByValue}, {Name: name, Mode: mode}},
		}, env)
		if !errors.Is(err, ErrDuplicateCapture) {
			rt.Fatalf("got %v", err)
		}
	})
}
