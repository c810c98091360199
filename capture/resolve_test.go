package capture

import (
	"errors"
	"testing"
)

func testEnv() *Env {
	root := NewEnv()
	root.DefGlobal("Nobu", 99)
	env := root.NewChild()
	env.Def("a", 100)
	env.Def("b", 200)
	return env
}

func TestResolveOrder(t *testing.T) {
	env := testEnv()
	env.Def("c", 2)
	env.Def("d", 3)
	plan, err := new(Engine).Resolve(CaptureSpec{
		Default: ByReference,
		Overrides: []Override{
			{Name: "d", Mode: ByValue},
			{Name: "a", Mode: ByValue},
		},
		Mutable: true,
	}, env)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Entries) != 2 {
		t.Fatalf("got %v", plan.Entries)
	}
	if plan.Entries[0].Name != "d" || plan.Entries[1].Name != "a" {
		t.Fatalf("got %v", plan.Entries)
	}
	if !plan.Mutable || plan.Default != ByReference {
		t.Fatalf("got %+v", plan)
	}
	if plan.ModeOf("a") != ByValue || plan.ModeOf("b") != ByReference {
		t.Fatalf("got %v %v", plan.ModeOf("a"), plan.ModeOf("b"))
	}
}

func TestResolveErrors(t *testing.T) {
	cases := []struct {
		name    string
		spec    CaptureSpec
		kind    error
		binding string
	}{
		{
			name: "redundant by value",
			spec: CaptureSpec{
				Default:   ByValue,
				Overrides: []Override{{Name: "a", Mode: ByValue}},
			},
			kind:    ErrRedundantCaptureSpec,
			binding: "a",
		},
		{
			name: "redundant by reference",
			spec: CaptureSpec{
				Default:   ByReference,
				Overrides: []Override{{Name: "b", Mode: ByReference}},
			},
			kind:    ErrRedundantCaptureSpec,
			binding: "b",
		},
		{
			name: "duplicate",
			spec: CaptureSpec{
				Overrides: []Override{{Name: "a", Mode: ByValue}, {Name: "a", Mode: ByValue}},
			},
			kind:    ErrDuplicateCapture,
			binding: "a",
		},
		{
			name: "duplicate with different modes",
			spec: CaptureSpec{
				Overrides: []Override{{Name: "a", Mode: ByValue}, {Name: "a", Mode: ByReference}},
			},
			kind:    ErrDuplicateCapture,
			binding: "a",
		},
		{
			name: "global",
			spec: CaptureSpec{
				Overrides: []Override{{Name: "Nobu", Mode: ByReference}},
			},
			kind:    ErrUnknownOrIneligibleBinding,
			binding: "Nobu",
		},
		{
			name: "unknown",
			spec: CaptureSpec{
				Overrides: []Override{{Name: "zzz", Mode: ByValue}},
			},
			kind:    ErrUnknownOrIneligibleBinding,
			binding: "zzz",
		},
		{
			name: "this outside member function",
			spec: CaptureSpec{
				Default:     ByValue,
				CaptureSelf: true,
			},
			kind:    ErrNoEnclosingObject,
			binding: "this",
		},
		{
			name: "none override",
			spec: CaptureSpec{
				Overrides: []Override{{Name: "a", Mode: None}},
			},
			kind:    ErrBadCaptureClause,
			binding: "a",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := testEnv()
			_, err := new(Engine).Resolve(c.spec, env)
			if !errors.Is(err, c.kind) {
				t.Fatalf("got %v", err)
			}
			var captureErr *Error
			if !errors.As(err, &captureErr) {
				t.Fatalf("got %T", err)
			}
			if captureErr.Name != c.binding {
				t.Fatalf("got %v", captureErr.Name)
			}
		})
	}
}

func TestResolveMember(t *testing.T) {
	self := NewObject("TEMP")
	self.Def("i", 0)
	env := NewMethodEnv(NewEnv(), self).NewChild()

	plan, err := new(Engine).Resolve(CaptureSpec{
		Overrides:   []Override{{Name: "i", Mode: ByReference}},
		CaptureSelf: true,
	}, env)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Entries[0].Storage != Member {
		t.Fatalf("got %v", plan.Entries[0].Storage)
	}
	if !plan.CaptureSelf {
		t.Fatal()
	}
}

func TestCheckUses(t *testing.T) {
	env := testEnv()
	engine := new(Engine)

	// [a] () { a, b, Nobu }
	plan, err := engine.Resolve(CaptureSpec{
		Overrides: []Override{{Name: "a", Mode: ByValue}},
	}, env)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.CheckUses(plan, env, []string{"a", "Nobu"}); err != nil {
		t.Fatal(err)
	}
	err = engine.CheckUses(plan, env, []string{"a", "b", "Nobu"})
	if !errors.Is(err, ErrUncapturedBindingUsed) {
		t.Fatalf("got %v", err)
	}
	if KindName(err) != "UncapturedBindingUsed" {
		t.Fatalf("got %v", KindName(err))
	}

	// [=] () { b, b }
	plan, err = engine.Resolve(CaptureSpec{
		Default: ByValue,
	}, env)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.CheckUses(plan, env, []string{"b", "b"}); err != nil {
		t.Fatal(err)
	}
	if len(plan.Uses) != 1 || plan.Uses[0] != "b" {
		t.Fatalf("got %v", plan.Uses)
	}
}

func TestParseClause(t *testing.T) {
	cases := []struct {
		clause string
		want   string
		kind   error
	}{
		{clause: "[]", want: "[]"},
		{clause: "[=]", want: "[=]"},
		{clause: " [ & ] ", want: "[&]"},
		{clause: "[a, &b]", want: "[a, &b]"},
		{clause: "[=, &a, &b]", want: "[=, &a, &b]"},
		{clause: "[&, a, b]", want: "[&, a, b]"},
		{clause: "[=, this]", want: "[=, this]"},
		{clause: "[this, x1]", want: "[x1, this]"},
		{clause: "[a, =]", kind: ErrBadCaptureClause},
		{clause: "[*this]", kind: ErrBadCaptureClause},
		{clause: "[this, this]", kind: ErrDuplicateCapture},
		{clause: "[1a]", kind: ErrBadCaptureClause},
		{clause: "[&]x", kind: ErrBadCaptureClause},
		{clause: "[a,]", kind: ErrBadCaptureClause},
		{clause: "a", kind: ErrBadCaptureClause},
	}
	for _, c := range cases {
		spec, err := ParseClause(c.clause)
		if c.kind != nil {
			if !errors.Is(err, c.kind) {
				t.Fatalf("%s: got %v", c.clause, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", c.clause, err)
		}
		if got := spec.String(); got != c.want {
			t.Fatalf("%s: got %s", c.clause, got)
		}
	}

	// duplicates parse; the resolver rejects them
	spec, err := ParseClause("[a, a]")
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Overrides) != 2 {
		t.Fatalf("got %v", spec.Overrides)
	}
}
