package configs

import (
	"testing"
)

type testPolicy string

func (testPolicy) ConfigExpr() string {
	return "dangling_alias"
}

func TestFirst(t *testing.T) {
	loader := NewSourceLoader(testSources(), testSchema)

	str := First[string](loader, "dangling_alias")
	if str != "reject" {
		t.Fatalf("got %v", str)
	}

	if n := First[int](loader, "missing"); n != 0 {
		t.Fatalf("got %v", n)
	}
}

func TestGet(t *testing.T) {
	loader := NewSourceLoader(testSources(), testSchema)
	if p := Get[testPolicy](loader); p != "reject" {
		t.Fatalf("got %v", p)
	}

	empty := NewSourceLoader(nil, testSchema)
	if p := Get[testPolicy](empty); p != "" {
		t.Fatalf("got %v", p)
	}
}
