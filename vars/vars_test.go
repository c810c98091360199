package vars

import "testing"

func TestParseBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true": true, "Y": true, " on ": true, "1": true,
		"false": false, "NO": false, "off": false, "": false,
	} {
		got, err := ParseBool(str)
		if err != nil {
			t.Fatalf("%q: %v", str, err)
		}
		if got != expected {
			t.Fatalf("%q: got %v", str, got)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFirstNonZero(t *testing.T) {
	if got := FirstNonZero("", "reject", "allow"); got != "reject" {
		t.Fatalf("got %q", got)
	}
	if got := FirstNonZero(0, 0); got != 0 {
		t.Fatalf("got %d", got)
	}
}
