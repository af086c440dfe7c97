// v0
// internal/coerce/coerce_test.go
package coerce

import "testing"

func TestCoerceKinds(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
	}{
		{"", Absent},
		{"3", Integer},
		{"-12", Integer},
		{"3.5", Real},
		{"-0.25", Real},
		{"true", Boolean},
		{"FALSE", Boolean},
		{"north", Text},
		{"3abc", Text},
		{"1.2.3", Text},
	}
	for _, tc := range cases {
		got := Coerce(tc.raw)
		if got.Kind() != tc.kind {
			t.Errorf("Coerce(%q) kind = %v, want %v", tc.raw, got.Kind(), tc.kind)
		}
	}
}

func TestCoercePayloads(t *testing.T) {
	if v := Coerce("3"); v.Int() != 3 {
		t.Fatalf("expected integer payload 3, got %d", v.Int())
	}
	if v := Coerce("3.5"); v.Float() != 3.5 {
		t.Fatalf("expected real payload 3.5, got %v", v.Float())
	}
	if v := Coerce("true"); !v.Bool() {
		t.Fatalf("expected boolean payload true")
	}
	if v := Coerce("north"); v.Text() != "north" {
		t.Fatalf("expected original text preserved, got %q", v.Text())
	}
}

func TestCoerceDecimalPointForcesRealParse(t *testing.T) {
	// "3.0" carries a decimal point so it must stay Real, never Integer.
	v := Coerce("3.0")
	if v.Kind() != Real {
		t.Fatalf("Coerce(\"3.0\") kind = %v, want Real", v.Kind())
	}
	if v.Float() != 3.0 {
		t.Fatalf("Coerce(\"3.0\") payload = %v, want 3.0", v.Float())
	}
}

func TestFloatOrDefaults(t *testing.T) {
	if got := Coerce("").FloatOr(1); got != 1 {
		t.Fatalf("absent FloatOr(1) = %v, want 1", got)
	}
	if got := Coerce("oops").FloatOr(1); got != 1 {
		t.Fatalf("text FloatOr(1) = %v, want 1", got)
	}
	if got := Coerce("4").FloatOr(1); got != 4 {
		t.Fatalf("integer FloatOr(1) = %v, want 4", got)
	}
}

func TestMarshalJSONNativeTypes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "null"},
		{"7", "7"},
		{"2.5", "2.5"},
		{"false", "false"},
		{"river", `"river"`},
	}
	for _, tc := range cases {
		got, err := Coerce(tc.raw).MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%q) error: %v", tc.raw, err)
		}
		if string(got) != tc.want {
			t.Errorf("MarshalJSON(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
