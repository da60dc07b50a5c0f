package classpath

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		code string
		want Scope
	}{
		{"ABC123", "classes/ABC123"},
		{"schools/sunshine/teachers/kim/classes/3-2", "schools/sunshine/teachers/kim/classes/3-2"},
		{"GLOBAL", "admin/global"},
	}

	for _, tc := range cases {
		if got := Resolve(tc.code); got != tc.want {
			t.Fatalf("Resolve(%q) = %q; want %q", tc.code, got, tc.want)
		}
	}
}

func TestNested_SanitizesSlashes(t *testing.T) {
	got := Nested("a/b", "kim", "3/2")
	want := Scope("schools/a_b/teachers/kim/classes/3_2")
	if got != want {
		t.Fatalf("Nested = %q; want %q", got, want)
	}
}

func TestIsGlobal(t *testing.T) {
	if !Resolve("GLOBAL").IsGlobal() {
		t.Fatal("expected GLOBAL to resolve to the global scope")
	}
	if Resolve("ABC123").IsGlobal() {
		t.Fatal("class scope must not be global")
	}
}
