package mal

import (
	"testing"
)

func TestEnvLookup(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", IntVal(1))
	root.Define("y", IntVal(2))
	child := NewEnv(root)
	child.Define("x", IntVal(10))

	if v, ok := child.Lookup("x"); !ok || !ValuesEqual(v, IntVal(10)) {
		t.Fatalf("expected shadowed x = 10, got %s", v)
	}
	if v, ok := child.Lookup("y"); !ok || !ValuesEqual(v, IntVal(2)) {
		t.Fatalf("expected inherited y = 2, got %s", v)
	}
	if v, _ := root.Lookup("x"); !ValuesEqual(v, IntVal(1)) {
		t.Fatalf("child define leaked into root: x = %s", v)
	}
	if _, ok := child.Lookup("z"); ok {
		t.Fatal("expected z to be unbound")
	}
}

func TestEnvGetMissing(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", IntVal(1))
	if v := NewEnv(root).Get("x"); !ValuesEqual(v, IntVal(1)) {
		t.Fatalf("expected inherited x = 1, got %s", v)
	}

	v := NewEnv(nil).Get("nope")
	if !v.IsError() || v.ErrKind != ErrSymbolNotFound {
		t.Fatalf("expected SymbolNotFound, got %s", v)
	}
	if v.Str != "'nope' not found" {
		t.Fatalf("unexpected message %q", v.Str)
	}
}

func TestEnvRootAndNames(t *testing.T) {
	root := NewEnv(nil)
	root.Define("b", NilVal())
	root.Define("a", NilVal())
	leaf := NewEnv(NewEnv(root))

	if leaf.Root() != root {
		t.Fatal("Root should return the outermost frame")
	}
	if leaf.outer.outer != root {
		t.Fatal("outer chain broken")
	}
	names := root.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("expected sorted names [a b], got %v", names)
	}
	if len(leaf.Names()) != 0 {
		t.Fatalf("expected no names in leaf, got %v", leaf.Names())
	}
}
