package lang

import (
	"slices"
	"testing"
)

func TestEnv_DefineAndGet(t *testing.T) {
	env := NewEnv(nil)
	env.Define("x", Number(1))

	v, ok := env.Get("x")
	if !ok || v.(Number) != 1 {
		t.Fatalf("expected 1, got %v (%v)", v, ok)
	}

	if _, ok := env.Get("y"); ok {
		t.Error("lookup of undefined name must fail")
	}
}

func TestEnv_LookupWalksParents(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Number(1))

	child := NewEnv(NewEnv(root))

	v, ok := child.Get("x")
	if !ok || v.(Number) != 1 {
		t.Fatalf("expected lookup through the chain, got %v (%v)", v, ok)
	}
}

func TestEnv_DefineShadowsOuter(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Number(1))

	child := NewEnv(root)
	child.Define("x", Number(2))

	if v, _ := child.Get("x"); v.(Number) != 2 {
		t.Errorf("inner binding must shadow outer, got %v", v)
	}

	if v, _ := root.Get("x"); v.(Number) != 1 {
		t.Errorf("outer binding must be untouched, got %v", v)
	}
}

func TestEnv_AssignUpdatesNearestEnclosing(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Number(1))

	child := NewEnv(root)

	if !child.Assign("x", Number(2)) {
		t.Fatal("assignment must reach the enclosing binding")
	}

	if v, _ := root.Get("x"); v.(Number) != 2 {
		t.Errorf("enclosing binding must be updated, got %v", v)
	}
}

func TestEnv_AssignFailsWhenUnbound(t *testing.T) {
	env := NewEnv(NewEnv(nil))

	if env.Assign("ghostly", Number(1)) {
		t.Error("assignment to an unbound name must fail")
	}
}

func TestEnv_NamesDeduplicatesShadowed(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Number(1))
	root.Define("y", Number(2))

	child := NewEnv(root)
	child.Define("x", Number(3))

	names := child.Names()
	slices.Sort(names)

	if !slices.Equal(names, []string{"x", "y"}) {
		t.Errorf("unexpected names: %v", names)
	}
}
