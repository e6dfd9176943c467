package mal

import (
	"testing"
)

func TestTruthy(t *testing.T) {
	for _, tc := range []struct {
		v    Value
		want bool
	}{
		{NilVal(), false},
		{BoolVal(false), false},
		{BoolVal(true), true},
		{IntVal(0), true},
		{StringVal(""), true},
		{ListVal(nil), true},
		{errorf(ErrGeneric, "boom"), true},
	} {
		if got := tc.v.Truthy(); got != tc.want {
			t.Fatalf("Truthy(%s): expected %v, got %v", tc.v, tc.want, got)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	list := ListVal([]Value{IntVal(1), IntVal(2)})
	vec := VectorVal([]Value{IntVal(1), IntVal(2)})
	if !ValuesEqual(list, vec) {
		t.Fatal("list and vector with equal elements should be equal")
	}
	if ValuesEqual(list, ListVal([]Value{IntVal(1)})) {
		t.Fatal("lists of different length should differ")
	}
	if ValuesEqual(IntVal(1), StringVal("1")) {
		t.Fatal("different kinds should differ")
	}
	if ValuesEqual(SymbolVal("a"), KeywordVal("a")) {
		t.Fatal("symbol and keyword should differ")
	}

	m1 := MapVal(map[Key]Value{{Kind: ValKeyword, Str: "a"}: list})
	m2 := MapVal(map[Key]Value{{Kind: ValKeyword, Str: "a"}: vec})
	if !ValuesEqual(m1, m2) {
		t.Fatal("maps with equal entries should be equal")
	}

	fn := NativeVal(builtinAdd)
	if ValuesEqual(fn, fn) {
		t.Fatal("functions are never equal")
	}
}

func TestStringEqualityUsesText(t *testing.T) {
	read := rawStringVal(`a\qb`)
	built := StringVal(`a\qb`)
	if !ValuesEqual(read, built) {
		t.Fatalf("expected %q and %q to be equal", read.Str, built.Str)
	}
	k1, _ := ToKey(read)
	k2, _ := ToKey(built)
	if k1 != k2 {
		t.Fatalf("expected equal keys, got %v and %v", k1, k2)
	}
}

func TestToKey(t *testing.T) {
	for _, v := range []Value{NilVal(), BoolVal(true), IntVal(3), SymbolVal("s"), KeywordVal("k"), StringVal("x\ny")} {
		k, err := ToKey(v)
		if err != nil {
			t.Fatalf("ToKey(%s): %v", v, err)
		}
		if back := k.Value(); !ValuesEqual(back, v) {
			t.Fatalf("key round trip: expected %s, got %s", v, back)
		}
	}
	for _, v := range []Value{ListVal(nil), VectorVal(nil), MapVal(nil), NativeVal(builtinAdd), errorf(ErrGeneric, "x")} {
		if _, err := ToKey(v); KindOf(err) != ErrNotHashable {
			t.Fatalf("ToKey(%s): expected NotHashable, got %v", v.KindName(), err)
		}
	}
}

func TestErrorValueRoundTrip(t *testing.T) {
	v := ErrorVal(newError(ErrArity, "bad arity"))
	if v.Kind != ValError || v.ErrKind != ErrArity || v.Str != "bad arity" {
		t.Fatalf("unexpected error value: %+v", v)
	}
	if KindOf(v.Err()) != ErrArity {
		t.Fatalf("expected ArityError, got %s", KindOf(v.Err()))
	}
	if IntVal(1).Err() != nil {
		t.Fatal("non-error value should have no Go error")
	}
}

func TestKindName(t *testing.T) {
	if got := IntVal(1).KindName(); got != "Integer" {
		t.Fatalf("expected Integer, got %s", got)
	}
	if got := mustRead(t, "(fn* () 1)").KindName(); got != "Closure" {
		t.Fatalf("expected Closure, got %s", got)
	}
}
