package mal

import (
	"strings"
	"testing"
)

func TestPrintRoundTrip(t *testing.T) {
	for _, src := range []string{
		"nil",
		"true",
		"false",
		"42",
		"-7",
		`"abc"`,
		`"a\nb \"q\" \\"`,
		"()",
		"[]",
		"{}",
		"sym",
		":kw",
		`(1 [2 3] "x" (nil))`,
		"{:a 1}",
	} {
		v := mustRead(t, src)
		if got := PrStr(v, true); got != src {
			t.Fatalf("round trip %q: got %q", src, got)
		}
	}
}

func TestPrintStrings(t *testing.T) {
	v := StringVal("say \"hi\"\n")
	if got := PrStr(v, true); got != `"say \"hi\"\n"` {
		t.Fatalf("readable: got %q", got)
	}
	if got := PrStr(v, false); got != "say \"hi\"\n" {
		t.Fatalf("display: got %q", got)
	}
}

func TestPrintMapSorted(t *testing.T) {
	v := mustRead(t, "{:b 2 :a 1 :c 3}")
	if got := PrStr(v, true); got != "{:a 1 :b 2 :c 3}" {
		t.Fatalf("expected sorted map, got %q", got)
	}
}

func TestPrintFunctions(t *testing.T) {
	if got := PrStr(NativeVal(builtinAdd), true); got != "#<function>" {
		t.Fatalf("native: got %q", got)
	}
	fn := mustRead(t, "(fn* (a & rest) (list a rest))")
	if got := PrStr(fn, true); got != "#<function>" {
		t.Fatalf("closure: got %q", got)
	}
	if got := PrDebug(fn); got != "#<function (a & rest) (list a rest)>" {
		t.Fatalf("debug closure: got %q", got)
	}
	captured := capture(fn.Fn, NewEnv(nil))
	if got := PrDebug(captured); !strings.HasSuffix(got, " captured>") {
		t.Fatalf("debug captured closure: got %q", got)
	}
}

func TestPrintError(t *testing.T) {
	v := errorf(ErrDivisionByZero, "/: division by zero")
	if got := PrStr(v, true); got != "/: division by zero" {
		t.Fatalf("got %q", got)
	}
}

func TestUnescapeKeepsUnknownEscapes(t *testing.T) {
	if got := unescapeString(`a\tb\\c\"d\ne`); got != "a\\tb\\c\"d\ne" {
		t.Fatalf("got %q", got)
	}
}
