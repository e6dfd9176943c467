package mal

import (
	"cmp"
	"fmt"
	"io"
	"strings"
)

// CoreBuiltins returns the native functions every interpreter starts with.
// prn and println write to out.
func CoreBuiltins(out io.Writer) map[string]Builtin {
	return map[string]Builtin{
		// Arithmetic
		"+": builtinAdd,
		"-": builtinSub,
		"*": builtinMul,
		"/": builtinDiv,
		// Comparison
		"<":  compareBuiltin("<", func(c int) bool { return c < 0 }),
		"<=": compareBuiltin("<=", func(c int) bool { return c <= 0 }),
		">":  compareBuiltin(">", func(c int) bool { return c > 0 }),
		">=": compareBuiltin(">=", func(c int) bool { return c >= 0 }),
		"=":  builtinEq,
		"!=": builtinNotEq,
		// Lists
		"list":   builtinList,
		"list?":  builtinListQ,
		"empty?": builtinEmptyQ,
		"count":  builtinCount,
		// Output
		"pr-str": builtinPrStr,
		"str":    builtinStr,
		"prn": func(args []Value) (Value, error) {
			fmt.Fprintln(out, joinPrinted(args, true, " "))
			return NilVal(), nil
		},
		"println": func(args []Value) (Value, error) {
			fmt.Fprintln(out, joinPrinted(args, false, " "))
			return NilVal(), nil
		},
	}
}

// --- Arithmetic ---

// intArgs checks that args holds at least one integer and nothing else. An
// error value among the args is handed back as the failure.
func intArgs(name string, args []Value) ([]int64, error) {
	if len(args) == 0 {
		return nil, newError(ErrArity, "%s: expected at least 1 argument, got 0", name)
	}
	ns := make([]int64, len(args))
	for i, a := range args {
		if a.IsError() {
			return nil, a.Err()
		}
		if a.Kind != ValInt {
			return nil, newError(ErrTypeMismatch, "%s: expected Integer, got %s", name, a.KindName())
		}
		ns[i] = a.Int
	}
	return ns, nil
}

func builtinAdd(args []Value) (Value, error) {
	ns, err := intArgs("+", args)
	if err != nil {
		return Value{}, err
	}
	var sum int64
	for _, n := range ns {
		sum += n
	}
	return IntVal(sum), nil
}

func builtinSub(args []Value) (Value, error) {
	ns, err := intArgs("-", args)
	if err != nil {
		return Value{}, err
	}
	acc := ns[0]
	for _, n := range ns[1:] {
		acc -= n
	}
	return IntVal(acc), nil
}

func builtinMul(args []Value) (Value, error) {
	ns, err := intArgs("*", args)
	if err != nil {
		return Value{}, err
	}
	acc := int64(1)
	for _, n := range ns {
		acc *= n
	}
	return IntVal(acc), nil
}

func builtinDiv(args []Value) (Value, error) {
	ns, err := intArgs("/", args)
	if err != nil {
		return Value{}, err
	}
	acc := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			return Value{}, newError(ErrDivisionByZero, "/: division by zero")
		}
		acc /= n
	}
	return IntVal(acc), nil
}

// --- Comparison ---

// compareBuiltin builds a chained comparison: (< a b c) holds when a < b and
// b < c. Integers, strings and booleans are ordered; operands of a kind
// different from the first compare false.
func compareBuiltin(name string, holds func(int) bool) Builtin {
	return func(args []Value) (Value, error) {
		if len(args) < 2 {
			return Value{}, newError(ErrArity, "%s: expected at least 2 arguments, got %d", name, len(args))
		}
		first := args[0]
		switch first.Kind {
		case ValInt, ValString, ValBool:
		case ValError:
			return Value{}, first.Err()
		default:
			return Value{}, newError(ErrTypeMismatch, "%s: cannot compare %s", name, first.KindName())
		}
		for i := 1; i < len(args); i++ {
			b := args[i]
			if b.IsError() {
				return Value{}, b.Err()
			}
			if b.Kind != first.Kind {
				return BoolVal(false), nil
			}
			if !holds(compareValues(args[i-1], b)) {
				return BoolVal(false), nil
			}
		}
		return BoolVal(true), nil
	}
}

func compareValues(a, b Value) int {
	switch a.Kind {
	case ValInt:
		return cmp.Compare(a.Int, b.Int)
	case ValString:
		return strings.Compare(a.Text(), b.Text())
	case ValBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1 // false < true
		default:
			return 1
		}
	}
	return 0
}

func builtinEq(args []Value) (Value, error) {
	if len(args) < 2 {
		return Value{}, newError(ErrArity, "=: expected at least 2 arguments, got %d", len(args))
	}
	for _, a := range args[1:] {
		if !ValuesEqual(args[0], a) {
			return BoolVal(false), nil
		}
	}
	return BoolVal(true), nil
}

// builtinNotEq holds when every argument after the first differs from it.
func builtinNotEq(args []Value) (Value, error) {
	if len(args) < 2 {
		return Value{}, newError(ErrArity, "!=: expected at least 2 arguments, got %d", len(args))
	}
	for _, a := range args[1:] {
		if ValuesEqual(args[0], a) {
			return BoolVal(false), nil
		}
	}
	return BoolVal(true), nil
}

// --- Lists ---

func builtinList(args []Value) (Value, error) {
	elems := make([]Value, len(args))
	copy(elems, args)
	return ListVal(elems), nil
}

func builtinListQ(args []Value) (Value, error) {
	for _, a := range args {
		if a.Kind != ValList {
			return BoolVal(false), nil
		}
	}
	return BoolVal(true), nil
}

func builtinEmptyQ(args []Value) (Value, error) {
	for _, a := range args {
		switch a.Kind {
		case ValList, ValVector:
			if len(a.Elems()) != 0 {
				return BoolVal(false), nil
			}
		case ValMap:
			if len(*a.Map) != 0 {
				return BoolVal(false), nil
			}
		default:
			return BoolVal(false), nil
		}
	}
	return BoolVal(true), nil
}

func builtinCount(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityError("count", len(args), 1)
	}
	switch a := args[0]; a.Kind {
	case ValNil:
		return IntVal(0), nil
	case ValList, ValVector:
		return IntVal(int64(len(a.Elems()))), nil
	case ValMap:
		return IntVal(int64(len(*a.Map))), nil
	case ValError:
		return Value{}, a.Err()
	default:
		return Value{}, newError(ErrTypeMismatch, "count: expected List, Vector or Map, got %s", a.KindName())
	}
}

// --- Output ---

func joinPrinted(args []Value, readable bool, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrStr(a, readable)
	}
	return strings.Join(parts, sep)
}

// firstError returns the first error value among args as a Go error.
func firstError(args []Value) error {
	for _, a := range args {
		if a.IsError() {
			return a.Err()
		}
	}
	return nil
}

func builtinPrStr(args []Value) (Value, error) {
	if err := firstError(args); err != nil {
		return Value{}, err
	}
	return StringVal(joinPrinted(args, true, " ")), nil
}

func builtinStr(args []Value) (Value, error) {
	if err := firstError(args); err != nil {
		return Value{}, err
	}
	return StringVal(joinPrinted(args, false, "")), nil
}
