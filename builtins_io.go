package mal

import "os"

// FileBuiltins returns the primitives that reach outside the interpreter:
// slurp reads a file into a string and read-string parses a string into a
// value. load-file is defined on top of them.
func FileBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"slurp":       builtinSlurp,
		"read-string": builtinReadString,
	}
}

func builtinSlurp(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityError("slurp", len(args), 1)
	}
	if err := firstError(args); err != nil {
		return Value{}, err
	}
	if args[0].Kind != ValString {
		return Value{}, newError(ErrTypeMismatch, "slurp: expected String, got %s", args[0].KindName())
	}
	data, err := os.ReadFile(args[0].Text())
	if err != nil {
		return Value{}, newError(ErrIO, "slurp: %v", err)
	}
	return StringVal(string(data)), nil
}

func builtinReadString(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityError("read-string", len(args), 1)
	}
	if err := firstError(args); err != nil {
		return Value{}, err
	}
	if args[0].Kind != ValString {
		return Value{}, newError(ErrTypeMismatch, "read-string: expected String, got %s", args[0].KindName())
	}
	return ReadStr(args[0].Text())
}
