package mal

import (
	"errors"
	"fmt"
)

type ValueKind int

const (
	ValNil ValueKind = iota
	ValBool
	ValInt
	ValSymbol
	ValKeyword
	ValString
	ValError
	ValList
	ValVector
	ValMap
	ValNative
	ValFn
)

// Builtin is a function implemented in Go, called with eagerly evaluated
// arguments. A non-nil error is turned into an error value by the evaluator.
type Builtin func(args []Value) (Value, error)

// FnValue is a user-defined closure. Env stays nil until the closure escapes
// the form that created it; see eval.
type FnValue struct {
	Params   []string
	Variadic bool // last entry of Params collects the remaining arguments
	Body     Value
	Env      *Env
}

// Value is the tagged union of runtime values. Values are never mutated
// after construction; containers share their backing slices and maps.
//
// Str holds the name of a symbol or keyword (keywords without the leading
// colon), the message of an error, or the text of a string in escaped
// source form.
type Value struct {
	Kind    ValueKind
	Int     int64
	Bool    bool
	Str     string
	ErrKind ErrorKind
	List    *[]Value
	Map     *map[Key]Value
	Native  Builtin
	Fn      *FnValue
}

func NilVal() Value             { return Value{Kind: ValNil} }
func BoolVal(b bool) Value      { return Value{Kind: ValBool, Bool: b} }
func IntVal(n int64) Value      { return Value{Kind: ValInt, Int: n} }
func SymbolVal(s string) Value  { return Value{Kind: ValSymbol, Str: s} }
func KeywordVal(s string) Value { return Value{Kind: ValKeyword, Str: s} }
func NativeVal(fn Builtin) Value {
	return Value{Kind: ValNative, Native: fn}
}
func FnVal(fn *FnValue) Value { return Value{Kind: ValFn, Fn: fn} }

// StringVal builds a string value from plain text.
func StringVal(text string) Value {
	return Value{Kind: ValString, Str: escapeString(text)}
}

// rawStringVal builds a string value from text already in escaped form.
func rawStringVal(src string) Value {
	return Value{Kind: ValString, Str: src}
}

func ListVal(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ValList, List: &elems}
}

func VectorVal(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ValVector, List: &elems}
}

func MapVal(m map[Key]Value) Value {
	if m == nil {
		m = map[Key]Value{}
	}
	return Value{Kind: ValMap, Map: &m}
}

func ErrorVal(err error) Value {
	var e *Error
	if errors.As(err, &e) {
		return Value{Kind: ValError, Str: e.Message, ErrKind: e.Kind}
	}
	return Value{Kind: ValError, Str: err.Error(), ErrKind: ErrGeneric}
}

func errorf(kind ErrorKind, format string, args ...any) Value {
	return ErrorVal(newError(kind, format, args...))
}

// Text returns the content of a string value with escapes resolved.
func (v Value) Text() string {
	return unescapeString(v.Str)
}

// Elems returns the elements of a list or vector, nil for anything else.
func (v Value) Elems() []Value {
	if (v.Kind == ValList || v.Kind == ValVector) && v.List != nil {
		return *v.List
	}
	return nil
}

func (v Value) IsError() bool { return v.Kind == ValError }

// Err converts an error value back to a Go error. It returns nil for any
// other kind.
func (v Value) Err() error {
	if v.Kind != ValError {
		return nil
	}
	return &Error{Kind: v.ErrKind, Message: v.Str}
}

// Truthy reports whether v counts as true in a condition: nil and false are
// falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValNil:
		return false
	case ValBool:
		return v.Bool
	default:
		return true
	}
}

func (v Value) String() string {
	return PrStr(v, true)
}

func (v Value) KindName() string {
	switch v.Kind {
	case ValNil:
		return "Nil"
	case ValBool:
		return "Bool"
	case ValInt:
		return "Integer"
	case ValSymbol:
		return "Symbol"
	case ValKeyword:
		return "Keyword"
	case ValString:
		return "String"
	case ValError:
		return "Error"
	case ValList:
		return "List"
	case ValVector:
		return "Vector"
	case ValMap:
		return "Map"
	case ValNative:
		return "NativeFunction"
	case ValFn:
		return "Closure"
	default:
		return "Unknown"
	}
}

// ValuesEqual compares two values. Lists and vectors with equal elements are
// equal to each other; functions are never equal to anything.
func ValuesEqual(a, b Value) bool {
	if seq(a) && seq(b) {
		as, bs := a.Elems(), b.Elems()
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !ValuesEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValNil:
		return true
	case ValBool:
		return a.Bool == b.Bool
	case ValInt:
		return a.Int == b.Int
	case ValString:
		return a.Str == b.Str || a.Text() == b.Text()
	case ValSymbol, ValKeyword, ValError:
		return a.Str == b.Str
	case ValMap:
		am, bm := *a.Map, *b.Map
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !ValuesEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

func seq(v Value) bool {
	return v.Kind == ValList || v.Kind == ValVector
}

// Key is the hashable subset of Value: nil, booleans, integers, symbols,
// keywords and strings. It is comparable and used directly as a map key.
type Key struct {
	Kind ValueKind
	Int  int64
	Bool bool
	Str  string
}

// ToKey converts v to a map key. Containers, functions and errors are not
// hashable.
func ToKey(v Value) (Key, error) {
	switch v.Kind {
	case ValNil:
		return Key{Kind: ValNil}, nil
	case ValBool:
		return Key{Kind: ValBool, Bool: v.Bool}, nil
	case ValInt:
		return Key{Kind: ValInt, Int: v.Int}, nil
	case ValSymbol, ValKeyword:
		return Key{Kind: v.Kind, Str: v.Str}, nil
	case ValString:
		return Key{Kind: ValString, Str: escapeString(v.Text())}, nil
	default:
		return Key{}, newError(ErrNotHashable, "%s is not hashable", v.KindName())
	}
}

// Value converts the key back to the value it was made from.
func (k Key) Value() Value {
	switch k.Kind {
	case ValBool:
		return BoolVal(k.Bool)
	case ValInt:
		return IntVal(k.Int)
	case ValSymbol, ValKeyword, ValString:
		return Value{Kind: k.Kind, Str: k.Str}
	default:
		return NilVal()
	}
}

func (k Key) String() string {
	return fmt.Sprint(k.Value())
}
