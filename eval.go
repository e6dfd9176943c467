package mal

import (
	"log"
	"os"
)

// specialForms are list heads handled by the evaluator itself. Their symbols
// evaluate to themselves and are never looked up.
var specialForms = map[string]bool{
	"def!": true,
	"let*": true,
	"do":   true,
	"if":   true,
	"eval": true,
}

// debugEvalSymbol, when bound to a truthy value, makes the evaluator log
// every expression it is about to evaluate.
const debugEvalSymbol = "DEBUG-EVAL"

// Evaluator evaluates values against an environment. The zero value is
// usable; Log only matters when DEBUG-EVAL is switched on.
type Evaluator struct {
	Log *log.Logger
}

var std = &Evaluator{Log: log.New(os.Stderr, "", 0)}

// Eval evaluates ast in env with the default evaluator. It never fails
// outside the value channel: every failure comes back as an error value.
func Eval(ast Value, env *Env) Value {
	return std.Eval(ast, env)
}

func (ev *Evaluator) Eval(ast Value, env *Env) Value {
	return ev.eval(ast, env, false)
}

// eval is the trampoline. Forms in tail position (the let* body, the last
// form of do, the live branch of if, the result of eval and closure bodies)
// replace ast and env and loop instead of recursing, so the host stack does
// not grow with user-level tail recursion.
//
// adopt is set once control has moved into a let* body or a closure body.
// An uncaptured closure literal reached while it is set captures the current
// frame, which is how closures survive the frame that created them.
func (ev *Evaluator) eval(ast Value, env *Env, adopt bool) Value {
	if ev.debugging(env) {
		ev.Log.Printf("EVAL: %s", PrDebug(ast))
	}

	for {
		switch ast.Kind {
		case ValSymbol:
			if specialForms[ast.Str] {
				return ast
			}
			v := env.Get(ast.Str)
			if v.IsError() {
				return v
			}
			ast = v
			continue

		case ValFn:
			if adopt && ast.Fn.Env == nil {
				return capture(ast.Fn, env)
			}
			return ast

		case ValVector:
			return VectorVal(ev.evalEach(ast.Elems(), env, adopt))

		case ValMap:
			src := *ast.Map
			m := make(map[Key]Value, len(src))
			for k, v := range src {
				m[k] = ev.eval(v, env, adopt)
			}
			return MapVal(m)

		case ValList:
			// handled below
		default:
			return ast
		}

		elems := ast.Elems()
		if len(elems) == 0 {
			return ListVal(nil)
		}

		head := ev.eval(elems[0], env, adopt)
		if head.Kind == ValSymbol && specialForms[head.Str] {
			switch head.Str {
			case "def!":
				return ev.evalDef(elems, env)

			case "let*":
				body, frame, errVal, ok := ev.evalLet(elems, env)
				if !ok {
					return errVal
				}
				ast, env, adopt = body, frame, true
				continue

			case "do":
				if len(elems) < 2 {
					return errorf(ErrArity, "do: expected at least 1 argument, got 0")
				}
				for _, form := range elems[1 : len(elems)-1] {
					ev.eval(form, env, false)
				}
				ast = elems[len(elems)-1]
				continue

			case "if":
				if len(elems) != 3 && len(elems) != 4 {
					return errorf(ErrArity, "if: wrong number of arguments: got %d, expected 2 or 3", len(elems)-1)
				}
				if ev.eval(elems[1], env, false).Truthy() {
					ast = elems[2]
					continue
				}
				if len(elems) == 3 {
					return NilVal()
				}
				ast = elems[3]
				continue

			case "eval":
				if len(elems) != 2 {
					return ErrorVal(arityError("eval", len(elems)-1, 1))
				}
				ast = ev.eval(elems[1], env, adopt)
				env = env.Root()
				continue
			}
		}

		switch head.Kind {
		case ValNative:
			args := ev.evalEach(elems[1:], env, adopt)
			v, err := head.Native(args)
			if err != nil {
				return ErrorVal(err)
			}
			return v

		case ValFn:
			frame, errVal, ok := ev.bindArgs(head.Fn, elems[1:], env)
			if !ok {
				return errVal
			}
			ast, env, adopt = head.Fn.Body, frame, true
			continue

		case ValError:
			return head

		default:
			out := make([]Value, len(elems))
			out[0] = head
			for i, e := range elems[1:] {
				out[i+1] = ev.eval(e, env, adopt)
			}
			return ListVal(out)
		}
	}
}

// evalEach evaluates forms left to right. Error results are kept in place;
// they do not stop the remaining forms from being evaluated.
func (ev *Evaluator) evalEach(forms []Value, env *Env, adopt bool) []Value {
	out := make([]Value, len(forms))
	for i, f := range forms {
		out[i] = ev.eval(f, env, adopt)
	}
	return out
}

func (ev *Evaluator) evalDef(elems []Value, env *Env) Value {
	if len(elems) != 3 {
		return ErrorVal(arityError("def!", len(elems)-1, 2))
	}
	name := elems[1]
	if name.Kind != ValSymbol {
		return errorf(ErrBinding, "def!: binding name must be a symbol, got %s", name.KindName())
	}
	v := ev.eval(elems[2], env, true)
	if !v.IsError() {
		env.Define(name.Str, v)
	}
	return v
}

// evalLet builds the let* frame and returns the body to continue with.
// Bindings are sequential: each value is evaluated in the new frame and sees
// the names bound before it. Once all names are bound, every uncaptured
// closure in the frame is made to capture it, so sibling closures can call
// each other.
func (ev *Evaluator) evalLet(elems []Value, env *Env) (Value, *Env, Value, bool) {
	if len(elems) != 3 {
		return Value{}, nil, ErrorVal(arityError("let*", len(elems)-1, 2)), false
	}
	if !seq(elems[1]) {
		return Value{}, nil, errorf(ErrBinding, "let*: bindings must be a list or vector, got %s", elems[1].KindName()), false
	}
	bindings := elems[1].Elems()
	if len(bindings)%2 != 0 {
		return Value{}, nil, errorf(ErrArity, "let*: bindings must come in pairs, got %d forms", len(bindings)), false
	}

	frame := NewEnv(env)
	for i := 0; i < len(bindings); i += 2 {
		name := bindings[i]
		if name.Kind != ValSymbol {
			return Value{}, nil, errorf(ErrBinding, "let*: binding name must be a symbol, got %s", name.KindName()), false
		}
		v := ev.eval(bindings[i+1], frame, false)
		if v.IsError() {
			return Value{}, nil, v, false
		}
		frame.Define(name.Str, v)
	}

	for name, v := range frame.data {
		if v.Kind == ValFn && v.Fn.Env == nil {
			frame.data[name] = capture(v.Fn, frame)
		}
	}
	return elems[2], frame, Value{}, true
}

// bindArgs checks arity and binds the evaluated arguments in a fresh frame.
// Arguments are evaluated in the caller's env; closure literals are passed
// through untouched. The frame's parent is the closure's captured env, or
// the caller's env when it has none.
func (ev *Evaluator) bindArgs(fn *FnValue, args []Value, env *Env) (*Env, Value, bool) {
	fixed := len(fn.Params)
	if fn.Variadic {
		fixed--
		if len(args) < fixed {
			return nil, errorf(ErrArity, "wrong number of arguments: got %d, expected at least %d", len(args), fixed), false
		}
	} else if len(args) != fixed {
		return nil, errorf(ErrArity, "wrong number of arguments: got %d, expected %d", len(args), fixed), false
	}

	parent := fn.Env
	if parent == nil {
		parent = env
	}
	frame := NewEnv(parent)
	for i := 0; i < fixed; i++ {
		frame.Define(fn.Params[i], ev.evalArg(args[i], env))
	}
	if fn.Variadic {
		rest := make([]Value, 0, len(args)-fixed)
		for _, a := range args[fixed:] {
			rest = append(rest, ev.evalArg(a, env))
		}
		frame.Define(fn.Params[fixed], ListVal(rest))
	}
	return frame, Value{}, true
}

func (ev *Evaluator) evalArg(arg Value, env *Env) Value {
	if arg.Kind == ValFn {
		return arg
	}
	return ev.eval(arg, env, true)
}

func capture(fn *FnValue, env *Env) Value {
	c := *fn
	c.Env = env
	return FnVal(&c)
}

// debugging reports whether DEBUG-EVAL is switched on as seen from env. It
// is checked once per eval call; tail iterations are not logged separately.
func (ev *Evaluator) debugging(env *Env) bool {
	if ev.Log == nil {
		return false
	}
	v, ok := env.Lookup(debugEvalSymbol)
	return ok && v.Truthy()
}
