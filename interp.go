package mal

import (
	"fmt"
	"io"
	"log"
	"os"
)

// prelude is evaluated in every new interpreter, after the natives are bound.
var prelude = []string{
	`(def! not (fn* (a) (if a false true)))`,
	`(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) "\nnil)")))))`,
}

// Interp bundles a root environment with the evaluator and output used by
// its natives. It is the rep(line) boundary used by the REPL and sessions.
type Interp struct {
	Env *Env

	ev       *Evaluator
	out      io.Writer
	builtins map[string]Builtin
}

type Option func(*Interp)

// WithOutput sets where prn and println write. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interp) { in.out = w }
}

// WithLogger sets the logger used for DEBUG-EVAL traces.
func WithLogger(l *log.Logger) Option {
	return func(in *Interp) { in.ev.Log = l }
}

// WithBuiltins adds natives on top of the core set, replacing any with the
// same name.
func WithBuiltins(m map[string]Builtin) Option {
	return func(in *Interp) {
		for k, v := range m {
			in.builtins[k] = v
		}
	}
}

func New(opts ...Option) *Interp {
	in := &Interp{
		Env:      NewEnv(nil),
		ev:       &Evaluator{Log: log.New(os.Stderr, "mal: ", 0)},
		out:      os.Stdout,
		builtins: map[string]Builtin{},
	}
	for _, opt := range opts {
		opt(in)
	}

	natives := CoreBuiltins(in.out)
	for k, v := range FileBuiltins() {
		natives[k] = v
	}
	for k, v := range in.builtins {
		natives[k] = v
	}
	for name, fn := range natives {
		in.Env.Define(name, NativeVal(fn))
	}

	for _, src := range prelude {
		if v := in.EvalString(src); v.IsError() {
			panic(fmt.Sprintf("mal: prelude %q: %s", src, v.Str))
		}
	}
	return in
}

// ReadEval reads one form from line and evaluates it in the root
// environment. Only reader failures are returned as errors; evaluation
// failures come back as error values.
func (in *Interp) ReadEval(line string) (Value, error) {
	ast, err := ReadStr(line)
	if err != nil {
		return Value{}, err
	}
	return in.ev.Eval(ast, in.Env), nil
}

// EvalString is ReadEval with reader failures folded into the value.
func (in *Interp) EvalString(src string) Value {
	v, err := in.ReadEval(src)
	if err != nil {
		return ErrorVal(err)
	}
	return v
}

// Rep reads, evaluates and prints one line. It never fails: reader and
// evaluation errors are printed like any other result.
func (in *Interp) Rep(line string) string {
	v, err := in.ReadEval(line)
	if err != nil {
		return err.Error()
	}
	return PrStr(v, true)
}

// LoadFile evaluates every form in the file at path through load-file.
func (in *Interp) LoadFile(path string) Value {
	call := ListVal([]Value{SymbolVal("load-file"), StringVal(path)})
	return in.ev.Eval(call, in.Env)
}

// SetArgs binds *ARGV* to the given command line arguments.
func (in *Interp) SetArgs(args []string) {
	elems := make([]Value, len(args))
	for i, a := range args {
		elems[i] = StringVal(a)
	}
	in.Env.Define("*ARGV*", ListVal(elems))
}

func (in *Interp) Define(name string, v Value) {
	in.Env.Define(name, v)
}
