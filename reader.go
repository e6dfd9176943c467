package mal

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern splits source text into tokens. In priority order it matches
// the ~@ splice marker, single-character specials, strings (possibly
// unterminated), line comments, and runs of atom characters. Whitespace and
// commas separate tokens.
var tokenPattern = regexp.MustCompile("[\\s,]*(~@|[\\[\\]{}()'`~^@]|\"(?:\\\\.|[^\\\\\"])*\"?|;.*|[^\\s\\[\\]{}('\"`,;)]*)")

func tokenize(input string) []string {
	matches := tokenPattern.FindAllStringSubmatch(input, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tok := m[1]
		if tok == "" || tok[0] == ';' {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

type reader struct {
	tokens []string
	pos    int
}

func (r *reader) peek() (string, bool) {
	if r.pos >= len(r.tokens) {
		return "", false
	}
	return r.tokens[r.pos], true
}

func (r *reader) next() (string, bool) {
	tok, ok := r.peek()
	if ok {
		r.pos++
	}
	return tok, ok
}

// ReadStr reads the first form in input. Empty input (or input holding only
// whitespace and comments) reads as nil. Failures are *Error values with a
// reader kind.
func ReadStr(input string) (Value, error) {
	r := &reader{tokens: tokenize(input)}
	if _, ok := r.peek(); !ok {
		return NilVal(), nil
	}
	return r.readForm()
}

func (r *reader) readForm() (Value, error) {
	tok, _ := r.peek()
	switch tok {
	case "(":
		elems, err := r.readSeq(")")
		if err != nil {
			return Value{}, err
		}
		if len(elems) > 0 && elems[0].Kind == ValSymbol && elems[0].Str == "fn*" {
			return readClosure(elems)
		}
		return ListVal(elems), nil
	case "[":
		elems, err := r.readSeq("]")
		if err != nil {
			return Value{}, err
		}
		return VectorVal(elems), nil
	case "{":
		return r.readMap()
	case ")", "]", "}":
		r.next()
		return Value{}, newError(ErrUnmatchedDelimiter, "unexpected '%s'", tok)
	default:
		r.next()
		return readAtom(tok)
	}
}

// readSeq collects forms after the opening token up to close.
func (r *reader) readSeq(close string) ([]Value, error) {
	r.next()
	elems := []Value{}
	for {
		tok, ok := r.peek()
		if !ok {
			err := newError(ErrUnmatchedDelimiter, "expected '%s', got EOF", close)
			err.incomplete = true
			return nil, err
		}
		if tok == close {
			r.next()
			return elems, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, form)
	}
}

func (r *reader) readMap() (Value, error) {
	elems, err := r.readSeq("}")
	if err != nil {
		return Value{}, err
	}
	if len(elems)%2 != 0 {
		return Value{}, newError(ErrOddMapArity, "map literal needs an even number of forms, got %d", len(elems))
	}
	m := make(map[Key]Value, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		k, err := ToKey(elems[i])
		if err != nil {
			return Value{}, err
		}
		m[k] = elems[i+1]
	}
	return MapVal(m), nil
}

func readAtom(tok string) (Value, error) {
	switch tok {
	case "nil":
		return NilVal(), nil
	case "true":
		return BoolVal(true), nil
	case "false":
		return BoolVal(false), nil
	}

	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return IntVal(n), nil
	}

	if tok[0] == '"' {
		if len(tok) < 2 || tok[len(tok)-1] != '"' || !closedEscapes(tok[1:len(tok)-1]) {
			err := newError(ErrUnterminatedString, "expected '\"', got EOF")
			err.incomplete = true
			return Value{}, err
		}
		return rawStringVal(tok[1 : len(tok)-1]), nil
	}

	if tok[0] == ':' {
		return KeywordVal(tok[1:]), nil
	}

	return SymbolVal(tok), nil
}

// closedEscapes reports whether s ends with an even run of backslashes, so
// the quote after it is not escaped.
func closedEscapes(s string) bool {
	n := len(s) - len(strings.TrimRight(s, `\`))
	return n%2 == 0
}

// readClosure turns (fn* params body) into a closure literal with no
// captured environment. A & in params must be followed by exactly one final
// name, which collects the remaining arguments.
func readClosure(elems []Value) (Value, error) {
	if len(elems) != 3 {
		return Value{}, arityError("fn*", len(elems)-1, 2)
	}
	if !seq(elems[1]) {
		return Value{}, newError(ErrBinding, "fn*: parameters must be a list or vector, got %s", elems[1].KindName())
	}
	params := elems[1].Elems()
	fn := &FnValue{Params: make([]string, 0, len(params)), Body: elems[2]}
	for i, p := range params {
		if p.Kind != ValSymbol {
			return Value{}, newError(ErrBinding, "fn*: parameter must be a symbol, got %s", p.KindName())
		}
		if p.Str != "&" {
			fn.Params = append(fn.Params, p.Str)
			continue
		}
		if i != len(params)-2 {
			return Value{}, newError(ErrBinding, "fn*: '&' must be followed by exactly one parameter")
		}
		rest := params[i+1]
		if rest.Kind != ValSymbol || rest.Str == "&" {
			return Value{}, newError(ErrBinding, "fn*: rest parameter must be a symbol, got %s", rest.KindName())
		}
		fn.Params = append(fn.Params, rest.Str)
		fn.Variadic = true
		break
	}
	return FnVal(fn), nil
}
