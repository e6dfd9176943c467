package mal

import (
	"sort"
	"strconv"
	"strings"
)

// PrStr renders v as text. In readable mode strings are quoted and escaped
// so the output can be read back; otherwise string content is written raw.
func PrStr(v Value, readable bool) string {
	var sb strings.Builder
	writeValue(&sb, v, readable, false)
	return sb.String()
}

// PrDebug renders v like readable PrStr, but shows the parameters and body
// of closures instead of the opaque placeholder.
func PrDebug(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, true, true)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, readable, debug bool) {
	switch v.Kind {
	case ValNil:
		sb.WriteString("nil")
	case ValBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case ValInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case ValSymbol, ValError:
		sb.WriteString(v.Str)
	case ValKeyword:
		sb.WriteByte(':')
		sb.WriteString(v.Str)
	case ValString:
		if readable {
			sb.WriteByte('"')
			sb.WriteString(escapeString(v.Text()))
			sb.WriteByte('"')
		} else {
			sb.WriteString(v.Text())
		}
	case ValList:
		writeSeq(sb, v.Elems(), '(', ')', readable, debug)
	case ValVector:
		writeSeq(sb, v.Elems(), '[', ']', readable, debug)
	case ValMap:
		writeMap(sb, *v.Map, readable, debug)
	case ValNative:
		sb.WriteString("#<function>")
	case ValFn:
		if !debug {
			sb.WriteString("#<function>")
			return
		}
		writeFn(sb, v.Fn)
	default:
		sb.WriteString("#<unknown>")
	}
}

func writeSeq(sb *strings.Builder, elems []Value, open, close byte, readable, debug bool) {
	sb.WriteByte(open)
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeValue(sb, e, readable, debug)
	}
	sb.WriteByte(close)
}

// writeMap orders entries by the printed form of their keys so that output
// does not depend on Go map iteration order.
func writeMap(sb *strings.Builder, m map[Key]Value, readable, debug bool) {
	type entry struct {
		key string
		val Value
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, entry{key: PrStr(k.Value(), readable), val: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	sb.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.key)
		sb.WriteByte(' ')
		writeValue(sb, e.val, readable, debug)
	}
	sb.WriteByte('}')
}

func writeFn(sb *strings.Builder, fn *FnValue) {
	sb.WriteString("#<function (")
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if fn.Variadic && i == len(fn.Params)-1 {
			sb.WriteString("& ")
		}
		sb.WriteString(p)
	}
	sb.WriteString(") ")
	writeValue(sb, fn.Body, true, true)
	if fn.Env != nil {
		sb.WriteString(" captured")
	}
	sb.WriteByte('>')
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escapeString(text string) string {
	return stringEscaper.Replace(text)
}

// unescapeString resolves \n, \" and \\. Any other escape is kept verbatim.
func unescapeString(src string) string {
	if strings.IndexByte(src, '\\') < 0 {
		return src
	}
	var sb strings.Builder
	sb.Grow(len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '\\' || i+1 == len(src) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch src[i] {
		case 'n':
			sb.WriteByte('\n')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(src[i])
		}
	}
	return sb.String()
}
