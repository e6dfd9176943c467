package mal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
)

// DefaultMaxTraces caps the number of traces a session keeps.
const DefaultMaxTraces = 1000

// Factory builds a fresh interpreter. Sessions pass in their own natives
// through opts.
type Factory func(opts ...Option) *Interp

// Session owns one interpreter on a single actor goroutine. Connections and
// other callers submit requests through Do; evaluations are serialized, so
// the interpreter is never touched by two goroutines at once.
type Session struct {
	newInterp Factory
	interp    *Interp
	requests  chan sessionRequest
	done      chan struct{}
	closeOnce sync.Once

	traces    []Trace
	maxTraces int
}

type sessionRequest struct {
	req      Request
	response chan Response
}

// NewSession starts a session. A nil factory uses New; maxTraces <= 0 uses
// DefaultMaxTraces.
func NewSession(factory Factory, maxTraces int) *Session {
	if factory == nil {
		factory = New
	}
	if maxTraces <= 0 {
		maxTraces = DefaultMaxTraces
	}
	s := &Session{
		newInterp: factory,
		requests:  make(chan sessionRequest, 64),
		done:      make(chan struct{}),
		maxTraces: maxTraces,
	}
	s.interp = s.build()
	go s.actorLoop()
	return s
}

func (s *Session) build() *Interp {
	return s.newInterp(WithBuiltins(map[string]Builtin{
		"traces": s.builtinTraces,
	}))
}

// Close stops the actor. Requests submitted afterwards fail.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Do submits req to the actor and waits for the response.
func (s *Session) Do(req Request) Response {
	select {
	case <-s.done:
		return errorResponse(req.ID, "session closed")
	default:
	}

	resp := make(chan Response, 1)
	select {
	case s.requests <- sessionRequest{req: req, response: resp}:
	case <-s.done:
		return errorResponse(req.ID, "session closed")
	}
	select {
	case r := <-resp:
		return r
	case <-s.done:
		return errorResponse(req.ID, "session closed")
	}
}

// Eval is a convenience wrapper around an eval request.
func (s *Session) Eval(expr string) Response {
	return s.Do(Request{ID: NextID(), Op: "eval", Expr: expr})
}

// actorLoop is the single goroutine that owns the interpreter.
func (s *Session) actorLoop() {
	for {
		select {
		case r := <-s.requests:
			r.response <- s.handle(r.req)
		case <-s.done:
			return
		}
	}
}

func (s *Session) handle(req Request) Response {
	switch req.Op {
	case "":
		return Response{ID: req.ID, OK: true, Value: sessionManual}
	case "eval":
		return s.handleEval(req)
	case "symbols":
		return Response{ID: req.ID, OK: true, Value: s.interp.Env.Names()}
	case "traces":
		return Response{ID: req.ID, OK: true, Value: s.lastTraces(req.N)}
	case "reset":
		s.interp = s.build()
		s.traces = nil
		return Response{ID: req.ID, OK: true, Value: "reset"}
	default:
		return errorResponse(req.ID, fmt.Sprintf("unknown op: %s", req.Op))
	}
}

func (s *Session) handleEval(req Request) Response {
	if req.Expr == "" {
		return errorResponse(req.ID, "eval: missing 'expr'")
	}

	trace := newTrace(req.Expr)
	v, err := s.interp.ReadEval(req.Expr)
	switch {
	case err != nil:
		trace.Error = err.Error()
	case v.IsError():
		trace.Error = v.Str
	default:
		trace.Result = PrStr(v, true)
	}
	s.appendTrace(trace)

	if trace.Error != "" {
		return errorResponse(req.ID, trace.Error)
	}
	return Response{ID: req.ID, OK: true, Value: trace.Result}
}

// appendTrace adds a trace and drops the oldest ones beyond maxTraces.
func (s *Session) appendTrace(t *Trace) {
	s.traces = append(s.traces, *t)
	if len(s.traces) > s.maxTraces {
		excess := len(s.traces) - s.maxTraces
		s.traces = s.traces[excess:]
	}
}

// lastTraces returns the newest n traces, oldest first; n <= 0 means all.
func (s *Session) lastTraces(n int) []Trace {
	if n <= 0 || n > len(s.traces) {
		n = len(s.traces)
	}
	out := make([]Trace, n)
	copy(out, s.traces[len(s.traces)-n:])
	return out
}

// builtinTraces: (traces) or (traces n) returns recent traces as a list of
// maps. It runs on the actor goroutine, inside an eval.
func (s *Session) builtinTraces(args []Value) (Value, error) {
	n := 0
	switch len(args) {
	case 0:
	case 1:
		if args[0].Kind != ValInt {
			return Value{}, newError(ErrTypeMismatch, "traces: expected Integer, got %s", args[0].KindName())
		}
		n = int(args[0].Int)
	default:
		return Value{}, newError(ErrArity, "traces: expected 0 or 1 arguments, got %d", len(args))
	}
	ts := s.lastTraces(n)
	out := make([]Value, len(ts))
	for i := range ts {
		out[i] = ts[i].ToValue()
	}
	return ListVal(out), nil
}

// Serve accepts connections on l until it is closed. Each connection reads
// framed requests and gets framed responses back.
func (s *Session) Serve(l net.Listener) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConnection(conn)
	}
}

func (s *Session) handleConnection(conn net.Conn) {
	defer conn.Close()

	for {
		var req Request
		if err := ReadMsg(conn, &req); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("read client message: %v", err)
			}
			return
		}

		resp := s.Do(req)
		if err := WriteMsg(conn, resp); err != nil {
			log.Printf("write client response: %v", err)
			return
		}
	}
}

func errorResponse(id, msg string) Response {
	return Response{ID: id, OK: false, Error: msg}
}

const sessionManual = `mal session

Operations:
  eval     {"op": "eval", "expr": "(+ 1 2)"}
           Read and evaluate one form. Returns the printed result.

  symbols  {"op": "symbols"}
           List the names bound in the root environment.

  traces   {"op": "traces", "n": 10}
           Return the newest n evaluation traces (all when n is omitted).

  reset    {"op": "reset"}
           Replace the interpreter with a fresh one and drop all traces.`
