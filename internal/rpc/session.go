package rpc

import (
	"bufio"
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dshills/slipstream/internal/logger"
)

// NotificationHandler receives an incoming notification. Handlers run on
// the receive goroutine so they observe notifications in arrival order;
// they must not block.
type NotificationHandler func(method string, params []any)

// RequestHandler serves a request sent by the engine. The returned value
// becomes the response result; a non-nil error becomes the response error.
type RequestHandler func(method string, params []any) (any, error)

type result struct {
	value any
	err   error
}

// Session is one MessagePack-RPC endpoint over a byte stream.
type Session struct {
	conn io.ReadWriteCloser

	// wmu serializes whole frames on the wire. It is separate from mu so a
	// blocked write never stalls response delivery.
	wmu sync.Mutex
	w   *bufio.Writer
	enc *msgpack.Encoder

	nextID   atomic.Uint32
	mu       sync.Mutex
	pending  map[uint32]chan result
	handlers map[string]NotificationHandler
	requests map[string]RequestHandler
	err      error

	closed  atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// NewSession creates a session over conn. Call Start to begin receiving.
func NewSession(conn io.ReadWriteCloser) *Session {
	w := bufio.NewWriterSize(conn, 32*1024)
	return &Session{
		conn:     conn,
		w:        w,
		enc:      msgpack.NewEncoder(w),
		pending:  make(map[uint32]chan result),
		handlers: make(map[string]NotificationHandler),
		requests: make(map[string]RequestHandler),
		done:     make(chan struct{}),
	}
}

// Start launches the receive loop.
func (s *Session) Start() {
	go s.readLoop()
}

// OnNotification registers a handler for incoming notifications. The
// method "*" receives notifications that have no dedicated handler.
func (s *Session) OnNotification(method string, h NotificationHandler) {
	s.mu.Lock()
	s.handlers[method] = h
	s.mu.Unlock()
}

// OnRequest registers a handler for requests sent by the engine.
func (s *Session) OnRequest(method string, h RequestHandler) {
	s.mu.Lock()
	s.requests[method] = h
	s.mu.Unlock()
}

// Close ends the session. Pending callers receive ErrDisconnected.
func (s *Session) Close() error {
	s.fail(nil)
	return nil
}

// Done is closed when the session ends, locally or by transport failure.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err reports the fatal error that ended the session. It is nil while the
// session is running and after a local Close.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// IsClosed reports whether the session has ended.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Call sends a request and waits for the matching response.
func (s *Session) Call(ctx context.Context, method string, params ...any) (any, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	id := s.nextID.Add(1)
	ch := make(chan result, 1)

	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	if err := s.writeRequest(id, method, params); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrDisconnected
	case r := <-ch:
		return r.value, r.err
	}
}

// Notify sends a notification. No response is awaited. Notifications from
// one goroutine reach the wire in call order.
func (s *Session) Notify(method string, params ...any) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.writeNotification(method, params)
}

// fail ends the session once, recording err as the cause. A nil err marks
// a deliberate local close.
func (s *Session) fail(err error) {
	s.once.Do(func() {
		s.closed.Store(true)
		s.mu.Lock()
		s.err = err
		// Clear rather than close the channels; waiters are released by
		// the done channel below.
		s.pending = make(map[uint32]chan result)
		s.mu.Unlock()
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *Session) readLoop() {
	dec := msgpack.NewDecoder(bufio.NewReaderSize(s.conn, 64*1024))
	dec.UseLooseInterfaceDecoding(true)

	for {
		if err := s.readFrame(dec); err != nil {
			if s.closed.Load() {
				return
			}
			s.fail(&TransportError{Op: "read", Err: err})
			return
		}
	}
}

// readFrame decodes and dispatches a single frame. Any returned error is
// fatal for the session: the stream is either closed or out of sync.
func (s *Session) readFrame(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}

	kind, err := dec.DecodeInt64()
	if err != nil {
		return err
	}

	switch kind {
	case typeResponse:
		if n != 4 {
			return &ProtocolError{Reason: "response frame must have 4 elements"}
		}
		id, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		errVal, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return err
		}
		resVal, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return err
		}
		s.handleResponse(uint32(id), errVal, resVal)
		return nil

	case typeNotification:
		if n != 3 {
			return &ProtocolError{Reason: "notification frame must have 3 elements"}
		}
		method, err := dec.DecodeString()
		if err != nil {
			return err
		}
		params, err := decodeArgs(dec)
		if err != nil {
			return err
		}
		s.handleNotification(method, params)
		return nil

	case typeRequest:
		if n != 4 {
			return &ProtocolError{Reason: "request frame must have 4 elements"}
		}
		id, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		method, err := dec.DecodeString()
		if err != nil {
			return err
		}
		params, err := decodeArgs(dec)
		if err != nil {
			return err
		}
		s.handleRequest(uint32(id), method, params)
		return nil

	default:
		return &ProtocolError{Reason: "unknown message kind"}
	}
}

func decodeArgs(dec *msgpack.Decoder) ([]any, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	args := make([]any, n)
	for i := range args {
		v, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// handleResponse wakes the caller pending on the response's id.
func (s *Session) handleResponse(id uint32, errVal, resVal any) {
	s.mu.Lock()
	ch, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		// Well-formed but unmatchable. The request may have been cancelled,
		// or the engine is confused; either way the session continues.
		logger.Warn("dropping response with no pending request", "id", id)
		return
	}

	r := result{value: resVal}
	if errVal != nil {
		r.err = &EngineError{Value: errVal}
	}
	select {
	case ch <- r:
	default:
	}
}

func (s *Session) handleNotification(method string, params []any) {
	s.mu.Lock()
	h, ok := s.handlers[method]
	if !ok {
		h, ok = s.handlers["*"]
	}
	s.mu.Unlock()

	if !ok {
		logger.Debug("notification without handler", "method", method)
		return
	}
	h(method, params)
}

func (s *Session) handleRequest(id uint32, method string, params []any) {
	s.mu.Lock()
	h, ok := s.requests[method]
	if !ok {
		h, ok = s.requests["*"]
	}
	s.mu.Unlock()

	if !ok {
		_ = s.writeResponse(id, "method not found: "+method, nil)
		return
	}

	res, err := h(method, params)
	if err != nil {
		_ = s.writeResponse(id, err.Error(), nil)
		return
	}
	_ = s.writeResponse(id, nil, res)
}

func (s *Session) writeRequest(id uint32, method string, params []any) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	err := func() error {
		if err := s.enc.EncodeArrayLen(4); err != nil {
			return err
		}
		if err := s.enc.EncodeInt(typeRequest); err != nil {
			return err
		}
		if err := s.enc.EncodeUint(uint64(id)); err != nil {
			return err
		}
		if err := s.enc.EncodeString(method); err != nil {
			return err
		}
		if err := s.encodeArgs(params); err != nil {
			return err
		}
		return s.w.Flush()
	}()
	return s.writeDone(err)
}

func (s *Session) writeNotification(method string, params []any) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	err := func() error {
		if err := s.enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := s.enc.EncodeInt(typeNotification); err != nil {
			return err
		}
		if err := s.enc.EncodeString(method); err != nil {
			return err
		}
		if err := s.encodeArgs(params); err != nil {
			return err
		}
		return s.w.Flush()
	}()
	return s.writeDone(err)
}

func (s *Session) writeResponse(id uint32, errVal, resVal any) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	err := func() error {
		if err := s.enc.EncodeArrayLen(4); err != nil {
			return err
		}
		if err := s.enc.EncodeInt(typeResponse); err != nil {
			return err
		}
		if err := s.enc.EncodeUint(uint64(id)); err != nil {
			return err
		}
		if err := s.enc.Encode(errVal); err != nil {
			return err
		}
		if err := s.enc.Encode(resVal); err != nil {
			return err
		}
		return s.w.Flush()
	}()
	return s.writeDone(err)
}

func (s *Session) encodeArgs(params []any) error {
	if err := s.enc.EncodeArrayLen(len(params)); err != nil {
		return err
	}
	for _, p := range params {
		if err := s.enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// writeDone classifies the outcome of a frame write. A write failure means
// the stream is unusable, which ends the session.
func (s *Session) writeDone(err error) error {
	if err == nil {
		return nil
	}
	terr := &TransportError{Op: "write", Err: err}
	s.fail(terr)
	return terr
}
