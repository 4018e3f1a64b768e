package rpc

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed indicates an operation on a session that has been
	// closed locally.
	ErrSessionClosed = errors.New("rpc: session closed")

	// ErrDisconnected indicates the connection to the engine ended while a
	// request was in flight. Pending callers receive this on teardown.
	ErrDisconnected = errors.New("rpc: disconnected")
)

// TransportError is fatal: the byte stream to the engine is broken or
// produced a malformed frame. It terminates the session.
type TransportError struct {
	Op  string // "read", "write", "decode", "connect"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is non-fatal: a well-formed message that cannot be acted
// on, such as a response whose id matches no pending request. It is logged
// and the session continues.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "rpc: protocol: " + e.Reason
}

// EngineError is the error value the engine returned for a request.
// The engine encodes it as a [type, message] pair.
type EngineError struct {
	Value any
}

func (e *EngineError) Error() string {
	if pair, ok := e.Value.([]any); ok && len(pair) == 2 {
		if msg, ok := pair[1].(string); ok {
			return "rpc: engine: " + msg
		}
	}
	return fmt.Sprintf("rpc: engine: %v", e.Value)
}
