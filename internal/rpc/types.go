package rpc

import (
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Message kinds on the wire. Every frame is an array beginning with one of
// these.
const (
	typeRequest      = 0
	typeResponse     = 1
	typeNotification = 2
)

// Remote object handles. The engine transmits them as extension-typed
// integers; within one connection they are opaque keys.
type (
	// Buffer identifies a remote text buffer.
	Buffer int64
	// Window identifies a remote window.
	Window int64
	// Tabpage identifies a remote tabpage.
	Tabpage int64
)

const (
	extBuffer  = 0
	extWindow  = 1
	extTabpage = 2
)

func init() {
	msgpack.RegisterExtDecoder(extBuffer, Buffer(0), decodeExtHandle)
	msgpack.RegisterExtDecoder(extWindow, Window(0), decodeExtHandle)
	msgpack.RegisterExtDecoder(extTabpage, Tabpage(0), decodeExtHandle)
	msgpack.RegisterExtEncoder(extBuffer, Buffer(0), encodeExtHandle)
	msgpack.RegisterExtEncoder(extWindow, Window(0), encodeExtHandle)
	msgpack.RegisterExtEncoder(extTabpage, Tabpage(0), encodeExtHandle)
}

// decodeExtHandle reads an extension payload holding a packed integer.
func decodeExtHandle(d *msgpack.Decoder, v reflect.Value, extLen int) error {
	b := make([]byte, extLen)
	if err := d.ReadFull(b); err != nil {
		return err
	}
	var n int64
	if err := msgpack.Unmarshal(b, &n); err != nil {
		return err
	}
	v.SetInt(n)
	return nil
}

func encodeExtHandle(_ *msgpack.Encoder, v reflect.Value) ([]byte, error) {
	return msgpack.Marshal(v.Int())
}
