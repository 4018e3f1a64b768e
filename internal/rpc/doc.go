// Package rpc implements the MessagePack-RPC session with the editing
// engine: framing over pipes or a socket, request/response correlation,
// and notification dispatch.
//
// A Session owns one receive goroutine. Notification handlers run on that
// goroutine so handlers observe notifications in arrival order; they must
// not block. Requests may be issued from any goroutine.
package rpc
