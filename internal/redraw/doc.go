// Package redraw decodes the engine's "redraw" notification batches into
// typed state-mutation events.
//
// A batch is an ordered list of records, each [event_name, arg_tuple...];
// one record may carry several argument tuples, all applied in order. The
// vocabulary is additive across engine versions: names this package does
// not know decode to Unknown and are skipped by the store, never treated
// as an error.
package redraw
