// Package kv provides the committed key-value mapping for simpledb.
//
// The store keeps two structures in lockstep:
//   - entries: key -> value, at most one value per key
//   - counts: value -> number of keys currently holding that value
//
// A value whose count drops to zero is removed from counts, so CountEqualTo
// is a single map lookup. The store has no notion of transactions; the txn
// package layers undo logging on top of it through the txn.State interface.
//
// A Store is not safe for concurrent use. simpledb processes one command at a
// time and the engine owns the only instance.
package kv
