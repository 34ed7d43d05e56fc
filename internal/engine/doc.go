// Package engine executes simpledb commands against one store and session stack.
//
// The engine owns a kv.Store and a txn.Stack and is the only code that
// touches them. Commands are processed strictly one at a time:
//
//  1. Run reads a line and parses it with the protocol package.
//  2. Execute stamps the command with the next logical seq.
//  3. Mutations (SET, UNSET) are recorded in the innermost session, if any,
//     and then applied to the store.
//  4. Output lines are written to the sink and the Observer (if configured)
//     receives an Event describing the command.
//
// Malformed lines are ignored. A blank line, END, or end of input stops Run.
// The engine is not safe for concurrent use; a multi-client front end would
// need to serialize access to the whole engine.
package engine
