// Package protocol parses simpledb's line-oriented command language.
//
// A line is split on whitespace; there is no quoting, so keys and values can
// never contain spaces. Lines with the wrong token count or an unknown
// command word parse as KindInvalid and are ignored by the engine.
package protocol

import (
	"strings"
)

// Kind identifies a command.
type Kind int

const (
	KindInvalid Kind = iota
	KindSet
	KindGet
	KindUnset
	KindNumEqualTo
	KindBegin
	KindRollback
	KindCommit
	KindEnd
)

var kindNames = map[Kind]string{
	KindInvalid:    "INVALID",
	KindSet:        "SET",
	KindGet:        "GET",
	KindUnset:      "UNSET",
	KindNumEqualTo: "NUMEQUALTO",
	KindBegin:      "BEGIN",
	KindRollback:   "ROLLBACK",
	KindCommit:     "COMMIT",
	KindEnd:        "END",
}

// arity is the required token count, command word included.
var arity = map[string]struct {
	kind   Kind
	tokens int
}{
	"SET":        {KindSet, 3},
	"GET":        {KindGet, 2},
	"UNSET":      {KindUnset, 2},
	"NUMEQUALTO": {KindNumEqualTo, 2},
	"BEGIN":      {KindBegin, 1},
	"ROLLBACK":   {KindRollback, 1},
	"COMMIT":     {KindCommit, 1},
	"END":        {KindEnd, 1},
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Mutating reports whether the command changes the store.
func (k Kind) Mutating() bool {
	return k == KindSet || k == KindUnset
}

// Command is one parsed line.
//
// Key is set for SET, GET and UNSET. Value is set for SET and NUMEQUALTO.
type Command struct {
	Kind  Kind
	Key   string
	Value string
}

// Parse converts a token sequence into a Command.
// An empty token sequence is KindEnd: a blank line stops processing.
func Parse(tokens []string) Command {
	if len(tokens) == 0 {
		return Command{Kind: KindEnd}
	}
	rule, ok := arity[tokens[0]]
	if !ok || len(tokens) != rule.tokens {
		return Command{Kind: KindInvalid}
	}

	cmd := Command{Kind: rule.kind}
	switch rule.kind {
	case KindSet:
		cmd.Key, cmd.Value = tokens[1], tokens[2]
	case KindGet, KindUnset:
		cmd.Key = tokens[1]
	case KindNumEqualTo:
		cmd.Value = tokens[1]
	}
	return cmd
}

// ParseLine tokenizes line on whitespace and parses it.
func ParseLine(line string) Command {
	return Parse(strings.Fields(line))
}

// String renders the command back in wire form.
func (c Command) String() string {
	switch c.Kind {
	case KindSet:
		return "SET " + c.Key + " " + c.Value
	case KindGet, KindUnset:
		return c.Kind.String() + " " + c.Key
	case KindNumEqualTo:
		return "NUMEQUALTO " + c.Value
	default:
		return c.Kind.String()
	}
}
