// Package command turns chat messages into issue lookups and formats the replies.
// It holds no transport code: callers convert their events to InboundMessage
// and deliver the returned OutboundMessage themselves.
package command

import (
	"strconv"
	"strings"
)

// Prefix marks a message as an issue lookup request.
const Prefix = "#"

// Kind distinguishes parsed commands.
type Kind int

const (
	KindLookup Kind = iota + 1
	KindMalformed
)

// Command is the parsed form of a message body.
type Command struct {
	Kind    Kind
	IssueID int
	// Raw is the text after the prefix, exactly as received.
	Raw string
}

// Parse reports whether body is a command and, if so, what it asks for.
// The argument must be a base-10 non-negative integer; surrounding whitespace
// is tolerated, signs are not.
func Parse(body string) (Command, bool) {
	raw, ok := strings.CutPrefix(body, Prefix)
	if !ok {
		return Command{}, false
	}

	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 31)
	if err != nil {
		return Command{Kind: KindMalformed, Raw: raw}, true
	}
	return Command{Kind: KindLookup, IssueID: int(id), Raw: raw}, true
}
