package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		want   Command
		wantOK bool
	}{
		{name: "plain number", body: "#42", want: Command{Kind: KindLookup, IssueID: 42, Raw: "42"}, wantOK: true},
		{name: "zero", body: "#0", want: Command{Kind: KindLookup, IssueID: 0, Raw: "0"}, wantOK: true},
		{name: "leading zeros", body: "#007", want: Command{Kind: KindLookup, IssueID: 7, Raw: "007"}, wantOK: true},
		{name: "surrounding spaces", body: "# 12 ", want: Command{Kind: KindLookup, IssueID: 12, Raw: " 12 "}, wantOK: true},
		{name: "letters", body: "#abc", want: Command{Kind: KindMalformed, Raw: "abc"}, wantOK: true},
		{name: "empty argument", body: "#", want: Command{Kind: KindMalformed, Raw: ""}, wantOK: true},
		{name: "negative", body: "#-5", want: Command{Kind: KindMalformed, Raw: "-5"}, wantOK: true},
		{name: "explicit plus", body: "#+5", want: Command{Kind: KindMalformed, Raw: "+5"}, wantOK: true},
		{name: "hex", body: "#0x1F", want: Command{Kind: KindMalformed, Raw: "0x1F"}, wantOK: true},
		{name: "trailing text", body: "#42 please", want: Command{Kind: KindMalformed, Raw: "42 please"}, wantOK: true},
		{name: "overflow", body: "#99999999999999999999", want: Command{Kind: KindMalformed, Raw: "99999999999999999999"}, wantOK: true},
		{name: "no prefix", body: "hello", wantOK: false},
		{name: "prefix not at start", body: "see #42", wantOK: false},
		{name: "empty body", body: "", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Parse(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`alice, "abc" doesn't look like a number. I couldn't lookup that issue for you.`,
		FormatMalformed("alice", "abc"))

	assert.Equal(t,
		`bob, "say "hi"" doesn't look like a number. I couldn't lookup that issue for you.`,
		FormatMalformed("bob", `say "hi"`))

	assert.Equal(t,
		"alice, the issue lookup failed. Error message: unknown error",
		FormatLookupError("alice", nil))
}
