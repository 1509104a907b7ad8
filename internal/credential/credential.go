// Package credential loads the issue tracker token used to authenticate lookups.
// The token is read once at startup and never leaves the process in formatted output.
package credential

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const redacted = "[REDACTED]"

// ErrEmpty is returned when the credential file holds no token.
var ErrEmpty = errors.New("credential is empty")

// Token is an opaque bearer token. All of its formatted forms are redacted,
// so it is safe to pass to loggers and fmt verbs.
type Token struct {
	value string
}

// New wraps a raw token value.
func New(value string) Token {
	return Token{value: value}
}

// Load reads a single-line token from path. Trailing newlines and surrounding
// whitespace are stripped.
func Load(path string) (Token, error) {
	if path == "" {
		return Token{}, fmt.Errorf("credential file path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Token{}, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	value := strings.TrimSpace(strings.TrimRight(string(data), "\r\n"))
	if value == "" {
		return Token{}, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	return Token{value: value}, nil
}

// Reveal returns the raw token. Only the HTTP layer should call it.
func (t Token) Reveal() string {
	return t.value
}

// IsZero reports whether no token is set.
func (t Token) IsZero() bool {
	return t.value == ""
}

func (t Token) String() string {
	return redacted
}

func (t Token) GoString() string {
	return "credential.Token{" + redacted + "}"
}

// LogValue keeps the token out of structured logs.
func (t Token) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
