package issues

import "fmt"

// Kind classifies why a lookup failed.
type Kind int

const (
	// KindRequest means the outbound request could not be built.
	KindRequest Kind = iota + 1
	// KindTransport covers connection, DNS and timeout failures.
	KindTransport
	// KindNotFound is a 404 from the tracker.
	KindNotFound
	// KindStatus is any other non-2xx response.
	KindStatus
	// KindDecode means the body was not a usable issue object.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request_error"
	case KindTransport:
		return "transport_error"
	case KindNotFound:
		return "not_found"
	case KindStatus:
		return "status_error"
	case KindDecode:
		return "decode_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// LookupError is the single failure type returned by Client.Lookup.
// Error returns a human-readable cause suitable for showing in a chat room.
type LookupError struct {
	Kind       Kind
	IssueID    int
	StatusCode int
	Message    string
	Err        error
}

func (e *LookupError) Error() string {
	return e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, id int, message string, cause error) *LookupError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	if message == "" {
		message = kind.String()
	}
	return &LookupError{Kind: kind, IssueID: id, Message: message, Err: cause}
}
