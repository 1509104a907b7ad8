package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/issuebot/internal/issues"
)

// OutcomeFound is the LookupEvent outcome for a resolved issue.
const OutcomeFound = "found"

// Lookuper resolves an issue number. *issues.Client implements it.
type Lookuper interface {
	Lookup(ctx context.Context, id int) (issues.Issue, error)
}

// LookupEvent describes one completed lookup. It carries no message text or sender.
type LookupEvent struct {
	IssueID  int
	Outcome  string
	Duration time.Duration
	At       time.Time
}

// Observer is notified after every lookup. It must not block for long.
type Observer interface {
	ObserveLookup(ctx context.Context, event LookupEvent)
}

// Handler maps inbound messages to at most one reply each.
// It keeps no per-message state and is safe for concurrent use.
type Handler struct {
	identity Identity
	lookup   Lookuper
	observer Observer
	log      *slog.Logger
	now      func() time.Time
}

// Option customizes a Handler.
type Option func(*Handler)

// WithObserver registers an observer for completed lookups.
func WithObserver(o Observer) Option {
	return func(h *Handler) {
		h.observer = o
	}
}

// NewHandler creates a Handler for the bot identified by identity.
func NewHandler(identity Identity, lookup Lookuper, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Handler{
		identity: identity,
		lookup:   lookup,
		log:      logger.With("component", "command_handler"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Identity returns the identity the handler filters on.
func (h *Handler) Identity() Identity {
	return h.identity
}

// Handle processes msg and returns the reply to send, if any.
// Messages from the bot itself, from other rooms, or without the command
// prefix produce no reply. Every other message produces exactly one.
func (h *Handler) Handle(ctx context.Context, msg InboundMessage) (OutboundMessage, bool) {
	if msg.IsSelf || (h.identity.Nickname != "" && msg.Sender == h.identity.Nickname) {
		return OutboundMessage{}, false
	}
	if h.identity.RoomID != 0 && msg.ConversationID != h.identity.RoomID {
		return OutboundMessage{}, false
	}

	cmd, ok := Parse(msg.Body)
	if !ok {
		return OutboundMessage{}, false
	}

	reply := OutboundMessage{ConversationID: msg.ConversationID}
	log := h.log.With("conversation_id", msg.ConversationID, "sender", msg.Sender)

	if cmd.Kind == KindMalformed {
		log.InfoContext(ctx, "Received malformed issue number", "raw", cmd.Raw)
		reply.Body = FormatMalformed(msg.Sender, cmd.Raw)
		return reply, true
	}

	log.InfoContext(ctx, "Looking up issue", "issue_id", cmd.IssueID)
	start := h.now()
	issue, err := h.lookup.Lookup(ctx, cmd.IssueID)
	duration := h.now().Sub(start)

	h.notify(ctx, LookupEvent{
		IssueID:  cmd.IssueID,
		Outcome:  outcome(err),
		Duration: duration,
		At:       start.UTC(),
	})

	if err != nil {
		log.WarnContext(ctx, "Issue lookup failed", "issue_id", cmd.IssueID, "error", err, "duration", duration)
		reply.Body = FormatLookupError(msg.Sender, err)
		return reply, true
	}

	log.InfoContext(ctx, "Issue lookup succeeded", "issue_id", cmd.IssueID, "state", issue.State, "duration", duration)
	reply.Body = FormatIssue(msg.Sender, issue)
	return reply, true
}

func (h *Handler) notify(ctx context.Context, event LookupEvent) {
	if h.observer == nil {
		return
	}
	h.observer.ObserveLookup(ctx, event)
}

func outcome(err error) string {
	if err == nil {
		return OutcomeFound
	}
	var lookupErr *issues.LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind.String()
	}
	return "error"
}
