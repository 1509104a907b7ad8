package command

// InboundMessage is one chat message as seen by the handler.
type InboundMessage struct {
	Sender         string
	Body           string
	ConversationID int64
	IsSelf         bool
}

// OutboundMessage is a reply to deliver into ConversationID.
type OutboundMessage struct {
	ConversationID int64
	Body           string
}

// Identity is how the bot recognizes its own messages and the room it serves.
// A zero RoomID accepts every conversation.
type Identity struct {
	Nickname string
	RoomID   int64
}
