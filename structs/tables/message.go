package tables

import "time"

type MessageType string

const (
	MessageIncoming    MessageType = "incoming"
	MessageOutgoing    MessageType = "outgoing"
	MessageButtonReply MessageType = "button_reply"
)

// Message is an append-only audit row for the conversational channel.
type Message struct {
	tableName  struct{}    `bun:"table:messages,alias:m"`
	Id         int64       `bun:"id,pk,autoincrement" json:"id"`
	Phone      string      `bun:"phone,notnull" json:"phone"`
	UserId     *int64      `bun:"user_id" json:"user_id,omitempty"`
	Body       string      `bun:"body,notnull" json:"body"`
	Type       MessageType `bun:"type,notnull" json:"type"`
	MessageSid string      `bun:"message_sid" json:"message_sid,omitempty"`
	CreatedAt  time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
