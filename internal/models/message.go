package models

// MessageSender identifies who wrote a chat message.
type MessageSender string

const (
	MessageSenderUser MessageSender = "user"
	MessageSenderAI   MessageSender = "ai"
)

// ChatMessage is one entry in the women's-health consultation log. Messages
// are only ever appended and the whole log is discarded when the user leaves
// the consultation.
type ChatMessage struct {
	Sender    MessageSender
	Text      string
	Timestamp string
}
