package consult

import (
	"context"
	"encoding/gob"
	"time"

	"github.com/adermis/adermis/internal/models"
	"github.com/alexedwards/scs/v2"
)

const messagesSessionKey = "consult.messages"

func init() {
	gob.Register([]models.ChatMessage{})
}

// Log is the session-scoped chat transcript. Messages are append-only until
// the visitor leaves the page, which clears the transcript.
type Log struct {
	sessions *scs.SessionManager
}

func NewLog(sessions *scs.SessionManager) *Log {
	return &Log{sessions: sessions}
}

func (l *Log) Messages(ctx context.Context) []models.ChatMessage {
	messages, ok := l.sessions.Get(ctx, messagesSessionKey).([]models.ChatMessage)
	if !ok {
		return nil
	}
	return messages
}

func (l *Log) Append(ctx context.Context, sender models.MessageSender, text string) models.ChatMessage {
	message := models.ChatMessage{
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().Format("15:04"),
	}
	l.sessions.Put(ctx, messagesSessionKey, append(l.Messages(ctx), message))
	return message
}

func (l *Log) Clear(ctx context.Context) {
	l.sessions.Remove(ctx, messagesSessionKey)
}
