package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeTagLayout is the human-readable timestamp attached to every chat
// record.
const TimeTagLayout = "2006-01-02 15:04:05"

// ChatRecord is one immutable entry of a room's history.
type ChatRecord struct {
	ID       uuid.UUID
	TimeTag  string
	Username string
	Text     string
}

func NewChatRecord(at time.Time, username, text string) ChatRecord {
	return ChatRecord{
		ID:       uuid.New(),
		TimeTag:  at.Format(TimeTagLayout),
		Username: username,
		Text:     text,
	}
}
