package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoom_Admit(t *testing.T) {
	req := require.New(t)

	// Given an unsorted invite list
	room := NewRoom(1, "ops", []string{"zoe@mail.io", "alice@mail.io", "bob@mail.io"})

	// Then the list is sorted once and admission finds every invitee
	req.Equal([]string{"alice@mail.io", "bob@mail.io", "zoe@mail.io"}, room.Invited)
	req.True(room.Admit("alice@mail.io"))
	req.True(room.Admit("zoe@mail.io"))
	req.False(room.Admit("mallory@mail.io"))
}

func TestRoom_AdmitEmptyInviteList(t *testing.T) {
	req := require.New(t)
	room := NewRoom(1, "empty", nil)
	req.False(room.Admit("alice@mail.io"))
}

func TestRoom_InviteListNotAliased(t *testing.T) {
	req := require.New(t)

	invited := []string{"bob@mail.io", "alice@mail.io"}
	room := NewRoom(1, "ops", invited)

	// When the caller's slice is mutated afterwards
	invited[0] = "mallory@mail.io"

	// Then admission is unaffected
	req.True(room.Admit("bob@mail.io"))
	req.False(room.Admit("mallory@mail.io"))
}

func TestRoom_AppendMarksDirty(t *testing.T) {
	req := require.New(t)

	room := NewRoom(1, "ops", []string{"alice@mail.io"})
	req.False(room.Updated)

	// When a record is appended
	room.Append(NewChatRecord(time.Now(), "alice@mail.io", "hello"))

	// Then the room is dirty until the next save
	req.True(room.Updated)
	req.Len(room.History, 1)
}

func TestRoom_TranscriptOrderAndFormat(t *testing.T) {
	req := require.New(t)

	room := NewRoom(1, "ops", []string{"alice@mail.io"})
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	room.Append(NewChatRecord(at, "alice@mail.io", "first"))
	room.Append(NewChatRecord(at.Add(time.Minute), "alice@mail.io", "second"))

	transcript := room.Transcript()

	// Then each record renders as user, time tag, text, in append order
	req.Equal(
		"<span>alice@mail.io</span><span>2026-08-30 10:00:00</span><p>first</p>"+
			"<span>alice@mail.io</span><span>2026-08-30 10:01:00</span><p>second</p>",
		transcript,
	)
}

func TestNewChatRecord(t *testing.T) {
	req := require.New(t)

	at := time.Date(2026, 8, 30, 23, 59, 1, 0, time.UTC)
	rec := NewChatRecord(at, "bob@mail.io", "hi")

	req.Equal("2026-08-30 23:59:01", rec.TimeTag)
	req.Equal("bob@mail.io", rec.Username)
	req.Equal("hi", rec.Text)
	req.NotEqual(rec.ID, NewChatRecord(at, "bob@mail.io", "hi").ID)
}
