// Package domain contains the core concepts of the chat system: rooms,
// chat records and the commands a room processes. No runtime, storage
// or transport logic lives here.
package domain

import (
	"sort"
	"strings"
)

type RoomID int64

// RoomInfo is the read-only view of a live room used by administrative
// listings.
type RoomInfo struct {
	ID      RoomID `json:"id"`
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Room is one conversation instance: a fixed invite list and a growing
// history. A Room is exclusively owned by its room worker; nothing else
// may mutate it.
type Room struct {
	ID      RoomID
	Name    string
	Invited []string // sorted once at creation, admission only
	History []ChatRecord

	// Saved reports whether a snapshot was ever written in this
	// session; Updated whether the room changed since the last save.
	Saved   bool
	Updated bool
}

// NewRoom builds a fresh room. The invite list is copied and sorted so
// admission can binary search it; it is never mutated afterwards.
func NewRoom(id RoomID, name string, invited []string) *Room {
	members := append([]string(nil), invited...)
	sort.Strings(members)
	return &Room{
		ID:      id,
		Name:    name,
		Invited: members,
	}
}

// Admit reports whether username is on the invite list.
func (r *Room) Admit(username string) bool {
	i := sort.SearchStrings(r.Invited, username)
	return i < len(r.Invited) && r.Invited[i] == username
}

// Append adds one record to the history and marks the room dirty.
// Arrival order is total order: records are only ever appended.
func (r *Room) Append(rec ChatRecord) {
	r.History = append(r.History, rec)
	r.Updated = true
}

// Transcript renders the full ordered history as formatted text, the
// form shown by view-history and scanned by history search.
func (r *Room) Transcript() string {
	var sb strings.Builder
	for _, rec := range r.History {
		sb.WriteString("<span>")
		sb.WriteString(rec.Username)
		sb.WriteString("</span><span>")
		sb.WriteString(rec.TimeTag)
		sb.WriteString("</span><p>")
		sb.WriteString(rec.Text)
		sb.WriteString("</p>")
	}
	return sb.String()
}
