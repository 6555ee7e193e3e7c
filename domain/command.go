package domain

import "war-room/domain/event"

// Command is the exhaustive union of operations a room processes, one
// at a time, from its mailbox. The room worker owns the single dispatch
// point over these types.
type Command interface {
	isCommand()
}

// JoinResult is the room's answer to a Join command.
type JoinResult int

const (
	JoinAdmitted JoinResult = iota
	JoinBlocked
	JoinAlreadyJoined
)

// Join asks the room to admit a member and register their delivery
// handle. The answer is sent on Reply, which must be buffered: the room
// never blocks on a slow or departed caller.
type Join struct {
	Username string
	Sink     event.Sink
	Reply    chan JoinResult
}

// Talk broadcasts a text message from a current member.
type Talk struct {
	Username string
	Text     string
}

// Quit removes a member's delivery handle. The last quit closes the
// room.
type Quit struct {
	Username string
}

// ViewHistory delivers the rendered history privately to the requester.
type ViewHistory struct {
	Username string
}

// SearchHistory runs a substring search over the rendered history and
// delivers the highlighted result privately to the requester.
type SearchHistory struct {
	Username string
	Pattern  string
}

// SaveChat persists the room if it was never saved or changed since the
// last save, and reports the outcome privately to the requester.
type SaveChat struct {
	Username string
}

// Close terminates the room: remaining members are quit, a best-effort
// snapshot is written, and the room deregisters itself. Idempotent.
type Close struct{}

func (Join) isCommand()          {}
func (Talk) isCommand()          {}
func (Quit) isCommand()          {}
func (ViewHistory) isCommand()   {}
func (SearchHistory) isCommand() {}
func (SaveChat) isCommand()      {}
func (Close) isCommand()         {}
