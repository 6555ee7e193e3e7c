// Package event defines the wire-shaped events exchanged with connected
// members. The transport that frames them (websocket, gRPC stream, ...)
// lives outside this module; the core only produces Outbound events and
// consumes Inbound ones.
package event

import "context"

// Outbound event keys.
const (
	KeyText          = "text"
	KeyHistory       = "history"
	KeySearchHistory = "searchhistory"
	KeyChatSaved     = "chatsaved"
)

// Kinds sub-classifying KeyText broadcasts, plus the error kind used
// when a request is rejected back to its requester.
const (
	KindJoin  = "join"
	KindTalk  = "talk"
	KindQuit  = "quit"
	KindError = "error"
)

// Inbound event kinds, one per member message.
const (
	InboundText          = "text"
	InboundViewHistory   = "viewhistory"
	InboundSearchHistory = "searchchathistory"
	InboundSaveChat      = "savechat"
)

// Outbound is one event delivered to a connected member.
type Outbound struct {
	Key        string   `json:"key"`
	Kind       string   `json:"kind,omitempty"`
	Username   string   `json:"username,omitempty"`
	Text       string   `json:"text"`
	Members    []string `json:"members,omitempty"`
	NumOfMatch *int     `json:"numofmatch,omitempty"`
}

// Inbound is one event received from a connected member.
type Inbound struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Sink is the outbound delivery handle of one connected member. It is
// exclusively owned by that member's session; a failed Consume is
// non-fatal to the room and surfaces as a stale membership cleaned up
// on the member's next Quit.
type Sink interface {
	Consume(ctx context.Context, e Outbound) error
}
