package runtime

import (
	"fmt"
	"strings"

	"war-room/contract"
	"war-room/domain"
	"war-room/domain/event"
)

// Session binds one admitted member to one live room. The transport
// layer owns a session per connection and feeds it the member's inbound
// events; outbound delivery goes through the sink registered at join.
type Session struct {
	username string
	handle   contract.RoomHandle
}

func (s *Session) Username() string { return s.username }

func (s *Session) Room() contract.RoomHandle { return s.handle }

// Receive translates one inbound member event into a room command and
// enqueues it. Delivery fails with ErrRoomClosed once the room is gone.
func (s *Session) Receive(e event.Inbound) error {
	switch e.Kind {
	case event.InboundText:
		return s.handle.Deliver(domain.Talk{Username: s.username, Text: e.Text})
	case event.InboundViewHistory:
		return s.handle.Deliver(domain.ViewHistory{Username: s.username})
	case event.InboundSearchHistory:
		return s.handle.Deliver(domain.SearchHistory{
			Username: s.username,
			Pattern:  strings.TrimSpace(e.Text),
		})
	case event.InboundSaveChat:
		return s.handle.Deliver(domain.SaveChat{Username: s.username})
	default:
		return fmt.Errorf("unknown inbound event kind %q", e.Kind)
	}
}

// Leave quits the room. The session is invalid afterwards.
func (s *Session) Leave() error {
	return s.handle.Deliver(domain.Quit{Username: s.username})
}
