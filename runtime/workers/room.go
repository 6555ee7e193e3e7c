package workers

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"war-room/contract"
	"war-room/domain"
	"war-room/domain/event"
	"war-room/errors"
	"war-room/moderation"
	"war-room/search"
)

// Compile-time assertions of the worker's two roles: a supervised
// actor loop and the handle the rest of the system talks to.
var (
	_ contract.Worker     = (*RoomWorker)(nil)
	_ contract.RoomHandle = (*RoomWorker)(nil)
)

// RoomWorker is the per-room actor. It exclusively owns its Room and
// the member->sink map, and processes one command at a time from a
// FIFO mailbox, so no message overtakes an earlier one and no locking
// is needed inside a room.
type RoomWorker struct {
	room      *domain.Room
	mailbox   chan domain.Command
	done      chan struct{}
	members   map[string]event.Sink
	store     contract.RoomStore
	registry  contract.IRegistry
	moderator *moderation.Moderator
	log       *slog.Logger
	now       func() time.Time

	// Read by the reaper and admin listings without entering the
	// mailbox, hence atomic.
	lastActivity atomic.Int64
	memberCount  atomic.Int32

	closed bool
}

// NewRoomWorker builds the actor for a room. The moderator is optional;
// nil disables censoring.
func NewRoomWorker(
	room *domain.Room,
	store contract.RoomStore,
	registry contract.IRegistry,
	moderator *moderation.Moderator,
	mailboxSize int,
	log *slog.Logger,
) *RoomWorker {
	w := &RoomWorker{
		room:      room,
		mailbox:   make(chan domain.Command, mailboxSize),
		done:      make(chan struct{}),
		members:   make(map[string]event.Sink),
		store:     store,
		registry:  registry,
		moderator: moderator,
		log:       log,
		now:       time.Now,
	}
	w.lastActivity.Store(w.now().UnixNano())
	return w
}

func (w *RoomWorker) ID() domain.RoomID { return w.room.ID }

func (w *RoomWorker) Name() string { return w.room.Name }

func (w *RoomWorker) MemberCount() int { return int(w.memberCount.Load()) }

// LastActivity is the single source of truth for idle reclamation:
// every processed command refreshes it.
func (w *RoomWorker) LastActivity() time.Time {
	return time.Unix(0, w.lastActivity.Load())
}

// Deliver enqueues one command into the mailbox. Once the room closed
// the handle is invalid and Deliver fails instead of blocking forever.
// The closed check runs on its own first: in a single select with a
// free mailbox slot both cases are ready and the runtime picks one at
// random, which would let a post-close delivery slip through.
func (w *RoomWorker) Deliver(cmd domain.Command) error {
	select {
	case <-w.done:
		return errors.ErrRoomClosed
	default:
	}
	select {
	case <-w.done:
		return errors.ErrRoomClosed
	case w.mailbox <- cmd:
		return nil
	}
}

// Run drains the mailbox until the room closes. A nil return tells the
// supervisor the room finished for good and must not be restarted.
// Close is advisory within the mailbox: commands enqueued before it
// are still processed first.
func (w *RoomWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("shutdown, closing room", "room", w.room.ID)
			w.handleClose(ctx)
			return nil
		case cmd := <-w.mailbox:
			w.touch()
			if w.dispatch(ctx, cmd) {
				return nil
			}
		}
	}
}

// dispatch is the single point where command kinds meet their
// handlers. It reports whether the room reached its terminal state.
func (w *RoomWorker) dispatch(ctx context.Context, cmd domain.Command) bool {
	switch c := cmd.(type) {
	case domain.Join:
		w.handleJoin(ctx, c)
	case domain.Talk:
		w.handleTalk(ctx, c)
	case domain.Quit:
		return w.handleQuit(ctx, c)
	case domain.ViewHistory:
		w.handleViewHistory(ctx, c)
	case domain.SearchHistory:
		w.handleSearchHistory(ctx, c)
	case domain.SaveChat:
		w.handleSaveChat(ctx, c)
	case domain.Close:
		return w.handleClose(ctx)
	default:
		w.log.Warn("unhandled command", "room", w.room.ID, "command", cmd)
	}
	return false
}

func (w *RoomWorker) handleJoin(ctx context.Context, c domain.Join) {
	if !w.room.Admit(c.Username) {
		answer(c.Reply, domain.JoinBlocked)
		return
	}
	if _, ok := w.members[c.Username]; ok {
		answer(c.Reply, domain.JoinAlreadyJoined)
		return
	}

	answer(c.Reply, domain.JoinAdmitted)
	w.members[c.Username] = c.Sink
	w.memberCount.Store(int32(len(w.members)))

	text := "has joined this room."
	w.room.Append(domain.NewChatRecord(w.now(), c.Username, text))
	w.broadcast(ctx, event.KindJoin, c.Username, text)
	w.log.Info("member joined", "room", w.room.ID, "username", c.Username, "members", len(w.members))
}

func (w *RoomWorker) handleTalk(ctx context.Context, c domain.Talk) {
	if _, ok := w.members[c.Username]; !ok {
		// A transport race can deliver a stray message after quit.
		w.log.Warn("talk from a non-member dropped", "room", w.room.ID, "username", c.Username)
		return
	}

	text := c.Text
	if w.moderator != nil {
		text, _ = w.moderator.Censor(text)
	}
	w.room.Append(domain.NewChatRecord(w.now(), c.Username, text))
	w.broadcast(ctx, event.KindTalk, c.Username, text)
}

func (w *RoomWorker) handleQuit(ctx context.Context, c domain.Quit) bool {
	if _, ok := w.members[c.Username]; !ok {
		w.log.Debug("quit from a non-member ignored", "room", w.room.ID, "username", c.Username)
		return false
	}

	delete(w.members, c.Username)
	w.memberCount.Store(int32(len(w.members)))

	text := "has left this room."
	w.room.Append(domain.NewChatRecord(w.now(), c.Username, text))
	w.broadcast(ctx, event.KindQuit, c.Username, text)
	w.log.Info("member left", "room", w.room.ID, "username", c.Username, "members", len(w.members))

	if len(w.members) == 0 {
		return w.handleClose(ctx)
	}
	return false
}

func (w *RoomWorker) handleViewHistory(ctx context.Context, c domain.ViewHistory) {
	w.notifyUser(ctx, c.Username, event.Outbound{
		Key:      event.KeyHistory,
		Username: c.Username,
		Text:     w.room.Transcript(),
	})
}

func (w *RoomWorker) handleSearchHistory(ctx context.Context, c domain.SearchHistory) {
	rendered, matches, err := search.Highlight(w.room.Transcript(), c.Pattern)
	if err != nil {
		w.notifyUser(ctx, c.Username, event.Outbound{
			Key:      event.KeySearchHistory,
			Kind:     event.KindError,
			Username: c.Username,
			Text:     err.Error(),
		})
		return
	}
	w.notifyUser(ctx, c.Username, event.Outbound{
		Key:        event.KeySearchHistory,
		Username:   c.Username,
		Text:       rendered,
		NumOfMatch: lo.ToPtr(matches),
	})
}

func (w *RoomWorker) handleSaveChat(ctx context.Context, c domain.SaveChat) {
	if w.room.Saved && !w.room.Updated {
		w.notifyUser(ctx, c.Username, saved("No updates made since last save."))
		return
	}

	// The snapshot carries the post-save flags so a resumed room starts
	// clean; they are rolled back if the write fails.
	prevSaved := w.room.Saved
	w.room.Saved, w.room.Updated = true, false
	if err := w.store.Save(w.room); err != nil {
		w.room.Saved = prevSaved
		w.log.Error("room snapshot save failed", "room", w.room.ID, "error", err)
		w.notifyUser(ctx, c.Username, saved("Failed to save chat: "+err.Error()))
		return
	}
	w.notifyUser(ctx, c.Username, saved("Chat has been saved successfully!"))
}

// handleClose quits every remaining member, writes a best-effort
// snapshot and deregisters the room. Idempotent; reclaiming the room
// takes priority over durability.
func (w *RoomWorker) handleClose(ctx context.Context) bool {
	if w.closed {
		return true
	}

	usernames := lo.Keys(w.members)
	sort.Strings(usernames)
	for _, username := range usernames {
		delete(w.members, username)
		text := "has left this room."
		w.room.Append(domain.NewChatRecord(w.now(), username, text))
		w.broadcast(ctx, event.KindQuit, username, text)
	}
	w.memberCount.Store(0)

	w.room.Saved, w.room.Updated = true, false
	if err := w.store.Save(w.room); err != nil {
		w.log.Error("final snapshot save failed, room reclaimed anyway", "room", w.room.ID, "error", err)
	}

	w.registry.Remove(w.room.ID)
	w.closed = true
	close(w.done)
	w.log.Info("room closed", "room", w.room.ID)
	return true
}

// broadcast delivers a text event, roster included, to every current
// member. A failed delivery is a stale membership, not a room failure.
func (w *RoomWorker) broadcast(ctx context.Context, kind, username, text string) {
	roster := lo.Keys(w.members)
	sort.Strings(roster)
	e := event.Outbound{
		Key:      event.KeyText,
		Kind:     kind,
		Username: username,
		Text:     text,
		Members:  roster,
	}
	for name, sink := range w.members {
		if err := sink.Consume(ctx, e); err != nil {
			w.log.Warn("member delivery failed", "room", w.room.ID, "username", name, "error", err)
		}
	}
}

// notifyUser delivers an event privately to one member.
func (w *RoomWorker) notifyUser(ctx context.Context, username string, e event.Outbound) {
	sink, ok := w.members[username]
	if !ok {
		w.log.Warn("member channel is lost", "room", w.room.ID, "username", username)
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		w.log.Warn("member delivery failed", "room", w.room.ID, "username", username, "error", err)
	}
}

func (w *RoomWorker) touch() {
	w.lastActivity.Store(w.now().UnixNano())
}

// answer never blocks: the reply channel is buffered and a caller that
// timed out simply misses the answer.
func answer(reply chan domain.JoinResult, result domain.JoinResult) {
	if reply == nil {
		return
	}
	select {
	case reply <- result:
	default:
	}
}

func saved(text string) event.Outbound {
	return event.Outbound{Key: event.KeyChatSaved, Text: text}
}
