package runtime

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"war-room/contract"
	"war-room/domain"
	"war-room/domain/event"
	"war-room/errors"
	"war-room/moderation"
	"war-room/runtime/workers"
)

// CreateRoomRequest carries everything needed to open a room. The
// initiator is always part of the invite list.
type CreateRoomRequest struct {
	Name      string   `validate:"required"`
	Initiator string   `validate:"required,email"`
	Members   []string `validate:"required,min=1,dive,email"`
}

// Service is the collaborator-facing entry point: it creates rooms,
// attaches member sessions to live or persisted rooms, and runs the
// background workers under supervision.
type Service struct {
	log          *slog.Logger
	registry     *Registry
	store        contract.RoomStore
	supervisor   contract.ISupervisor
	moderator    *moderation.Moderator
	validate     *validator.Validate
	joinTimeout  time.Duration
	bufferSize   int
	roomsPerPage int

	probeInterval     time.Duration
	idleMax           time.Duration
	telemetryInterval time.Duration

	// runCtx is the supervision context; rooms created after Start join
	// it so Stop tears them all down.
	runCtx context.Context
}

type ServiceConfig struct {
	JoinTimeout       time.Duration
	BufferSize        int
	RoomsPerPage      int
	ProbeInterval     time.Duration
	IdleMax           time.Duration
	TelemetryInterval time.Duration
}

func NewService(
	log *slog.Logger,
	registry *Registry,
	store contract.RoomStore,
	supervisor contract.ISupervisor,
	moderator *moderation.Moderator,
	cfg ServiceConfig,
) *Service {
	return &Service{
		log:               log,
		registry:          registry,
		store:             store,
		supervisor:        supervisor,
		moderator:         moderator,
		validate:          validator.New(),
		joinTimeout:       cfg.JoinTimeout,
		bufferSize:        cfg.BufferSize,
		roomsPerPage:      cfg.RoomsPerPage,
		probeInterval:     cfg.ProbeInterval,
		idleMax:           cfg.IdleMax,
		telemetryInterval: cfg.TelemetryInterval,
		runCtx:            context.Background(),
	}
}

// Start registers the background workers and blocks supervising them
// until ctx is canceled or Stop is called. Rooms created before Start
// are not supervised; call Start first.
func (s *Service) Start(ctx context.Context) {
	s.runCtx = ctx
	s.supervisor.Add(
		workers.NewReaper(s.registry, s.probeInterval, s.idleMax, s.log),
		workers.NewTelemetryWorker(s.registry, s.telemetryInterval, s.log),
	)
	s.supervisor.Run(ctx)
}

func (s *Service) Stop() {
	s.supervisor.Stop()
}

// CreateRoom opens a fresh room with a unique id and starts its actor
// under supervision. The invite list is the deduplicated union of the
// members and the initiator.
func (s *Service) CreateRoom(req CreateRoomRequest) (domain.RoomID, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, err
	}

	invited := lo.Uniq(append(append([]string(nil), req.Members...), req.Initiator))

	// Collisions on a 63-bit id are vanishingly rare; the registry's
	// duplicate refusal makes the retry loop correct anyway.
	for {
		id := domain.RoomID(rand.Int64())
		room := domain.NewRoom(id, req.Name, invited)
		w := workers.NewRoomWorker(room, s.store, s.registry, s.moderator, s.bufferSize, s.log)
		if !s.registry.Put(w) {
			continue
		}
		s.supervisor.Start(s.runCtx, w)
		s.log.Info("room created", "room", id, "name", req.Name, "invited", len(invited))
		return id, nil
	}
}

// AttachSession joins username to the room, reviving it from its
// snapshot when no live actor exists. It blocks for the join answer up
// to the configured timeout.
func (s *Service) AttachSession(ctx context.Context, username string, id domain.RoomID, sink event.Sink) (*Session, error) {
	handle, err := s.liveHandle(id)
	if err != nil {
		return nil, err
	}

	reply := make(chan domain.JoinResult, 1)
	if err := handle.Deliver(domain.Join{Username: username, Sink: sink, Reply: reply}); err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.joinTimeout)
	defer timer.Stop()

	select {
	case result := <-reply:
		switch result {
		case domain.JoinAdmitted:
			return &Session{username: username, handle: handle}, nil
		case domain.JoinAlreadyJoined:
			return nil, errors.ErrAlreadyJoined
		default:
			return nil, errors.ErrBlocked
		}
	case <-timer.C:
		return nil, errors.ErrJoinTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// liveHandle returns the registered actor for the room, starting a new
// one from the persisted snapshot when the room is not live.
func (s *Service) liveHandle(id domain.RoomID) (contract.RoomHandle, error) {
	if h, ok := s.registry.Get(id); ok {
		return h, nil
	}

	room, err := s.store.Load(id)
	if err != nil {
		return nil, err
	}

	w := workers.NewRoomWorker(room, s.store, s.registry, s.moderator, s.bufferSize, s.log)
	if !s.registry.Put(w) {
		// Another attach revived the room first; use its actor.
		if h, ok := s.registry.Get(id); ok {
			return h, nil
		}
		return nil, errors.ErrRoomClosed
	}
	s.supervisor.Start(s.runCtx, w)
	s.log.Info("room revived from snapshot", "room", id, "records", len(room.History))
	return w, nil
}

// ListRooms returns one page of the live room directory.
func (s *Service) ListRooms(page int) []domain.RoomInfo {
	return s.registry.List(page, s.roomsPerPage)
}
