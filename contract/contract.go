//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"war-room/domain"
)

// Worker doesn't protect itself. Supervision, restarts and panic
// recovery belong to the supervisor.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the
// worker for logging and supervision purposes, avoiding manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// RoomHandle is the runtime handle to a live room actor. Deliver
// enqueues exactly one command into the room's FIFO mailbox; after the
// room closed it fails with ErrRoomClosed and the handle is invalid.
type RoomHandle interface {
	ID() domain.RoomID
	Name() string
	MemberCount() int
	LastActivity() time.Time
	Deliver(cmd domain.Command) error
}

// IRegistry is the shared directory of live rooms. It is mutated by
// room creation, a room's own self-close and the reaper; all mutations
// go through the registry's single synchronization point.
type IRegistry interface {
	Put(h RoomHandle) bool
	Get(id domain.RoomID) (RoomHandle, bool)
	Remove(id domain.RoomID)
	Handles() []RoomHandle
	Len() int
}

// RoomStore is the durable side of a room: one snapshot location per
// room id plus the reserved file/img asset areas.
type RoomStore interface {
	Exists(id domain.RoomID) (bool, error)
	Save(room *domain.Room) error
	Load(id domain.RoomID) (*domain.Room, error)
	SaveAsset(id domain.RoomID, name string, data []byte) (string, error)
}
