package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"war-room/domain"
	"war-room/mocks"
)

func handleWithID(ctrl *gomock.Controller, id domain.RoomID, name string) *mocks.MockRoomHandle {
	h := mocks.NewMockRoomHandle(ctrl)
	h.EXPECT().ID().Return(id).AnyTimes()
	h.EXPECT().Name().Return(name).AnyTimes()
	h.EXPECT().MemberCount().Return(0).AnyTimes()
	h.EXPECT().LastActivity().Return(time.Now()).AnyTimes()
	return h
}

func TestRegistry_PutGetRemove(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	h := handleWithID(ctrl, 1, "ops")

	// Given an empty directory
	req.Zero(registry.Len())

	// When a room is registered
	req.True(registry.Put(h))

	// Then it is retrievable
	got, ok := registry.Get(1)
	req.True(ok)
	req.Equal(domain.RoomID(1), got.ID())
	req.Equal(1, registry.Len())

	// When removed, twice
	registry.Remove(1)
	registry.Remove(1)

	// Then the directory is empty and removal stayed idempotent
	_, ok = registry.Get(1)
	req.False(ok)
	req.Zero(registry.Len())
}

func TestRegistry_PutRefusesDuplicateID(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	req.True(registry.Put(handleWithID(ctrl, 1, "first")))

	// When another handle claims the same id
	req.False(registry.Put(handleWithID(ctrl, 1, "second")))

	// Then the original stays registered
	got, ok := registry.Get(1)
	req.True(ok)
	req.Equal("first", got.Name())
	req.Equal(1, registry.Len())
}

func TestRegistry_Handles(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	registry.Put(handleWithID(ctrl, 1, "a"))
	registry.Put(handleWithID(ctrl, 2, "b"))

	handles := registry.Handles()
	req.Len(handles, 2)

	// Then the copy is point-in-time: later removals don't shrink it
	registry.Remove(1)
	req.Len(handles, 2)
	req.Equal(1, registry.Len())
}

func TestRegistry_ListPaging(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	for id := domain.RoomID(1); id <= 5; id++ {
		registry.Put(handleWithID(ctrl, id, "room"))
	}

	// Then pages are ordered by id and cut at the page size
	page0 := registry.List(0, 2)
	req.Len(page0, 2)
	req.Equal(domain.RoomID(1), page0[0].ID)
	req.Equal(domain.RoomID(2), page0[1].ID)

	page2 := registry.List(2, 2)
	req.Len(page2, 1)
	req.Equal(domain.RoomID(5), page2[0].ID)

	// And out-of-range or invalid pages are empty
	req.Empty(registry.List(3, 2))
	req.Empty(registry.List(-1, 2))
	req.Empty(registry.List(0, 0))
}
