// Package runtime wires rooms, registry and the collaborator-facing
// service together. It orchestrates the system without containing
// domain rules.
package runtime

import (
	"sort"
	"sync"

	"war-room/contract"
	"war-room/domain"
)

// Registry is the shared directory of live rooms. Creation, a room's
// own self-close and the reaper all mutate it; the mutex is the single
// synchronization point that keeps those paths from losing updates
// when they race on the same room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]contract.RoomHandle
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]contract.RoomHandle)}
}

// Put inserts a handle under its room id. It refuses an id that is
// already live, which is what makes retried id generation safe.
func (r *Registry) Put(h contract.RoomHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[h.ID()]; ok {
		return false
	}
	r.rooms[h.ID()] = h
	return true
}

func (r *Registry) Get(id domain.RoomID) (contract.RoomHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.rooms[id]
	return h, ok
}

// Remove drops the room from the directory. Removing an id twice is a
// no-op, so a self-close and a reaper sweep may both deregister the
// same room.
func (r *Registry) Remove(id domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// Handles returns a point-in-time copy of the live handles for probe
// iteration.
func (r *Registry) Handles() []contract.RoomHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]contract.RoomHandle, 0, len(r.rooms))
	for _, h := range r.rooms {
		handles = append(handles, h)
	}
	return handles
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// List enumerates live rooms for administrative display, ordered by
// room id and cut into pages.
func (r *Registry) List(page, pageSize int) []domain.RoomInfo {
	handles := r.Handles()
	sort.Slice(handles, func(i, j int) bool { return handles[i].ID() < handles[j].ID() })

	if page < 0 || pageSize <= 0 {
		return nil
	}
	start := page * pageSize
	if start >= len(handles) {
		return nil
	}
	end := min(start+pageSize, len(handles))

	infos := make([]domain.RoomInfo, 0, end-start)
	for _, h := range handles[start:end] {
		infos = append(infos, domain.RoomInfo{
			ID:      h.ID(),
			Name:    h.Name(),
			Members: h.MemberCount(),
		})
	}
	return infos
}
