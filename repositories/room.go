// Package repositories persists room snapshots in BadgerDB.
package repositories

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"war-room/domain"
	"war-room/errors"
)

// KeyPrefix is the common prefix of every room-owned key.
const KeyPrefix = "room:"

// Asset areas reserved next to each snapshot for future attachments.
const (
	AreaFile = "file"
	AreaImg  = "img"
)

// RoomSnapshot is the durable serialized form of a room. Runtime
// handles are never part of it; a fresh actor is attached on load.
type RoomSnapshot struct {
	ID      int64            `cbor:"id"`
	Name    string           `cbor:"name"`
	Invited []string         `cbor:"invited"`
	History []SnapshotRecord `cbor:"history"`
	Saved   bool             `cbor:"saved"`
	Updated bool             `cbor:"updated"`
}

type SnapshotRecord struct {
	ID       string `cbor:"id"`
	TimeTag  string `cbor:"time_tag"`
	Username string `cbor:"username"`
	Text     string `cbor:"text"`
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// Exists reports whether a snapshot location was ever created for this
// room id.
func (r RoomRepository) Exists(id domain.RoomID) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(dataKey(id))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the room's snapshot, creating the location on first use
// and overwriting on repeat calls.
func (r RoomRepository) Save(room *domain.Room) error {
	bytes, err := cbor.Marshal(FromRoom(room))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dataKey(room.ID), bytes)
	})
}

// Load reconstructs a room from its snapshot. The caller is expected
// to attach a fresh actor handle; the saved/updated flags are restored
// as persisted.
func (r RoomRepository) Load(id domain.RoomID) (*domain.Room, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dataKey(id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	snapshot, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return snapshot.ToRoom()
}

// SaveAsset stores an uploaded attachment under the room's asset area,
// routed by sniffed content type: images under img, everything else
// under file. Returns the area the asset landed in.
func (r RoomRepository) SaveAsset(id domain.RoomID, name string, data []byte) (string, error) {
	area := AreaFile
	if strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		area = AreaImg
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(assetKey(id, area, name), data)
	})
	if err != nil {
		return "", err
	}
	return area, nil
}

// FromRoom converts a room into its durable form.
func FromRoom(room *domain.Room) RoomSnapshot {
	return RoomSnapshot{
		ID:      int64(room.ID),
		Name:    room.Name,
		Invited: room.Invited,
		History: lo.Map(room.History, func(rec domain.ChatRecord, _ int) SnapshotRecord {
			return SnapshotRecord{
				ID:       rec.ID.String(),
				TimeTag:  rec.TimeTag,
				Username: rec.Username,
				Text:     rec.Text,
			}
		}),
		Saved:   room.Saved,
		Updated: room.Updated,
	}
}

// DecodeSnapshot parses raw snapshot bytes, flagging undecodable data
// as a corrupt snapshot.
func DecodeSnapshot(raw []byte) (RoomSnapshot, error) {
	var snapshot RoomSnapshot
	if err := cbor.Unmarshal(raw, &snapshot); err != nil {
		return RoomSnapshot{}, fmt.Errorf("%w: %v", errors.ErrCorruptSnapshot, err)
	}
	return snapshot, nil
}

// ToRoom rebuilds the in-memory room from a snapshot.
func (s RoomSnapshot) ToRoom() (*domain.Room, error) {
	history := make([]domain.ChatRecord, 0, len(s.History))
	for _, rec := range s.History {
		parsedID, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: record id %q: %v", errors.ErrCorruptSnapshot, rec.ID, err)
		}
		history = append(history, domain.ChatRecord{
			ID:       parsedID,
			TimeTag:  rec.TimeTag,
			Username: rec.Username,
			Text:     rec.Text,
		})
	}

	room := domain.NewRoom(domain.RoomID(s.ID), s.Name, s.Invited)
	room.History = history
	room.Saved = s.Saved
	room.Updated = s.Updated
	return room, nil
}

func dataKey(id domain.RoomID) []byte {
	return []byte(fmt.Sprintf("%s%d:data", KeyPrefix, id))
}

func assetKey(id domain.RoomID, area, name string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s:%s", KeyPrefix, id, area, name))
}
