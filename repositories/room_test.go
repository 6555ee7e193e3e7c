package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"war-room/domain"
	"war-room/errors"
)

func newTestRepository(t *testing.T) RoomRepository {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRoomRepository(db, logs.GetLoggerFromLevel(slog.LevelError))
}

func TestRoomRepository_SaveLoadRoundTrip(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	// Given a room with history and flags set
	room := domain.NewRoom(42, "ops", []string{"bob@mail.io", "alice@mail.io"})
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	room.Append(domain.NewChatRecord(at, "alice@mail.io", "hello"))
	room.Append(domain.NewChatRecord(at.Add(time.Second), "bob@mail.io", "hi"))
	room.Saved, room.Updated = true, false

	// When saved and loaded back
	req.NoError(repo.Save(room))
	loaded, err := repo.Load(42)
	req.NoError(err)

	// Then everything round-trips, flags included
	req.Equal(room.ID, loaded.ID)
	req.Equal(room.Name, loaded.Name)
	req.Equal(room.Invited, loaded.Invited)
	req.Equal(room.History, loaded.History)
	req.True(loaded.Saved)
	req.False(loaded.Updated)
}

func TestRoomRepository_SaveOverwrites(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	room := domain.NewRoom(7, "ops", []string{"alice@mail.io"})
	req.NoError(repo.Save(room))

	// When the room grows and is saved again
	room.Append(domain.NewChatRecord(time.Now(), "alice@mail.io", "more"))
	req.NoError(repo.Save(room))

	loaded, err := repo.Load(7)
	req.NoError(err)
	req.Len(loaded.History, 1)
}

func TestRoomRepository_Exists(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	exists, err := repo.Exists(99)
	req.NoError(err)
	req.False(exists)

	req.NoError(repo.Save(domain.NewRoom(99, "ops", nil)))

	exists, err = repo.Exists(99)
	req.NoError(err)
	req.True(exists)
}

func TestRoomRepository_LoadMissingRoom(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	_, err := repo.Load(12345)
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func TestRoomRepository_LoadCorruptSnapshot(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	// Given garbage bytes at the room's snapshot location
	err := repo.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dataKey(13), []byte("not a snapshot"))
	})
	req.NoError(err)

	_, err = repo.Load(13)
	req.ErrorIs(err, errors.ErrCorruptSnapshot)
}

func TestRoomRepository_SaveAssetRoutesByContent(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	// Given a PNG header and a plain text payload
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	txt := []byte("plain notes")

	// When stored as assets of the same room
	imgArea, err := repo.SaveAsset(5, "shot.png", png)
	req.NoError(err)
	fileArea, err := repo.SaveAsset(5, "notes.txt", txt)
	req.NoError(err)

	// Then images land in img, everything else in file
	req.Equal(AreaImg, imgArea)
	req.Equal(AreaFile, fileArea)

	// And both live under the room's key prefix, apart from the snapshot
	err = repo.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(assetKey(5, AreaImg, "shot.png"))
		if err != nil {
			return err
		}
		_, err = txn.Get(assetKey(5, AreaFile, "notes.txt"))
		return err
	})
	req.NoError(err)
}
