package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"github.com/redis/go-redis/v9"
)

// deletedRoomMarker takes the place of a deleted room's snapshot until the
// cache TTL runs out.
const deletedRoomMarker = "deleted"

var (
	errRoomCacheMiss    = errors.New("room not cached")
	errRoomCacheDeleted = errors.New("room deleted")
)

func (app *Application) getCachedRoom(ctx context.Context, roomUID domain.RoomUID) (*domain.Room, error) {
	data, err := app.redis.Get(ctx, roomCacheKey(roomUID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errRoomCacheMiss
		}
		return nil, fmt.Errorf("read cached room %s: %w", roomUID, err)
	}

	if string(data) == deletedRoomMarker {
		return nil, errRoomCacheDeleted
	}

	var snapshot domain.RoomSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode cached room %s: %w", roomUID, err)
	}

	return domain.HydrateRoom(snapshot)
}

// cacheRoom overwrites the cached snapshot. Only writers holding the room
// lock call it.
func (app *Application) cacheRoom(ctx context.Context, room *domain.Room) error {
	data, err := json.Marshal(room.Snapshot())
	if err != nil {
		return err
	}

	return app.redis.Set(ctx, roomCacheKey(room.UID()), data, app.config.Rooms.CacheTTL).Err()
}

// fillRoomCache stores a snapshot read from the database unless a writer got
// there first.
func (app *Application) fillRoomCache(ctx context.Context, room *domain.Room) error {
	data, err := json.Marshal(room.Snapshot())
	if err != nil {
		return err
	}

	return app.redis.SetNX(ctx, roomCacheKey(room.UID()), data, app.config.Rooms.CacheTTL).Err()
}

// refreshRoomCache replaces the cached snapshot after a write and drops it
// when the replacement fails.
func (app *Application) refreshRoomCache(ctx context.Context, room *domain.Room) {
	err := app.cacheRoom(ctx, room)
	if err != nil {
		app.logger.Warn("failed to refresh cached room", "room_uid", room.UID(), "error", err)
		app.invalidateRoom(ctx, room.UID())
	}
}

func (app *Application) markRoomDeleted(ctx context.Context, roomUID domain.RoomUID) {
	err := app.redis.Set(ctx, roomCacheKey(roomUID), deletedRoomMarker, app.config.Rooms.CacheTTL).Err()
	if err != nil {
		app.logger.Warn("failed to mark cached room deleted", "room_uid", roomUID, "error", err)
		app.invalidateRoom(ctx, roomUID)
	}
}

func (app *Application) invalidateRoom(ctx context.Context, roomUID domain.RoomUID) {
	err := app.redis.Del(ctx, roomCacheKey(roomUID)).Err()
	if err != nil {
		app.logger.Error("failed to invalidate cached room", "room_uid", roomUID, "error", err)
	}
}

// loadRoom reads a room through the cache. Cache failures fall back to the
// database and never fail the request.
func (app *Application) loadRoom(ctx context.Context, roomUID domain.RoomUID) (*domain.Room, error) {
	room, err := app.getCachedRoom(ctx, roomUID)
	switch {
	case err == nil:
		return room, nil
	case errors.Is(err, errRoomCacheDeleted):
		return nil, domain.NewFailure(domain.CodeResourceNotFound, map[string]any{"resource": "room", "roomUID": roomUID})
	case !errors.Is(err, errRoomCacheMiss):
		app.logger.Warn("room cache unavailable, reading from database", "room_uid", roomUID, "error", err)
	}

	room, err = app.roomService.FindByID(ctx, roomUID)
	if err != nil {
		return nil, err
	}

	if err := app.fillRoomCache(ctx, room); err != nil {
		app.logger.Warn("failed to cache room", "room_uid", roomUID, "error", err)
	}

	return room, nil
}

func roomCacheKey(roomUID domain.RoomUID) string {
	return fmt.Sprintf("room:%s", roomUID)
}
