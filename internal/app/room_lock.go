package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrRoomLocked = errors.New("the room is being modified by another request, please try again")

// Deletes the lock only while it still holds the caller's token.
var releaseRoomLockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

type roomLock struct {
	key   string
	token string
}

func (app *Application) acquireRoomLock(ctx context.Context, roomUID domain.RoomUID) (*roomLock, error) {
	lock := &roomLock{
		key:   roomLockKey(roomUID),
		token: uuid.NewString(),
	}

	ok, err := app.redis.SetNX(ctx, lock.key, lock.token, app.config.Rooms.LockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock for room %s: %w", roomUID, err)
	}

	if !ok {
		return nil, ErrRoomLocked
	}

	return lock, nil
}

func (app *Application) releaseRoomLock(ctx context.Context, lock *roomLock) {
	released, err := releaseRoomLockScript.Run(ctx, app.redis, []string{lock.key}, lock.token).Int()
	if err != nil {
		app.logger.Error("failed to release room lock", "key", lock.key, "error", err)
		return
	}

	if released == 0 {
		app.logger.Warn("room lock expired before release", "key", lock.key)
	}
}

// withRoomLock runs fn while holding the room's lock. The lock is released
// with a context detached from cancellation so an aborted request still frees it.
func (app *Application) withRoomLock(ctx context.Context, roomUID domain.RoomUID, fn func(ctx context.Context) error) error {
	lock, err := app.acquireRoomLock(ctx, roomUID)
	if err != nil {
		return err
	}
	defer app.releaseRoomLock(context.WithoutCancel(ctx), lock)

	return fn(ctx)
}

func roomLockKey(roomUID domain.RoomUID) string {
	return fmt.Sprintf("room_lock:%s", roomUID)
}
