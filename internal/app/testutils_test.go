package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/cinema-room-scheduling/api"
	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"github.com/metinatakli/cinema-room-scheduling/internal/mocks"
	"github.com/metinatakli/cinema-room-scheduling/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const (
	testLockTTL  = 10 * time.Second
	testCacheTTL = time.Minute
)

func newTestApplication(opts ...func(*Application)) *Application {
	roomRepo := &mocks.MockRoomRepo{}

	metrics, err := NewRoomMetrics()
	if err != nil {
		panic(err)
	}

	app := &Application{
		config: Config{
			Env: "test",
			Rooms: RoomsConfig{
				LockTTL:  testLockTTL,
				CacheTTL: testCacheTTL,
			},
		},
		validator:   validator.NewValidator(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		db:          &mocks.MockDatabase{},
		redis:       &mocks.MockRedisClient{},
		roomRepo:    roomRepo,
		roomService: domain.NewRoomService(roomRepo),
		metrics:     metrics,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// withRoomRepo swaps the repository behind both the handlers and the room service.
func withRoomRepo(repo domain.RoomRepository) func(*Application) {
	return func(a *Application) {
		a.roomRepo = repo
		a.roomService = domain.NewRoomService(repo)
	}
}

func expectHealthy(app *Application) {
	app.db.(*mocks.MockDatabase).On("Ping", mock.Anything).Return(nil).Once()
	app.redis.(*mocks.MockRedisClient).On("Ping", mock.Anything).
		Return(redis.NewStatusResult("PONG", nil)).Once()
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

// decodeDomainErrorCodes returns the failure codes of a scheduling error response.
func decodeDomainErrorCodes(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()

	var resp api.DomainErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode domain error response: %v", err)
	}

	codes := make([]string, len(resp.Errors))
	for i, e := range resp.Errors {
		codes[i] = e.Code
	}

	return codes
}

func expectRoomLock(client *mocks.MockRedisClient, roomUID domain.RoomUID) {
	key := roomLockKey(roomUID)

	client.On("SetNX", mock.Anything, key, mock.AnythingOfType("string"), testLockTTL).
		Return(redis.NewBoolResult(true, nil)).Once()
	client.On("EvalSha", mock.Anything, mock.Anything, []string{key}, mock.Anything).
		Return(redis.NewCmdResult(int64(1), nil)).Once()
}

func expectRoomLocked(client *mocks.MockRedisClient, roomUID domain.RoomUID) {
	client.On("SetNX", mock.Anything, roomLockKey(roomUID), mock.AnythingOfType("string"), testLockTTL).
		Return(redis.NewBoolResult(false, nil)).Once()
}

func expectCacheInvalidation(client *mocks.MockRedisClient, roomUID domain.RoomUID) {
	client.On("Del", mock.Anything, []string{roomCacheKey(roomUID)}).
		Return(redis.NewIntResult(1, nil)).Once()
}

// expectCacheRefresh expects a writer to replace the cached snapshot.
func expectCacheRefresh(client *mocks.MockRedisClient, roomUID domain.RoomUID) {
	client.On("Set", mock.Anything, roomCacheKey(roomUID), mock.AnythingOfType("[]uint8"), testCacheTTL).
		Return(redis.NewStatusResult("OK", nil)).Once()
}

func expectRoomDeletedMarker(client *mocks.MockRedisClient, roomUID domain.RoomUID) {
	client.On("Set", mock.Anything, roomCacheKey(roomUID), deletedRoomMarker, testCacheTTL).
		Return(redis.NewStatusResult("OK", nil)).Once()
}

func expectCacheMiss(client *mocks.MockRedisClient, roomUID domain.RoomUID) {
	key := roomCacheKey(roomUID)

	client.On("Get", mock.Anything, key).Return(redis.NewStringResult("", redis.Nil)).Once()
	client.On("SetNX", mock.Anything, key, mock.Anything, testCacheTTL).
		Return(redis.NewBoolResult(true, nil)).Once()
}

func expectCacheHit(t *testing.T, client *mocks.MockRedisClient, room *domain.Room) {
	data, err := json.Marshal(room.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	client.On("Get", mock.Anything, roomCacheKey(room.UID())).
		Return(redis.NewStringResult(string(data), nil)).Once()
}

// newFakeRoomCache backs Get, Set and SetNX on key with an in-memory map.
func newFakeRoomCache(client *mocks.MockRedisClient, key string) map[string]string {
	cache := map[string]string{}

	client.On("Get", mock.Anything, key).Return(func(_ context.Context, k string) *redis.StringCmd {
		v, ok := cache[k]
		if !ok {
			return redis.NewStringResult("", redis.Nil)
		}
		return redis.NewStringResult(v, nil)
	}).Maybe()
	client.On("Set", mock.Anything, key, mock.Anything, testCacheTTL).
		Return(func(_ context.Context, k string, value interface{}, _ time.Duration) *redis.StatusCmd {
			cache[k] = cacheValue(value)
			return redis.NewStatusResult("OK", nil)
		}).Maybe()
	client.On("SetNX", mock.Anything, key, mock.Anything, testCacheTTL).
		Return(func(_ context.Context, k string, value interface{}, _ time.Duration) *redis.BoolCmd {
			if _, ok := cache[k]; ok {
				return redis.NewBoolResult(false, nil)
			}
			cache[k] = cacheValue(value)
			return redis.NewBoolResult(true, nil)
		}).Maybe()

	return cache
}

func cacheValue(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		panic(fmt.Sprintf("unexpected cache value %T", value))
	}
}

func newTestRoom(t *testing.T) *domain.Room {
	t.Helper()

	room, err := domain.CreateRoom(domain.CreateRoomParams{
		Identifier: 5,
		SeatConfig: []domain.SeatRowConfig{
			{RowNumber: 1, LastColumnLetter: "F", PreferentialSeatLetters: []string{"C", "D"}},
			{RowNumber: 2, LastColumnLetter: "H"},
		},
		ScreenSize: decimal.RequireFromString("12.5"),
		ScreenType: "IMAX",
	})
	if err != nil {
		t.Fatal(err)
	}

	return room
}

// newTestRoomWithBookings hydrates a room holding the given bookings.
func newTestRoomWithBookings(t *testing.T, bookings ...domain.BookingSnapshot) *domain.Room {
	t.Helper()

	snapshot := newTestRoom(t).Snapshot()
	snapshot.Bookings = bookings

	room, err := domain.HydrateRoom(snapshot)
	if err != nil {
		t.Fatal(err)
	}

	return room
}

func ptr[T any](v T) *T {
	return &v
}
