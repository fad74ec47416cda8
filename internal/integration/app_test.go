package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-room-scheduling/internal/app"
	"github.com/metinatakli/cinema-room-scheduling/internal/repository"
	appvalidator "github.com/metinatakli/cinema-room-scheduling/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App         *app.Application
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	RoomRepo    *repository.PostgresRoomRepository
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	metrics, err := app.NewRoomMetrics()
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	roomRepo := repository.NewPostgresRoomRepository(db)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		metrics,
		roomRepo,
	)

	return &TestApp{
		App:         application,
		DB:          db,
		RedisClient: redisClient,
		RoomRepo:    roomRepo,
	}, nil
}

func (a *TestApp) Close() {
	a.RedisClient.Close()
	a.DB.Close()
}
