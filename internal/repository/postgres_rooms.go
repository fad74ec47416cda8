package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresRoomRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRoomRepository(db *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{
		db: db,
	}
}

const roomColumns = `
	r.uid,
	r.identifier,
	r.status,
	r.screen_size::text,
	r.screen_type,
	r.seat_config,
	r.version,
	COALESCE((
		SELECT jsonb_agg(
			jsonb_build_object(
				'uid', b.uid,
				'screeningUid', COALESCE(b.screening_uid, ''),
				'startTime', b.start_time,
				'endTime', b.end_time,
				'type', b.booking_type
			) ORDER BY b.start_time)
		FROM room_bookings b
		WHERE b.room_uid = r.uid
	), '[]') AS bookings`

func (p *PostgresRoomRepository) FindByID(ctx context.Context, uid domain.RoomUID) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.uid = $1`

	room, err := scanRoom(p.db.QueryRow(ctx, query, uid.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return room, nil
}

func (p *PostgresRoomRepository) ExistsByIdentifier(ctx context.Context, identifier domain.RoomIdentifier) (bool, error) {
	var exists bool

	err := p.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE identifier = $1)`,
		identifier.Int()).Scan(&exists)

	return exists, err
}

func (p *PostgresRoomRepository) List(ctx context.Context, pagination domain.Pagination) ([]*domain.Room, *domain.Metadata, error) {
	query := `SELECT count(*) OVER(), ` + roomColumns + `
		FROM rooms r
		ORDER BY r.identifier
		LIMIT $1 OFFSET $2`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	rooms := []*domain.Room{}

	for rows.Next() {
		var (
			snapshot   domain.RoomSnapshot
			screenSize string
		)

		err := rows.Scan(
			&totalRecords,
			&snapshot.UID,
			&snapshot.Identifier,
			&snapshot.Status,
			&screenSize,
			&snapshot.ScreenType,
			&snapshot.SeatConfig,
			&snapshot.Version,
			&snapshot.Bookings,
		)
		if err != nil {
			return nil, nil, err
		}

		room, err := hydrate(snapshot, screenSize)
		if err != nil {
			return nil, nil, err
		}

		rooms = append(rooms, room)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return rooms, metadata, nil
}

// Create stores the room together with any bookings it already holds.
func (p *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	s := room.Snapshot()

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO rooms (uid, identifier, status, screen_size, screen_type, seat_config, version)
			VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
		`

		_, err := tx.Exec(ctx,
			query,
			s.UID,
			s.Identifier,
			s.Status,
			s.ScreenSize.String(),
			s.ScreenType,
			s.SeatConfig,
			s.Version)
		if err != nil {
			return mapWriteError(err)
		}

		return copyBookings(ctx, tx, room.UID(), room.Bookings())
	})
}

// Update writes status and screen, guarded by the room version, and returns
// the new version.
func (p *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) (int, error) {
	s := room.Snapshot()

	query := `
		UPDATE rooms
		SET status = $1, screen_size = $2::numeric, screen_type = $3, version = version + 1, updated_at = NOW()
		WHERE uid = $4 AND version = $5
		RETURNING version
	`

	var version int
	err := p.db.QueryRow(ctx,
		query,
		s.Status,
		s.ScreenSize.String(),
		s.ScreenType,
		s.UID,
		s.Version).Scan(&version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrEditConflict
		}

		return 0, err
	}

	return version, nil
}

func (p *PostgresRoomRepository) Delete(ctx context.Context, uid domain.RoomUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM rooms WHERE uid = $1`, uid.String())
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresRoomRepository) AddBookings(ctx context.Context, roomUID domain.RoomUID, slots ...domain.BookingSlot) error {
	if len(slots) == 0 {
		return nil
	}

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		return copyBookings(ctx, tx, roomUID, slots)
	})
}

func (p *PostgresRoomRepository) DeleteBookings(ctx context.Context, roomUID domain.RoomUID, uids ...domain.BookingUID) error {
	if len(uids) == 0 {
		return nil
	}

	ids := make([]string, len(uids))
	for i, uid := range uids {
		ids[i] = uid.String()
	}

	tag, err := p.db.Exec(ctx,
		`DELETE FROM room_bookings WHERE room_uid = $1 AND uid = ANY($2)`,
		roomUID.String(),
		ids)
	if err != nil {
		return err
	}

	if tag.RowsAffected() != int64(len(uids)) {
		return domain.ErrEditConflict
	}

	return nil
}

func copyBookings(ctx context.Context, tx pgx.Tx, roomUID domain.RoomUID, slots []domain.BookingSlot) error {
	if len(slots) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(slots))
	for _, slot := range slots {
		var screeningUID *string
		if slot.HasScreening() {
			s := slot.ScreeningUID().String()
			screeningUID = &s
		}

		rows = append(rows, []any{
			slot.UID().String(),
			roomUID.String(),
			screeningUID,
			string(slot.Type()),
			slot.StartTime(),
			slot.EndTime(),
		})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"room_bookings"},
		[]string{"uid", "room_uid", "screening_uid", "booking_type", "start_time", "end_time"},
		pgx.CopyFromRows(rows),
	)

	return mapWriteError(err)
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return fmt.Errorf("%w: %s", domain.ErrBookingOverlap, pgErr.ConstraintName)
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return domain.ErrRecordNotFound
	default:
		return err
	}
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var (
		snapshot   domain.RoomSnapshot
		screenSize string
	)

	err := row.Scan(
		&snapshot.UID,
		&snapshot.Identifier,
		&snapshot.Status,
		&screenSize,
		&snapshot.ScreenType,
		&snapshot.SeatConfig,
		&snapshot.Version,
		&snapshot.Bookings,
	)
	if err != nil {
		return nil, err
	}

	return hydrate(snapshot, screenSize)
}

func hydrate(snapshot domain.RoomSnapshot, screenSize string) (*domain.Room, error) {
	size, err := decimal.NewFromString(screenSize)
	if err != nil {
		return nil, fmt.Errorf("%w: room %s screen size %q", domain.ErrCorruptData, snapshot.UID, screenSize)
	}
	snapshot.ScreenSize = size

	return domain.HydrateRoom(snapshot)
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
