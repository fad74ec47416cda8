package mocks

import (
	"context"

	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) FindByID(ctx context.Context, uid domain.RoomUID) (*domain.Room, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepo) ExistsByIdentifier(ctx context.Context, identifier domain.RoomIdentifier) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepo) List(ctx context.Context, pagination domain.Pagination) ([]*domain.Room, *domain.Metadata, error) {
	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.Room), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepo) Update(ctx context.Context, room *domain.Room) (int, error) {
	args := m.Called(ctx, room)
	return args.Int(0), args.Error(1)
}

func (m *MockRoomRepo) Delete(ctx context.Context, uid domain.RoomUID) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockRoomRepo) AddBookings(ctx context.Context, roomUID domain.RoomUID, slots ...domain.BookingSlot) error {
	args := m.Called(ctx, roomUID, slots)
	return args.Error(0)
}

func (m *MockRoomRepo) DeleteBookings(ctx context.Context, roomUID domain.RoomUID, uids ...domain.BookingUID) error {
	args := m.Called(ctx, roomUID, uids)
	return args.Error(0)
}
