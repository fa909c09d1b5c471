package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/aau-dhms/dhms-api/internal/models"
	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

type roomStore interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ListByDorm(ctx context.Context, dormID string) ([]models.Room, error)
	ListAvailable(ctx context.Context) ([]models.Room, error)
	ListDorms(ctx context.Context) ([]models.Dorm, error)
	FindDorm(ctx context.Context, id string) (*models.Dorm, error)
}

// RoomService exposes read access to dorms and rooms.
type RoomService struct {
	repo   roomStore
	logger *zap.Logger
}

// NewRoomService constructs the service.
func NewRoomService(repo roomStore, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, logger: logger}
}

// ListDorms returns every dorm.
func (s *RoomService) ListDorms(ctx context.Context) ([]models.Dorm, error) {
	dorms, err := s.repo.ListDorms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dorms")
	}
	return dorms, nil
}

// ListRooms returns the rooms of one dorm.
func (s *RoomService) ListRooms(ctx context.Context, dormID string) ([]models.Room, error) {
	if _, err := s.repo.FindDorm(ctx, dormID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "dorm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dorm")
	}

	rooms, err := s.repo.ListByDorm(ctx, dormID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// ListAvailableRooms returns rooms that still have free beds.
func (s *RoomService) ListAvailableRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available rooms")
	}
	return rooms, nil
}

// GetRoom returns a single room.
func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}
