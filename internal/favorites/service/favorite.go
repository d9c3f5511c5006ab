package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"homecare/internal/favorites/repository"
	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/model"
)

type FavoriteService interface {
	Add(ctx context.Context, customerID, staffID string) (*model.FavoriteStaff, error)
	Remove(ctx context.Context, customerID, staffID string) error
	ListByCustomer(ctx context.Context, customerID string) ([]*model.FavoriteStaff, error)
	StaffIDSet(ctx context.Context, customerID string) (map[string]bool, error)
}

type favoriteService struct {
	repo repository.FavoriteRepository
	cfg  *config.Config
}

func NewFavoriteService(repo repository.FavoriteRepository, cfg *config.Config) FavoriteService {
	return &favoriteService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *favoriteService) Add(ctx context.Context, customerID, staffID string) (*model.FavoriteStaff, error) {
	if customerID == "" || staffID == "" {
		return nil, apperrors.InvalidInput("Customer ID and staff ID are required")
	}

	favorite := &model.FavoriteStaff{
		CustomerID: customerID,
		StaffID:    staffID,
	}

	if err := s.repo.Create(ctx, favorite); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("Staff member is already in favorites")
		}
		s.cfg.Log.Error("Failed to add favorite", "customer_id", customerID, "staff_id", staffID, "error", err)
		return nil, apperrors.Internal("Failed to add favorite", err)
	}

	s.cfg.Log.Info("Favorite added", "customer_id", customerID, "staff_id", staffID)
	return favorite, nil
}

func (s *favoriteService) Remove(ctx context.Context, customerID, staffID string) error {
	if customerID == "" || staffID == "" {
		return apperrors.InvalidInput("Customer ID and staff ID are required")
	}

	if err := s.repo.Delete(ctx, customerID, staffID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Favorite")
		}
		s.cfg.Log.Error("Failed to remove favorite", "customer_id", customerID, "staff_id", staffID, "error", err)
		return apperrors.Internal("Failed to remove favorite", err)
	}

	s.cfg.Log.Info("Favorite removed", "customer_id", customerID, "staff_id", staffID)
	return nil
}

func (s *favoriteService) ListByCustomer(ctx context.Context, customerID string) ([]*model.FavoriteStaff, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	favorites, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list favorites", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve favorites", err)
	}

	return favorites, nil
}

func (s *favoriteService) StaffIDSet(ctx context.Context, customerID string) (map[string]bool, error) {
	if customerID == "" {
		return map[string]bool{}, nil
	}

	set, err := s.repo.StaffIDSet(ctx, customerID)
	if err != nil {
		s.cfg.Log.Error("Failed to load favorite set", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve favorites", err)
	}

	return set, nil
}
