package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"p2v/internal/common"
	"p2v/internal/domain/model"
	"p2v/internal/domain/repository"
	"p2v/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type PlaceService struct {
	placeRepo repository.PlaceRepository
	voteRepo  repository.VoteRepository
	log       *logger.Logger
}

func NewPlaceService(placeRepo repository.PlaceRepository, voteRepo repository.VoteRepository, log *logger.Logger) *PlaceService {
	return &PlaceService{placeRepo: placeRepo, voteRepo: voteRepo, log: log.With("service", "PlaceService")}
}

// PlaceRequest holds the editable fields of a place. The creator is taken
// from the authenticated user, never from the payload.
type PlaceRequest struct {
	PlaceName    string `json:"place_name"`
	PlaceAddress string `json:"place_address"`
	Pincode      int    `json:"pincode"`
}

func (r *PlaceRequest) validate() error {
	r.PlaceName = strings.TrimSpace(r.PlaceName)
	r.PlaceAddress = strings.TrimSpace(r.PlaceAddress)
	if r.PlaceName == "" || r.PlaceAddress == "" {
		return common.NewError(common.ErrValidation, "place_name and place_address are required")
	}
	if r.Pincode <= 0 {
		return common.NewError(common.ErrValidation, "pincode must be positive")
	}
	return nil
}

// Page and page size bounds for ListPlaces.
const (
	MaxPlacePageSize = 100
	maxPlacePage     = 1 << 20
)

// ListPlaces returns one page of places, newest first. A pageSize of zero
// or less returns every place.
func (s *PlaceService) ListPlaces(ctx context.Context, page, pageSize int) ([]model.Place, error) {
	if pageSize <= 0 {
		return s.placeRepo.List(ctx, 0, 0)
	}
	if pageSize > MaxPlacePageSize {
		pageSize = MaxPlacePageSize
	}
	if page < 1 {
		page = 1
	}
	if page > maxPlacePage {
		page = maxPlacePage
	}
	return s.placeRepo.List(ctx, pageSize, (page-1)*pageSize)
}

// GetPlace returns the place with the viewer's own vote, if any.
func (s *PlaceService) GetPlace(ctx context.Context, viewer *model.User, id string) (*model.PlaceDetail, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.PlaceDetail{Place: place}
	vote, err := s.voteRepo.FindByUserAndPlace(ctx, viewer.ID, id)
	switch {
	case err == nil:
		detail.Vote = &vote.Vote
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to load vote: %w", err)
	}
	return detail, nil
}

func (s *PlaceService) CreatePlace(ctx context.Context, creator *model.User, req PlaceRequest) (*model.Place, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	place := &model.Place{
		ID:           uuid.NewString(),
		UserID:       creator.ID,
		PlaceName:    req.PlaceName,
		PlaceAddress: req.PlaceAddress,
		Pincode:      req.Pincode,
		Slug:         slug.Make(req.PlaceName),
	}
	if err := s.placeRepo.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	s.log.Info("place created", "place_id", place.ID, "user_id", creator.ID)
	return place, nil
}

func (s *PlaceService) UpdatePlace(ctx context.Context, id string, req PlaceRequest) (*model.Place, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	place.PlaceName = req.PlaceName
	place.PlaceAddress = req.PlaceAddress
	place.Pincode = req.Pincode
	place.Slug = slug.Make(req.PlaceName)

	if err := s.placeRepo.Update(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

func (s *PlaceService) DeletePlace(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.placeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("place deleted", "place_id", id)
	return nil
}
