package service

import (
	"context"
	"fmt"

	"p2v/internal/domain/model"
	"p2v/internal/domain/repository"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"

	"github.com/google/uuid"
)

// TallyEnqueuer schedules a recount of a place's votes.
type TallyEnqueuer interface {
	Enqueue(ctx context.Context, placeID string) error
}

type VoteService struct {
	voteRepo  repository.VoteRepository
	placeRepo repository.PlaceRepository
	tally     TallyEnqueuer
	log       *logger.Logger
	metrics   metrics.Recorder
}

func NewVoteService(voteRepo repository.VoteRepository, placeRepo repository.PlaceRepository, tally TallyEnqueuer, log *logger.Logger, rec metrics.Recorder) *VoteService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &VoteService{voteRepo: voteRepo, placeRepo: placeRepo, tally: tally, log: log.With("service", "VoteService"), metrics: rec}
}

type VoteRequest struct {
	Vote *bool `json:"vote"`
}

// CastVote records voter's vote on a place; a nil vote clears it.
func (s *VoteService) CastVote(ctx context.Context, voter *model.User, placeID string, req VoteRequest) error {
	if err := validID(placeID); err != nil {
		return err
	}
	if _, err := s.placeRepo.FindByID(ctx, placeID); err != nil {
		return err
	}

	if req.Vote == nil {
		if err := s.voteRepo.Delete(ctx, voter.ID, placeID); err != nil {
			return fmt.Errorf("failed to clear vote: %w", err)
		}
	} else {
		vote := &model.Vote{ID: uuid.NewString(), UserID: voter.ID, PlaceID: placeID, Vote: *req.Vote}
		if err := s.voteRepo.Upsert(ctx, vote); err != nil {
			return fmt.Errorf("failed to save vote: %w", err)
		}
	}
	s.metrics.RecordVoteCast()

	if s.tally != nil {
		if err := s.tally.Enqueue(ctx, placeID); err != nil {
			s.log.Warn("vote saved but tally refresh not queued", "place_id", placeID, "error", err)
		}
	}
	return nil
}
