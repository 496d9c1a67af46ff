package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"p2v/internal/common"
	"p2v/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type VoteRepository interface {
	Upsert(ctx context.Context, vote *model.Vote) error
	Delete(ctx context.Context, userID, placeID string) error
	FindByUserAndPlace(ctx context.Context, userID, placeID string) (*model.Vote, error)
	TallyForPlace(ctx context.Context, placeID string) (model.VoteTally, error)
}

type pgVoteRepository struct {
	db *sql.DB
}

func NewPgVoteRepository(db *sql.DB) VoteRepository {
	return &pgVoteRepository{db: db}
}

// Upsert keeps one row per (user, place); a repeat vote overwrites the value.
func (r *pgVoteRepository) Upsert(ctx context.Context, v *model.Vote) error {
	query := `INSERT INTO votes (id, user_id, place_id, vote)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, place_id) DO UPDATE SET vote = EXCLUDED.vote, updated_at = now()
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, v.ID, v.UserID, v.PlaceID, v.Vote).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key: place or user gone
			return fmt.Errorf("vote target missing: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgVoteRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgVoteRepository) Delete(ctx context.Context, userID, placeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE user_id = $1 AND place_id = $2`, userID, placeID)
	if err != nil {
		return fmt.Errorf("pgVoteRepository.Delete: %w", err)
	}
	return nil
}

func (r *pgVoteRepository) FindByUserAndPlace(ctx context.Context, userID, placeID string) (*model.Vote, error) {
	v := &model.Vote{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, place_id, vote, created_at, updated_at FROM votes WHERE user_id = $1 AND place_id = $2`,
		userID, placeID,
	).Scan(&v.ID, &v.UserID, &v.PlaceID, &v.Vote, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgVoteRepository.FindByUserAndPlace: %w", err)
	}
	return v, nil
}

func (r *pgVoteRepository) TallyForPlace(ctx context.Context, placeID string) (model.VoteTally, error) {
	t := model.VoteTally{PlaceID: placeID}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FILTER (WHERE vote), COUNT(*) FILTER (WHERE NOT vote) FROM votes WHERE place_id = $1`,
		placeID,
	).Scan(&t.Upvotes, &t.Downvotes)
	if err != nil {
		return t, fmt.Errorf("pgVoteRepository.TallyForPlace: %w", err)
	}
	return t, nil
}
