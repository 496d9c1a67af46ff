package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"p2v/internal/common"
	"p2v/internal/domain/model"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *model.Place) error
	Update(ctx context.Context, place *model.Place) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Place, error)
	List(ctx context.Context, limit, offset int) ([]model.Place, error)
	UpdateTally(ctx context.Context, tally model.VoteTally) error
}

type pgPlaceRepository struct {
	db *sql.DB
}

func NewPgPlaceRepository(db *sql.DB) PlaceRepository {
	return &pgPlaceRepository{db: db}
}

const placeColumns = `id, user_id, place_name, place_address, pincode, slug, upvotes, downvotes, created_at`

func (r *pgPlaceRepository) Create(ctx context.Context, p *model.Place) error {
	query := `INSERT INTO places (id, user_id, place_name, place_address, pincode, slug)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.PlaceName, p.PlaceAddress, p.Pincode, p.Slug).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPlaceRepository) Update(ctx context.Context, p *model.Place) error {
	query := `UPDATE places SET place_name = $1, place_address = $2, pincode = $3, slug = $4
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, p.PlaceName, p.PlaceAddress, p.Pincode, p.Slug, p.ID)
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Update: %w", err)
	}
	return expectAffected(res)
}

func (r *pgPlaceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Delete: %w", err)
	}
	return expectAffected(res)
}

func (r *pgPlaceRepository) FindByID(ctx context.Context, id string) (*model.Place, error) {
	p := &model.Place{}
	err := r.db.QueryRowContext(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id).Scan(
		&p.ID, &p.UserID, &p.PlaceName, &p.PlaceAddress, &p.Pincode, &p.Slug, &p.Upvotes, &p.Downvotes, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlaceRepository.FindByID: %w", err)
	}
	return p, nil
}

// List returns places newest first. A limit of zero or less means no limit.
func (r *pgPlaceRepository) List(ctx context.Context, limit, offset int) ([]model.Place, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, lim, offset)
	if err != nil {
		return nil, fmt.Errorf("pgPlaceRepository.List: %w", err)
	}
	defer rows.Close()

	places := []model.Place{}
	for rows.Next() {
		var p model.Place
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlaceName, &p.PlaceAddress, &p.Pincode, &p.Slug, &p.Upvotes, &p.Downvotes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgPlaceRepository.List scan: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPlaceRepository.List rows: %w", err)
	}
	return places, nil
}

func (r *pgPlaceRepository) UpdateTally(ctx context.Context, t model.VoteTally) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE places SET upvotes = $1, downvotes = $2 WHERE id = $3`, t.Upvotes, t.Downvotes, t.PlaceID)
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.UpdateTally: %w", err)
	}
	return expectAffected(res)
}
