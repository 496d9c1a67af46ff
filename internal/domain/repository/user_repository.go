package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"p2v/internal/common"
	"p2v/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGoogleSub(ctx context.Context, sub string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, hashed_password, provider, google_sub, role, profile_url, created_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, first_name, last_name, hashed_password, provider, google_sub, role, profile_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.HashedPassword,
		user.Provider, user.GoogleSub, user.Role, user.ProfileURL,
	).Scan(&user.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("user with given email or google account already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "FindByEmail", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *pgUserRepository) FindByGoogleSub(ctx context.Context, sub string) (*model.User, error) {
	return r.findOne(ctx, "FindByGoogleSub", `SELECT `+userColumns+` FROM users WHERE google_sub = $1`, sub)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "FindByID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET email = $1 WHERE id = $2`, email, id)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("email already in use: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.UpdateEmail: %w", err)
	}
	return expectAffected(res)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.HashedPassword,
		&user.Provider, &user.GoogleSub, &user.Role, &user.ProfileURL, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
