package service

import (
	"context"
	"fmt"

	"p2v/internal/common"
	"p2v/internal/common/security"
	"p2v/internal/domain/model"
	"p2v/internal/domain/repository"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"
)

type UserService struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	log      *logger.Logger
	metrics  metrics.Recorder
}

func NewUserService(userRepo repository.UserRepository, hasher security.PasswordHasher, log *logger.Logger, rec metrics.Recorder) *UserService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &UserService{userRepo: userRepo, hasher: hasher, log: log.With("service", "UserService"), metrics: rec}
}

// CreateUserRequest is the admin-only variant of registration that may
// pick a role.
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role"`
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, createdBy *model.User, req CreateUserRequest) (*model.User, error) {
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, common.NewError(common.ErrValidation, "role must be one of user, staff, admin")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.NewLocalUser(req.Email, hashed, req.FirstName, req.LastName)
	user.Role = role
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.RecordUserProvisioned(model.ProviderLocal)
	s.log.Info("user created by admin", "user_id", user.ID, "role", role, "created_by", createdBy.ID)
	return user, nil
}
