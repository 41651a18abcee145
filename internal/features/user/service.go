package user

import (
	"context"
	"errors"
	"time"

	"go-court/internal/common/models"
	"go-court/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, role string, limit, offset int64) ([]models.User, int64, error)
	UpdateUser(ctx context.Context, id string, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return errors.New("email is required")
	}
	if user.Role == "" {
		user.Role = models.RoleCitizen
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Status = "active"
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, user); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionCreate, "users", user.ID.Hex(), map[string]models.Change{
		"email": {New: user.Email},
		"role":  {New: user.Role},
	})
	return nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return u, err
}

func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return u, err
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, role string, limit, offset int64) ([]models.User, int64, error) {
	filter := map[string]interface{}{}
	if role != "" {
		filter["role"] = role
	}
	return s.Repo.List(ctx, filter, limit, offset)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, user *models.User) error {
	old, _ := s.Repo.FindByID(ctx, id)

	user.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, id, user); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionUpdate, "users", id, map[string]models.Change{
		"user": {Old: old, New: user},
	})
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	old, _ := s.Repo.FindByID(ctx, id)

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, models.AuditActionDelete, "users", id, map[string]models.Change{
		"user": {Old: old, New: "DELETED"},
	})
	return nil
}
