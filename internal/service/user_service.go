package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-service/internal/broker"
	"shop-service/internal/fault"
	"shop-service/internal/models"
	"shop-service/internal/schema"
	"shop-service/internal/store"
	"shop-service/internal/util"
)

// UserService handles user registration, lookup and partial updates.
type UserService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store *store.Store, eventPublisher *broker.EventPublisher) *UserService {
	return &UserService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// Create registers a user: the duplicate check and the insert share one
// transaction, the password is bcrypt-hashed and never echoed back.
func (s *UserService) Create(ctx context.Context, req *schema.UserCreateRequest) (*schema.UserResponse, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("user").Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hash),
		Firstname:      req.Firstname,
		LastName:       req.LastName,
		Birthday:       req.Birthday.Time,
		UUID:           uuid.New(),
	}

	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := s.store.UsernameOrEmailTaken(ctx, tx, user.Username, user.Email)
		if err != nil {
			return fmt.Errorf("failed to check user uniqueness: %w", err)
		}
		if taken {
			return fault.Conflict("user", "username or email already exists")
		}
		return s.store.InsertUser(ctx, tx, user)
	})
	if err != nil {
		if fault.IsConflict(err) {
			util.ConflictsTotal.WithLabelValues("user").Inc()
		}
		return nil, err
	}

	util.UsersCreatedTotal.Inc()
	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	event := &models.UserRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeUserRegistered,
			Timestamp: time.Now(),
		},
		UserID:   user.ID,
		Username: user.Username,
	}
	if err := s.eventPublisher.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Error("Failed to publish UserRegistered event", zap.Error(err))
	}

	resp := schema.NewUserResponse(user)
	return &resp, nil
}

// Get retrieves one user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*schema.UserResponse, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := schema.NewUserResponse(user)
	return &resp, nil
}

// List retrieves a page of users in storage order.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]schema.UserResponse, error) {
	skip, limit = schema.NormalizeListParams(skip, limit)
	users, err := s.store.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return schema.NewUserResponses(users), nil
}

// Update applies only the fields present in req onto the stored user and
// returns the refreshed row.
func (s *UserService) Update(ctx context.Context, id int64, req *schema.UserUpdateRequest) (*schema.UserResponse, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Update")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.ValidationFailuresTotal.WithLabelValues("user").Inc()
		return nil, err
	}

	var user *models.User
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.store.GetUserForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		req.ApplyTo(user)
		return s.store.UpdateUser(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User updated", zap.Int64("user_id", id))

	resp := schema.NewUserResponse(user)
	return &resp, nil
}
