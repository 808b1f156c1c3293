package service

import (
	"context"
	"fmt"
	"time"

	"ticket-box-office/internal/core/domain"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	buyerRepo ports.BuyerRepository
	hashSvc   ports.HashService
	tokenSvc  ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	buyerRepo ports.BuyerRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		buyerRepo: buyerRepo,
		hashSvc:   hashSvc,
		tokenSvc:  tokenSvc,
	}
}

// Register creates a new buyer account. Ledger state (history, credit) is
// created lazily on the buyer's first settled trade, not here.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.RegisterResponse, error) {
	existing, err := s.buyerRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	buyer := &domain.Buyer{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Status:       domain.BuyerStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.buyerRepo.Create(ctx, buyer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create buyer: %w", err))
	}

	return &ports.RegisterResponse{
		BuyerID:  buyer.ID,
		Username: buyer.Username,
	}, nil
}

// Login validates credentials and returns a JWT token with its expiry.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	buyer, err := s.buyerRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find buyer: %w", err))
	}
	if buyer == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, buyer.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !buyer.IsActive() {
		return "", time.Time{}, apperror.ErrBuyerSuspended()
	}

	token, expiry, err := s.tokenSvc.Generate(buyer.ID, buyer.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
