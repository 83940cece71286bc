package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	name, err := requireText("name", req.Name)
	if err != nil {
		return AuthResponse{}, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	if len(req.Password) < minPasswordLength {
		return AuthResponse{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	if len(req.Password) > maxPasswordBytes {
		return AuthResponse{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleRenter
	}
	if !domain.IsValidRole(role) {
		return AuthResponse{}, fmt.Errorf("%w: role must be owner or renter", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.nowFn()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AuthResponse{}, domain.ErrEmailTaken
		}
		return AuthResponse{}, err
	}

	s.logger.InfoContext(ctx, "user registered",
		"operation", "register",
		"outcome", "success",
		"user_id", user.ID,
		"role", user.Role,
	)
	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResponse{}, domain.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.WarnContext(ctx, "login rejected",
			"operation", "login",
			"outcome", "failure",
			"user_id", user.ID,
		)
		return AuthResponse{}, domain.ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// Authenticate resolves a bearer token to the caller identity.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.tokenSigner.ParseAndValidate(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: unknown subject", domain.ErrUnauthorized)
		}
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}

func (s *Service) Me(identity domain.Identity) UserView {
	return UserView{ID: identity.ID, Name: identity.Name, Email: identity.Email, Phone: identity.Phone, Role: identity.Role}
}

func (s *Service) issueToken(user domain.User) (AuthResponse, error) {
	now := s.nowFn()
	token, err := s.tokenSigner.Sign(ports.AuthClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
		User:      toUserView(user),
	}, nil
}
