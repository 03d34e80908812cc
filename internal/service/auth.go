package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/utils"
)

// AuthService registers users and issues token pairs.
type AuthService struct {
	Users          UserStore
	Tokens         TokenStore
	Secret         string
	AccessTTL      time.Duration
	RefreshTTLDays int
	BcryptCost     int
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Session is a user plus a freshly issued access/refresh pair.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// Register creates a regular (non-admin) account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return Session{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return Session{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	u, err := s.createUser(ctx, in, false)
	if err != nil {
		return Session{}, err
	}
	return s.issue(ctx, u)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, admin bool) (model.User, error) {
	hash, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{Name: in.Name, Email: in.Email, Phone: in.Phone, PasswordHash: hash, IsAdmin: admin}
	if err := s.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, err
	}
	return u, nil
}

// Login verifies credentials.  Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued with the user's current admin flag.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, fmt.Errorf("%w: refreshToken is required", ErrValidation)
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidRefresh
		}
		return Session{}, err
	}
	// Revocation is the commit point: of two refreshes racing on one token
	// only the caller that revokes it gets a new pair.
	if err := s.Tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidRefresh
		}
		return Session{}, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidRefresh
		}
		return Session{}, err
	}
	return s.issue(ctx, u)
}

// Logout revokes one refresh token, or every token of userID when raw is
// empty and userID is known.
func (s *AuthService) Logout(ctx context.Context, userID uint64, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if userID == 0 {
			return fmt.Errorf("%w: refreshToken is required", ErrValidation)
		}
		return s.Tokens.RevokeAllForUser(ctx, userID)
	}
	hash := utils.HashRefreshRaw(raw)
	if _, err := s.Tokens.ValidateRefresh(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRefresh
		}
		return err
	}
	if err := s.Tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRefresh
		}
		return err
	}
	return nil
}

// Me loads the caller's own record.
func (s *AuthService) Me(ctx context.Context, caller Identity) (model.User, error) {
	u, err := s.Users.GetByID(ctx, caller.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// EnsureAdmin makes sure an admin account exists for email, creating it or
// promoting an existing user.  Used once at startup.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	u, err := s.Users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if !u.IsAdmin {
			if err := s.Users.SetAdmin(ctx, u.ID, true); err != nil {
				return model.User{}, err
			}
			u.IsAdmin = true
		}
		return u, nil
	case errors.Is(err, repository.ErrNotFound):
		if strings.TrimSpace(in.Name) == "" {
			in.Name = "Administrator"
		}
		return s.createUser(ctx, in, true)
	default:
		return model.User{}, err
	}
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.Secret, u.ID, u.IsAdmin, s.AccessTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.RefreshTTLDays)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, fmt.Errorf("store refresh token: %w", err)
	}
	return Session{User: u, Access: access, Refresh: refresh}, nil
}
