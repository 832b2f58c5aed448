package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradedesk/internal/domain"
	"tradedesk/internal/security"
)

// AuthService composes the user directory, credential verifier and
// session store into the registration/login/role flows.
type AuthService struct {
	userRepo       domain.UserRepository
	activityRepo   domain.ActivityLogRepository
	sessions       domain.SessionStore
	startingCredit float64
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo domain.UserRepository,
	activityRepo domain.ActivityLogRepository,
	sessions domain.SessionStore,
	startingCredit float64,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		activityRepo:   activityRepo,
		sessions:       sessions,
		startingCredit: startingCredit,
	}
}

// Register creates a new user with a hashed password. The password is
// hashed before it ever reaches the repository.
func (s *AuthService) Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}
	if len(password) < 6 {
		return nil, domain.NewValidationError("password", "must be at least 6 characters")
	}
	if password != confirmPassword {
		return nil, domain.NewValidationError("confirmPassword", "passwords do not match")
	}
	if username == "" {
		username = email[:strings.Index(email, "@")+1]
		username = strings.TrimSuffix(username, "@")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		PasswordHash:    hash,
		Role:            domain.RoleUser,
		TradingBalance:  s.startingCredit,
		AvailableCredit: s.startingCredit,
		TotalInvested:   0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a session. Unknown email and
// wrong password produce the same error and burn the same bcrypt cost.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, domain.ErrUserNotFound) {
		security.VerifyDummy(password)
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("WARNING: failed to stamp last login for user %s: %v", user.ID, err)
	}
	user.LastLogin = &now

	s.logActivity(user.ID, domain.ActivityLoggedIn)

	return user, token, nil
}

// Logout destroys the session
func (s *AuthService) Logout(ctx context.Context, token string, userID uuid.UUID) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return err
	}

	s.logActivity(userID, domain.ActivityLoggedOut)
	return nil
}

// SetRole changes a user's role. Only an admin may do this; users never
// self-promote. Live sessions of the target pick up the new role.
func (s *AuthService) SetRole(ctx context.Context, actingAdminID, targetUserID uuid.UUID, newRole string) error {
	if !domain.ValidRole(newRole) {
		return domain.NewValidationError("role", "unknown role")
	}

	acting, err := s.userRepo.GetByID(ctx, actingAdminID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if acting.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.userRepo.UpdateRole(ctx, targetUserID, newRole); err != nil {
		return err
	}

	if err := s.sessions.UpdateRoleForUser(ctx, targetUserID, newRole); err != nil {
		return fmt.Errorf("failed to update sessions after role change: %w", err)
	}

	s.logActivity(targetUserID, domain.ActivityRoleChanged)
	return nil
}

// DeleteUser removes a user and invalidates every session they hold
func (s *AuthService) DeleteUser(ctx context.Context, actingAdminID, targetUserID uuid.UUID) error {
	acting, err := s.userRepo.GetByID(ctx, actingAdminID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if acting.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, targetUserID); err != nil {
		return err
	}

	// A session referencing a deleted user must not survive
	if err := s.sessions.DestroyAllForUser(ctx, targetUserID); err != nil {
		return fmt.Errorf("failed to invalidate sessions of deleted user: %w", err)
	}

	return nil
}

// logActivity appends an activity record off the request path. Failures
// are logged and dropped; this record is not authoritative.
func (s *AuthService) logActivity(userID uuid.UUID, activity string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		entry := &domain.ActivityLog{
			ID:        uuid.New(),
			UserID:    userID,
			Activity:  activity,
			Timestamp: time.Now(),
		}
		if err := s.activityRepo.Insert(ctx, entry); err != nil {
			log.Printf("WARNING: failed to log activity %q for user %s: %v", activity, userID, err)
		}
	}()
}
