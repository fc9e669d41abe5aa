package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/ipetrenko/storefront/internal/repositories"
)

// PasswordHasher is a one-way salted hash with verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) bool
}

// NotificationSink delivers the activation email. A failure aborts the
// registration it belongs to.
type NotificationSink interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// IdentityService drives the account lifecycle:
// registered (pending activation) -> active -> deleted.
type IdentityService struct {
	accountRepo    repositories.AccountRepository
	hasher         PasswordHasher
	tokens         *TokenService
	notifications  NotificationSink
	confirmBaseURL string

	// dummyHash keeps Authenticate's cost constant when no account
	// matches the email, so response timing does not reveal existence.
	dummyHash string
}

func NewIdentityService(
	accountRepo repositories.AccountRepository,
	hasher PasswordHasher,
	tokens *TokenService,
	notifications NotificationSink,
	confirmBaseURL string,
) (*IdentityService, error) {
	dummyHash, err := hasher.Hash("storefront-equal-cost-dummy")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &IdentityService{
		accountRepo:    accountRepo,
		hasher:         hasher,
		tokens:         tokens,
		notifications:  notifications,
		confirmBaseURL: confirmBaseURL,
		dummyHash:      dummyHash,
	}, nil
}

// Register creates a pending account and dispatches the confirmation email
// atomically: if the sink fails the account is rolled back, so a pending
// account whose owner never received a token cannot exist. The unique index
// on non-deleted emails is the authoritative duplicate guard; the lookup
// below only gives a friendlier fast path.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (*models.Account, error) {
	if _, err := s.accountRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	activationToken, err := s.tokens.NewActivationToken()
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Name:            name,
		Email:           email,
		Role:            models.RoleUser,
		PasswordHash:    passwordHash,
		IsActive:        false,
		ActivationToken: &activationToken,
	}

	err = s.accountRepo.Create(ctx, account, func(ctx context.Context, created *models.Account) error {
		link := fmt.Sprintf("%s/api/users/confirm-email?token=%s", s.confirmBaseURL, activationToken)
		body := fmt.Sprintf(`Please confirm your account by clicking <a href=%q>here</a>.`, link)
		if err := s.notifications.Send(ctx, created.Email, "Confirm your account", body); err != nil {
			return fmt.Errorf("%w: %w", ErrNotification, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		if errors.Is(err, ErrNotification) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// ConfirmEmail consumes an activation token. It reports false, with no
// error, when the token matches nothing or the account is already active;
// the token is single-use.
func (s *IdentityService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.accountRepo.ConsumeActivationToken(ctx, token)
}

// Authenticate verifies the password and issues a fresh identity token.
// Unknown emails still pay for a hash comparison before failing.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (string, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.hasher.Check(s.dummyHash, password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Check(account.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	if !account.IsActive {
		return "", ErrAccountNotConfirmed
	}

	token, err := s.tokens.IssueIdentityToken(account)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// UpdateProfile overwrites only the supplied fields.
func (s *IdentityService) UpdateProfile(ctx context.Context, accountID int64, name, email *string) error {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if name != nil {
		account.Name = *name
	}
	if email != nil {
		account.Email = *email
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return ErrDuplicateEmail
		case errors.Is(err, repositories.ErrNotFound):
			return ErrNotFound
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password before rehashing.
func (s *IdentityService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.hasher.Check(s.dummyHash, oldPassword)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Check(account.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	account.PasswordHash, err = s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// SoftDelete marks the account deleted. Deletion is terminal: there is no
// undelete, the account can no longer authenticate, and its email becomes
// available to new registrations. Repeated deletes succeed silently.
func (s *IdentityService) SoftDelete(ctx context.Context, accountID int64) error {
	if err := s.accountRepo.SoftDelete(ctx, accountID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// GetByID returns the account with the password hash redacted.
func (s *IdentityService) GetByID(ctx context.Context, accountID int64) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	view := *account
	view.PasswordHash = ""
	view.ActivationToken = nil
	return &view, nil
}
