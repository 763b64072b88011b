package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// Service holds the user rules that do not belong to one entity:
// password hashing, credential checks and email uniqueness.
type Service interface {
	// HashPassword returns the bcrypt hash of plain.
	HashPassword(plain string) (string, error)

	// Authenticate loads the user by email and checks the password.
	// An unknown email and a wrong password both yield ErrInvalidPassword.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword compares a bcrypt hash with a plain password.
	ValidatePassword(hashedPassword, plainPassword string) error

	// EnsureEmailAvailable returns ErrEmailTaken when another user than
	// exceptID already uses email. Pass 0 when inserting.
	EnsureEmailAvailable(ctx context.Context, email string, exceptID uint) error
}

type service struct {
	repo Repository
	cost int
}

// NewService creates the user service with bcrypt.DefaultCost.
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, bcrypt.DefaultCost)
}

// NewServiceWithCost lets tests use bcrypt.MinCost.
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "Password hashing failed")
	}
	return string(hashed), nil
}

// Authenticate hides whether the email exists.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}
	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "Password check failed")
	}
	return nil
}

func (s *service) EnsureEmailAvailable(ctx context.Context, email string, exceptID uint) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exceptID {
		return ErrEmailTaken
	}
	return nil
}
