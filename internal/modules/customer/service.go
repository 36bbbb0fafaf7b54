// README: Customer service; registration and credential checks.
package customer

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taxigo/internal/types"
)

var (
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrBadRequest         = errors.New("bad request")
)

// IsExpected reports whether err maps to a user-facing status.
func IsExpected(err error) bool {
	for _, e := range []error{ErrNotFound, ErrPhoneTaken, ErrInvalidCredentials, ErrBadRequest} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id types.ID) (Customer, error) {
	return s.store.Get(ctx, id)
}

// Register creates an account for the phone number. A customer row created
// implicitly by a booking can be claimed once by setting its credentials.
func (s *Service) Register(ctx context.Context, phone, name, password string) (types.ID, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || len(password) < 6 {
		return 0, ErrBadRequest
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.store.SetCredentials(ctx, phone, strings.TrimSpace(name), string(hash))
}

// Authenticate verifies the phone/password pair and returns the customer.
func (s *Service) Authenticate(ctx context.Context, phone, password string) (Customer, error) {
	c, err := s.store.GetByPhone(ctx, strings.TrimSpace(phone))
	if errors.Is(err, ErrNotFound) {
		return Customer{}, ErrInvalidCredentials
	}
	if err != nil {
		return Customer{}, err
	}
	if c.PasswordHash == "" {
		return Customer{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return Customer{}, ErrInvalidCredentials
	}
	return c, nil
}
