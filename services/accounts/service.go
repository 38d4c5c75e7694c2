package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"

	"everafter/internal/database"
	"everafter/models"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrCannotDeleteAdmin  = errors.New("cannot delete the superadmin user")
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// Service manages user accounts on top of the user repository.
type Service struct {
	users *database.UserRepository
}

// NewService creates an accounts service.
func NewService(users *database.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a new user with the given email, password, and display name.
func (s *Service) Register(email, pass, name string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrEmailRequired
	}

	pass = strings.TrimSpace(pass)
	if pass == "" {
		return nil, ErrPasswordRequired
	}
	if len(pass) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (s *Service) Authenticate(email, pass string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	pass = strings.TrimSpace(pass)

	if email == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Run a bcrypt comparison anyway to level response timing
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$dummyhashdummyhashdummyhashdummyhashdummyhashdummyha"), []byte(pass))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pass)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Get returns the user with the given ID.
func (s *Service) Get(id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns all users. Admin use only.
func (s *Service) List() ([]*models.User, error) {
	return s.users.ListUsers()
}

// UpdatePassword verifies the current password and replaces it.
func (s *Service) UpdatePassword(id int64, current, next string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(current))); err != nil {
		return ErrInvalidCredentials
	}

	next = strings.TrimSpace(next)
	if len(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(id, string(hash))
}

// Delete removes a user and, via cascade, everything they own. The superadmin
// user cannot be deleted.
func (s *Service) Delete(id int64) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return ErrCannotDeleteAdmin
	}

	deleted, err := s.users.DeleteUser(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// EnsureSuperadmin creates the superadmin user with a generated password when
// none exists yet. The generated password is returned exactly once so the
// caller can print it; subsequent calls return an empty string.
func (s *Service) EnsureSuperadmin(email string) (string, error) {
	admin, err := s.users.GetAdminUser()
	if err != nil {
		return "", err
	}
	if admin != nil {
		return "", nil
	}

	generated, err := password.Generate(20, 5, 0, false, false)
	if err != nil {
		return "", fmt.Errorf("generate admin password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(generated), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}

	user := &models.User{
		Email:        strings.TrimSpace(strings.ToLower(email)),
		Name:         "Superadmin",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.users.CreateUser(user); err != nil {
		return "", err
	}
	return generated, nil
}
