package user

import (
	"context"
	defError "errors"

	"portfolio-builder/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service defines the interface for user business logic
type Service interface {
	Register(user *User) error
	Login(email, password string) (*User, error)
	GetUserByID(id uint64) (*User, error)
	UpdateProfile(id uint64, name, username string) (*User, error)
	SetAvatar(id uint64, url string) (*User, error)
	OwnerInfo(ctx context.Context, userID uint64) (name, username string, err error)
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
}

// NewService creates a new user service
func NewService(repository UserRepository) Service {
	return &DefaultService{repository: repository}
}

// Register registers a new user
func (s *DefaultService) Register(user *User) error {
	// Check if a user with this email or username already exists
	_, err := s.repository.FindByEmailOrUsername(user.Email, user.Username)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.Conflict("User with this email or username already exists", nil)
	}

	// Hash the password before saving
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal(err)
	}
	user.PasswordHash = string(hashedPassword)

	return s.repository.Create(user)
}

// Login authenticates a user
func (s *DefaultService) Login(email, password string) (*User, error) {
	user, err := s.repository.FindByEmail(email)
	if err != nil {
		return nil, errors.Unauthorized("Invalid email or password", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.Unauthorized("Invalid email or password", err)
	}

	return user, nil
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(id uint64) (*User, error) {
	user, err := s.repository.FindByID(id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("User not found", err)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes name and username, keeping username unique
func (s *DefaultService) UpdateProfile(id uint64, name, username string) (*User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if username != "" && username != user.Username {
		existing, err := s.repository.FindByEmailOrUsername("", username)
		if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existing.ID != id {
			return nil, errors.Conflict("Username already taken", nil)
		}
		user.Username = username
	}
	if name != "" {
		user.Name = name
	}

	if err := s.repository.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// OwnerInfo exposes the display identity the public portfolio page shows
func (s *DefaultService) OwnerInfo(ctx context.Context, userID uint64) (string, string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", "", err
	}
	return user.Name, user.Username, nil
}

// SetAvatar stores the uploaded profile picture URL; an empty url clears it
func (s *DefaultService) SetAvatar(id uint64, url string) (*User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = url
	if err := s.repository.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
