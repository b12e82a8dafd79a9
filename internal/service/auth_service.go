package service

import (
	"errors"
	"time"

	"github.com/bagasta/addressbook/internal/config"
	"github.com/bagasta/addressbook/internal/model"
	"github.com/bagasta/addressbook/internal/utils"
)

const (
	pinLength = 6
	tokenTTL  = 24 * time.Hour
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	CreateUser(pin string) (*model.User, error)
	GetUserByPIN(pin string) (*model.User, error)
	UpdateLastLogin(userID string) error
}

type AuthService struct {
	Users  UserStore
	Config *config.Config
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:  users,
		Config: cfg,
	}
}

// GeneratePIN creates a new account with a fresh, unique PIN.
func (s *AuthService) GeneratePIN() (*model.User, error) {
	for i := 0; i < 5; i++ {
		pin, err := utils.GeneratePIN(pinLength)
		if err != nil {
			return nil, err
		}

		existing, err := s.Users.GetUserByPIN(pin)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return s.Users.CreateUser(pin)
		}
	}
	return nil, errors.New("failed to generate unique PIN")
}

// Login exchanges a PIN for a signed JWT.
func (s *AuthService) Login(pin string) (string, *model.User, error) {
	user, err := s.Users.GetUserByPIN(pin)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(user.ID, s.Config.JWTSecret, tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
