package service

import (
	"errors"
	"log"

	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"
	"github.com/Sasaank79/Inventory-Management-System/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AuthService is the access gateway: it issues tokens, nothing more. The
// inventory core never consults it.
type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	SeedAdmin(username, password string) error
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a fresh token version invalidates older tokens.
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, Username: user.Username}, nil
}

// SeedAdmin creates the default admin account if it does not exist yet.
func (s *authService) SeedAdmin(username, password string) error {
	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := &model.User{Username: username}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Create(admin); err != nil {
		return err
	}
	log.Printf("Admin user created: %s", username)
	return nil
}
