package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"pastelrecipes/internal/models"
	"pastelrecipes/internal/repositories"
)

type UserService interface {
	Register(user *models.User, plainPassword string) error
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateProfile(user *models.User) error
	DeleteUser(id int) error

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) Register(user *models.User, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return fmt.Errorf("password is required")
	}
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email == "" {
		return fmt.Errorf("email is required")
	}

	if existing, err := s.repo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email already registered")
	}

	hashedPassword, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword

	if err := s.repo.Create(user); err != nil {
		return err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.DisplayName); err != nil {
			// warn but do not fail registration
			log.Printf("Register: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) UpdateProfile(user *models.User) error {
	return s.repo.UpdateProfile(user)
}

func (s *userService) DeleteUser(id int) error {
	return s.repo.Delete(id)
}

func (s *userService) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(userID, token, expiresAt)
}

func (s *userService) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(oldToken, newToken, newExpiresAt)
}

func (s *userService) ClearRefresh(userID int) error {
	return s.repo.ClearRefresh(userID)
}

func (s *userService) GetByRefreshToken(token string) (*models.User, error) {
	return s.repo.GetByRefreshToken(token)
}
