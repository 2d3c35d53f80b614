package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pastelrecipes/internal/repositories"
	"pastelrecipes/internal/utils"
)

const passwordResetTTL = 1 * time.Hour

type PasswordResetService interface {
	RequestReset(email string) error
	// IssueToken creates a reset token without sending mail; used after a
	// successful phone verification so the user can set a new password.
	IssueToken(email string) (string, error)
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	repo     repositories.PasswordResetRepository
	emails   EmailService
	auth     AuthService
}

func NewPasswordResetService(userRepo repositories.UserRepository, repo repositories.PasswordResetRepository, emails EmailService, auth AuthService) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		repo:     repo,
		emails:   emails,
		auth:     auth,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil || user == nil {
		// don't leak existence
		log.Printf("[password-reset] request for %q: user not found or error: %v", email, err)
		return nil
	}

	token, err := utils.NewRefreshToken(32)
	if err != nil {
		return err
	}
	expires := time.Now().Add(passwordResetTTL)
	if _, err := s.repo.Create(user.ID, token, expires); err != nil {
		return err
	}

	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(user.Email, token); err != nil {
			log.Printf("[password-reset] failed to send email to %s: %v", user.Email, err)
		}
	}
	return nil
}

func (s *passwordResetService) IssueToken(email string) (string, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("user not found")
	}

	token, err := utils.NewRefreshToken(32)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.Create(user.ID, token, time.Now().Add(passwordResetTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return fmt.Errorf("token and password are required")
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	pr, err := s.repo.GetByToken(token)
	if err != nil || pr == nil {
		return errors.New("invalid or expired token")
	}
	if pr.UsedAt != nil {
		return errors.New("token already used")
	}
	if time.Now().After(pr.ExpiresAt) {
		return errors.New("token expired")
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(pr.UserID, hash); err != nil {
		return err
	}
	return s.repo.MarkUsed(pr.ID)
}
