package services

import "golang.org/x/crypto/bcrypt"

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error
}

type authService struct{}

func NewAuthService() AuthService { return &authService{} }

func (s *authService) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *authService) CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
