package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword — неверный пароль доступа.
var ErrInvalidPassword = errors.New("invalid access password")

// AccessService проверяет общий пароль доступа к картотеке.
// Пароль хранится только в виде bcrypt-хэша; если не задан ни пароль, ни хэш — доступ открыт.
type AccessService struct {
	hash []byte
}

// NewAccessService принимает готовый bcrypt-хэш либо пароль в открытом виде (хэшируется при старте).
func NewAccessService(password, hash string) (*AccessService, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &AccessService{hash: []byte(hash)}, nil
	}
	if password == "" {
		return &AccessService{}, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AccessService{hash: h}, nil
}

// Enabled — включена ли проверка пароля.
func (s *AccessService) Enabled() bool {
	return s != nil && len(s.hash) > 0
}

// Login сверяет пароль с хэшем.
func (s *AccessService) Login(password string) error {
	if !s.Enabled() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
