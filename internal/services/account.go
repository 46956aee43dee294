package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
	"petshop_back_end/internal/utils"
)

type AccountService struct {
	users  repository.UserRepository
	mailer Mailer
	bg     *background
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput holds the fields a client may change. Nil means unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", repository.ErrInvalidRequest, msg)
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, invalid("name, email and password are required")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("✅ User registered: %s", user.Email)

	if s.mailer != nil {
		registered := user.Clone()
		s.bg.run("welcome email", func(ctx context.Context) error {
			return s.mailer.SendWelcome(ctx, registered)
		})
	}
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, repository.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		log.Printf("⚠️ Password check failed for %s: %v", user.Email, err)
	}
	if !ok {
		return nil, repository.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AccountService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, invalid("email cannot be empty")
		}
		user.Email = email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, invalid("password cannot be empty")
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
