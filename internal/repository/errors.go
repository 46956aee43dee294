package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = fmt.Errorf("user: %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("product: %w", ErrNotFound)
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingOwner       = errors.New("user ID is required")
	ErrCheckoutInProgress = errors.New("a checkout with this idempotency key is already in progress")
)
