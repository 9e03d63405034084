package identity

import (
	"context"
	"net/http"

	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"
)

// User is an account in the external food-ordering service. Employees link
// to it through their foodOrderingUserId.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

//go:generate mockgen -source=identity.go -destination=mock/identity_mock.go -package=mock
type Provider interface {
	Validate(ctx context.Context, userID int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"User is not known to the identity service",
		http.StatusUnauthorized,
	)
	ErrUpstreamUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Identity service is unavailable",
		http.StatusServiceUnavailable,
	)
)
