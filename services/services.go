// Package services holds the business rules of the shop. Handlers call into a
// service with the authenticated Caller; services talk to the database only
// through store.Repository and report failures as *apperrors.HTTPError.
package services

import (
	"errors"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
)

// Default pagination window.
const (
	DefaultSkip = 0
	DefaultTake = 5
)

// Caller is the authenticated user on whose behalf an operation runs.
type Caller struct {
	UserID uint
	Role   models.Role
}

// CallerFrom builds a Caller for user.
func CallerFrom(user *models.User) Caller {
	return Caller{UserID: user.ID, Role: user.Role}
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// NormalizePage replaces a missing or negative window with the defaults.
func NormalizePage(page store.Page) store.Page {
	if page.Skip < 0 {
		page.Skip = DefaultSkip
	}
	if page.Take <= 0 {
		page.Take = DefaultTake
	}
	return page
}

// notFound maps store.ErrNotFound onto a client-facing not-found error and
// passes every other error through.
func notFound(err error, message string, code apperrors.ErrorCode) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(message, code).WithCause(err)
	}
	return err
}
