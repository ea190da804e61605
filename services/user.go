package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
	"go-ecommerce-api/utils"
)

// UserChanges lists the profile fields a user may change. Nil fields are left
// untouched.
type UserChanges struct {
	Name                   *string
	DefaultShippingAddress *uint
	DefaultBillingAddress  *uint
}

// UserService handles accounts, credentials and addresses.
type UserService struct {
	repo   store.Repository
	tokens *utils.TokenManager
}

// NewUserService creates a new UserService
func NewUserService(repo store.Repository, tokens *utils.TokenManager) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

// Signup registers a new USER account.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     name,
		Email:    normalizeEmail(email),
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("User already exists!", apperrors.UserAlreadyExists).WithCause(err)
		}
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Uint("user_id", user.ID).Msg("user signed up")
	return user, nil
}

// Login checks the credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", notFound(err, "User not found", apperrors.UserNotFound)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, "", apperrors.Unauthorized("Incorrect password", apperrors.IncorrectPassword)
	}
	token, err := s.tokens.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ParseJWT(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Unauthorized", apperrors.UnauthorizedAccess).WithCause(err)
	}
	user, err := s.repo.FindUser(ctx, claims.UserID, false)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Unauthorized("Unauthorized", apperrors.UnauthorizedAccess).WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates an ADMIN account, or promotes the existing account with
// that email.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		user.Role = models.RoleAdmin
		if err := s.repo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	case errors.Is(err, store.ErrNotFound):
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user = &models.User{Name: name, Email: normalizeEmail(email), Password: hash, Role: models.RoleAdmin}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, err
	}
}

// GetUser returns a user with their addresses.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindUser(ctx, id, true)
	if err != nil {
		return nil, notFound(err, "User not found", apperrors.UserNotFound)
	}
	return user, nil
}

// ListUsers returns one page of users and the total user count.
func (s *UserService) ListUsers(ctx context.Context, page store.Page) ([]models.User, int64, error) {
	return s.repo.ListUsers(ctx, NormalizePage(page))
}

// ChangeUserRole sets the role of a user.
func (s *UserService) ChangeUserRole(ctx context.Context, id uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validation("Unprocessable entity", map[string]string{"role": "must be USER or ADMIN"})
	}
	var user *models.User
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		found, err := tx.FindUser(ctx, id, false)
		if err != nil {
			return notFound(err, "User not found", apperrors.UserNotFound)
		}
		found.Role = role
		if err := tx.UpdateUser(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Uint("user_id", id).Str("role", string(role)).Msg("user role changed")
	return user, nil
}

// UpdateUser changes the caller's profile. Default addresses must be
// addresses of the caller.
func (s *UserService) UpdateUser(ctx context.Context, caller Caller, changes UserChanges) (*models.User, error) {
	var user *models.User
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		found, err := tx.FindUser(ctx, caller.UserID, false)
		if err != nil {
			return notFound(err, "User not found", apperrors.UserNotFound)
		}
		if changes.Name != nil {
			found.Name = *changes.Name
		}
		if changes.DefaultShippingAddress != nil {
			if err := checkAddressOwner(ctx, tx, caller, *changes.DefaultShippingAddress); err != nil {
				return err
			}
			found.DefaultShippingAddress = changes.DefaultShippingAddress
		}
		if changes.DefaultBillingAddress != nil {
			if err := checkAddressOwner(ctx, tx, caller, *changes.DefaultBillingAddress); err != nil {
				return err
			}
			found.DefaultBillingAddress = changes.DefaultBillingAddress
		}
		if err := tx.UpdateUser(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func checkAddressOwner(ctx context.Context, tx store.Repository, caller Caller, addressID uint) error {
	address, err := tx.FindAddress(ctx, addressID)
	if err != nil {
		return notFound(err, "Address not found", apperrors.AddressNotFound)
	}
	if address.UserID != caller.UserID {
		return apperrors.BadRequest("Address does not belong to user", apperrors.AddressDoesNotBelong)
	}
	return nil
}

// AddAddress stores a new address for the caller.
func (s *UserService) AddAddress(ctx context.Context, caller Caller, address *models.Address) (*models.Address, error) {
	address.ID = 0
	address.UserID = caller.UserID
	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// ListAddresses returns the caller's addresses.
func (s *UserService) ListAddresses(ctx context.Context, caller Caller) ([]models.Address, error) {
	return s.repo.ListAddresses(ctx, caller.UserID)
}

// DeleteAddress removes one of the caller's addresses and unsets it as a
// default.
func (s *UserService) DeleteAddress(ctx context.Context, caller Caller, addressID uint) error {
	return s.repo.Transact(ctx, func(tx store.Repository) error {
		address, err := tx.FindAddress(ctx, addressID)
		if err != nil {
			return notFound(err, "Address not found", apperrors.AddressNotFound)
		}
		if address.UserID != caller.UserID {
			return apperrors.NotFound("Address not found", apperrors.AddressNotFound)
		}

		user, err := tx.FindUser(ctx, caller.UserID, false)
		if err != nil {
			return notFound(err, "User not found", apperrors.UserNotFound)
		}
		changed := false
		if user.DefaultShippingAddress != nil && *user.DefaultShippingAddress == addressID {
			user.DefaultShippingAddress = nil
			changed = true
		}
		if user.DefaultBillingAddress != nil && *user.DefaultBillingAddress == addressID {
			user.DefaultBillingAddress = nil
			changed = true
		}
		if changed {
			if err := tx.UpdateUser(ctx, user); err != nil {
				return err
			}
		}
		return tx.DeleteAddress(ctx, addressID)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
