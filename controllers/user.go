package controllers

import (
	"net/http"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/middleware"
	"go-ecommerce-api/models"
	"go-ecommerce-api/schemas"
	"go-ecommerce-api/services"
)

// UserController handles auth, profile and address requests
type UserController struct {
	users *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Signup handles user registration
func (uc *UserController) Signup(w http.ResponseWriter, r *http.Request) {
	var req schemas.SignupRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	user, err := uc.users.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

// Login handles user login and returns a token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req schemas.LoginRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	user, token, err := uc.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}{user, token})
}

// Me returns the authenticated user
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apperrors.Write(w, r, apperrors.Unauthorized("Unauthorized", apperrors.UnauthorizedAccess))
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// UpdateUser changes the caller's name and default addresses
func (uc *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.UpdateUserRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	user, err := uc.users.UpdateUser(ctx, caller, req.Changes())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// AddAddress stores a new address for the caller
func (uc *UserController) AddAddress(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.AddressRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	address, err := uc.users.AddAddress(ctx, caller, req.Address())
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, addressView(*address))
}

// ListAddresses returns the caller's addresses
func (uc *UserController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	addresses, err := uc.users.ListAddresses(ctx, caller)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	views := make([]formattedAddress, 0, len(addresses))
	for _, a := range addresses {
		views = append(views, addressView(a))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"userAddresses": views})
}

// DeleteAddress removes one of the caller's addresses
func (uc *UserController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	id, err := pathID(r, apperrors.AddressNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	if err := uc.users.DeleteAddress(ctx, caller, id); err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, message{"Address deleted"})
}

// ListUsers returns a page of users (admin)
func (uc *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()
	users, count, err := uc.users.ListUsers(ctx, schemas.ParsePage(r.URL.Query()))
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"count": count, "users": users})
}

// GetUser returns one user with their addresses (admin)
func (uc *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.UserNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	user, err := uc.users.GetUser(ctx, id)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// ChangeUserRole sets a user's role (admin)
func (uc *UserController) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.UserNotFound)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	var req schemas.ChangeRoleRequest
	if err := schemas.Decode(r, &req); err != nil {
		apperrors.Write(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()
	user, err := uc.users.ChangeUserRole(ctx, id, req.Role)
	if err != nil {
		apperrors.Write(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

type formattedAddress struct {
	models.Address
	FormattedAddress string `json:"formattedAddress"`
}

func addressView(a models.Address) formattedAddress {
	return formattedAddress{Address: a, FormattedAddress: a.FormattedAddress()}
}
