package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"go-ecommerce-api/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return fmt.Errorf("store: create user: %w", translate(err))
	}
	return nil
}

// UpdateUser writes the mutable profile columns of user.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	err := s.conn(ctx).Model(user).
		Select("Name", "Role", "DefaultShippingAddress", "DefaultBillingAddress").
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("store: update user %d: %w", user.ID, translate(err))
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id uint, withAddresses bool) (*models.User, error) {
	db := s.conn(ctx)
	if withAddresses {
		db = db.Preload("Addresses")
	}
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, page Page) ([]models.User, int64, error) {
	var count int64
	if err := s.conn(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("store: count users: %w", err)
	}
	users := []models.User{}
	if err := s.conn(ctx).Scopes(paginate(page)).Order("id").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("store: list users: %w", err)
	}
	return users, count, nil
}

func (s *Store) CreateAddress(ctx context.Context, address *models.Address) error {
	if err := s.conn(ctx).Create(address).Error; err != nil {
		return fmt.Errorf("store: create address: %w", translate(err))
	}
	return nil
}

func (s *Store) FindAddress(ctx context.Context, id uint) (*models.Address, error) {
	var address models.Address
	if err := s.conn(ctx).First(&address, id).Error; err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (s *Store) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	addresses := []models.Address{}
	if err := s.conn(ctx).Where("user_id = ?", userID).Order("id").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("store: addresses of user %d: %w", userID, err)
	}
	return addresses, nil
}

func (s *Store) DeleteAddress(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Address{}, id)
	if res.Error != nil {
		return fmt.Errorf("store: delete address %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
