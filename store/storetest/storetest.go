// Package storetest opens throwaway databases for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-ecommerce-api/config"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
)

// New returns a migrated store backed by a private in-memory SQLite database
// that is closed when the test ends.
func New(t testing.TB) *store.Store {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	s, err := store.Open(config.DriverSQLite, dsn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// User inserts a user with the given role.
func User(t testing.TB, repo store.Repository, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: "user " + email, Email: email, Password: "x", Role: role}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// Product inserts a product priced at price.
func Product(t testing.TB, repo store.Repository, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Tags:        models.Tags{"test"},
	}
	require.NoError(t, repo.CreateProduct(context.Background(), product))
	return product
}
