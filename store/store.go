// Package store is the relational data access layer. Every read and write the
// services perform goes through Repository, and multi-step writes run inside
// Repository.Transact so they commit or roll back as one unit.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-ecommerce-api/config"
	"go-ecommerce-api/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("store: duplicate key")
)

// Page selects a window of a result set.
type Page struct {
	Skip int
	Take int
}

// OrderFilter narrows an order listing. Zero values mean "any".
type OrderFilter struct {
	UserID uint
	Status models.OrderStatus
	Page
}

// ProductRepository is the catalog data access surface.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	FindProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, page Page) ([]models.Product, int64, error)
	SearchProducts(ctx context.Context, query string, page Page) ([]models.Product, int64, error)
}

// CartRepository is the cart data access surface.
type CartRepository interface {
	// CartItems returns the user's cart lines with their product loaded. A line
	// whose product was deleted has a nil Product. With forUpdate the rows are
	// locked until the surrounding transaction ends.
	CartItems(ctx context.Context, userID uint, forUpdate bool) ([]models.CartItem, error)
	FindCartItem(ctx context.Context, id uint) (*models.CartItem, error)
	FindCartItemByProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, id uint) error
	// DeleteCartItems removes the listed lines of one user and reports how many
	// rows were actually deleted.
	DeleteCartItems(ctx context.Context, userID uint, ids []uint) (int64, error)
}

// OrderRepository is the order data access surface.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderEvent(ctx context.Context, event *models.OrderEvent) error
	FindOrder(ctx context.Context, id uint, withDetails bool) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
}

// UserRepository is the user and address data access surface.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, id uint, withAddresses bool) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, page Page) ([]models.User, int64, error)
	CreateAddress(ctx context.Context, address *models.Address) error
	FindAddress(ctx context.Context, id uint) (*models.Address, error)
	ListAddresses(ctx context.Context, userID uint) ([]models.Address, error)
	DeleteAddress(ctx context.Context, id uint) error
}

// Repository is everything the services need from the database.
type Repository interface {
	ProductRepository
	CartRepository
	OrderRepository
	UserRepository

	// Transact runs fn inside one database transaction. fn must use only the
	// Repository it is given. A non-nil error from fn rolls everything back.
	Transact(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error
}

// Store is the GORM implementation of Repository.
type Store struct {
	db *gorm.DB
}

var _ Repository = (*Store)(nil)

// New wraps an open GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database selected by driver.
//
//	s, err := store.Open(config.DriverSQLite, "file:shop.db", log.Logger)
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverMySQL:
		dialector = mysql.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(&log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("store: sqlite pool: %w", err)
		}
		// SQLite allows a single writer; one connection also keeps a
		// shared in-memory database alive for the life of the pool.
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db), nil
}

// sqliteDSN switches on foreign keys and a busy timeout unless the caller
// already configured pragmas.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates or updates the schema for every model.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transact implements Repository.
func (s *Store) Transact(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) supportsRowLocks() bool {
	return s.db.Dialector.Name() == config.DriverMySQL
}

// translate maps GORM sentinel errors onto the store's own.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func paginate(page Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Skip).Limit(page.Take)
	}
}
