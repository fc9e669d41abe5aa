package repositories

import (
	"context"
	"errors"

	"github.com/ipetrenko/storefront/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is the storage-level uniqueness violation for the
	// partial unique index on non-deleted account emails. The index is the
	// authoritative guard; any in-service existence check is an optimization.
	ErrDuplicateEmail = errors.New("email already registered")
)

type AccountRepository interface {
	// Create inserts the account and, before committing, invokes onCreated
	// with the stored record. If onCreated returns an error the insert is
	// rolled back and the error is propagated.
	Create(ctx context.Context, account *models.Account, onCreated func(context.Context, *models.Account) error) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// ConsumeActivationToken activates the matching pending account and
	// clears its token in a single update. Returns false when no inactive,
	// non-deleted account carries the token.
	ConsumeActivationToken(ctx context.Context, token string) (bool, error)
	Update(ctx context.Context, account *models.Account) error
	SoftDelete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]*models.Product, error)
	Search(ctx context.Context, creatorID int64, filter ProductFilter) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id int64) error
}

// ProductFilter narrows Search results; nil fields are not applied.
type ProductFilter struct {
	Query       string
	MinPrice    *float64
	MaxPrice    *float64
	IsAvailable *bool
}

// ProductCache is a best-effort read cache for per-creator product lists.
type ProductCache interface {
	Get(ctx context.Context, creatorID int64) ([]*models.Product, error)
	Set(ctx context.Context, creatorID int64, products []*models.Product) error
	Invalidate(ctx context.Context, creatorID int64) error
}
