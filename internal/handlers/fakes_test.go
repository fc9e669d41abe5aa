package handlers

import (
	"context"
	"strings"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/ipetrenko/storefront/internal/repositories"
)

// Minimal in-memory stores for HTTP-level tests. Semantics mirror the
// postgres repositories closely enough for the boundary behavior under
// test: status mapping, masking, and principal handling.

type fakeAccountRepo struct {
	accounts map[int64]*models.Account
	nextID   int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[int64]*models.Account{}, nextID: 1}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account, onCreated func(context.Context, *models.Account) error) error {
	if r.liveByEmail(account.Email) != nil {
		return repositories.ErrDuplicateEmail
	}
	account.ID = r.nextID
	r.nextID++
	stored := *account
	r.accounts[account.ID] = &stored
	if onCreated != nil {
		if err := onCreated(ctx, account); err != nil {
			delete(r.accounts, account.ID)
			return err
		}
	}
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok || account.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if account := r.liveByEmail(email); account != nil {
		copied := *account
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAccountRepo) ConsumeActivationToken(ctx context.Context, token string) (bool, error) {
	for _, account := range r.accounts {
		if account.IsDeleted || account.IsActive || account.ActivationToken == nil {
			continue
		}
		if *account.ActivationToken == token {
			account.IsActive = true
			account.ActivationToken = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	stored, ok := r.accounts[account.ID]
	if !ok || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	if other := r.liveByEmail(account.Email); other != nil && other.ID != account.ID {
		return repositories.ErrDuplicateEmail
	}
	stored.Name = account.Name
	stored.Email = account.Email
	stored.PasswordHash = account.PasswordHash
	return nil
}

func (r *fakeAccountRepo) SoftDelete(ctx context.Context, id int64) error {
	account, ok := r.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	account.IsDeleted = true
	return nil
}

func (r *fakeAccountRepo) liveByEmail(email string) *models.Account {
	email = strings.ToLower(email)
	for _, account := range r.accounts {
		if !account.IsDeleted && strings.ToLower(account.Email) == email {
			return account
		}
	}
	return nil
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*models.Product{}, nextID: 1}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	product.ID = r.nextID
	r.nextID++
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) ListByCreator(ctx context.Context, creatorID int64) ([]*models.Product, error) {
	result := []*models.Product{}
	for _, product := range r.products {
		if !product.IsDeleted && product.CreatorID == creatorID {
			copied := *product
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) Search(ctx context.Context, creatorID int64, filter repositories.ProductFilter) ([]*models.Product, error) {
	return r.ListByCreator(ctx, creatorID)
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	stored, ok := r.products[product.ID]
	if !ok || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	*stored = *product
	return nil
}

func (r *fakeProductRepo) SoftDelete(ctx context.Context, id int64) error {
	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return repositories.ErrNotFound
	}
	product.IsDeleted = true
	return nil
}

type fakeSink struct {
	sent int
	fail error
}

func (s *fakeSink) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.fail != nil {
		return s.fail
	}
	s.sent++
	return nil
}

// plainHasher keeps handler tests fast; hashing itself is covered in the
// utils package.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Check(hash, password string) bool     { return hash == "hashed:"+password }

type fakeValidator struct {
	valid bool
	err   error
}

func (v *fakeValidator) IsValidAccount(ctx context.Context, accountID int64) (bool, error) {
	return v.valid, v.err
}
