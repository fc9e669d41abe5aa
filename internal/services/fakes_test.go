package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/ipetrenko/storefront/internal/repositories"
)

// In-memory collaborators for service tests. The account store mirrors the
// postgres semantics that matter: uniqueness among non-deleted emails,
// rollback of an insert when the onCreated hook fails, and single-use
// activation tokens.

type memoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[int64]*models.Account
	nextID   int64
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: map[int64]*models.Account{}, nextID: 1}
}

func (r *memoryAccountRepo) Create(ctx context.Context, account *models.Account, onCreated func(context.Context, *models.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.liveByEmail(account.Email) != nil {
		return repositories.ErrDuplicateEmail
	}

	account.ID = r.nextID
	r.nextID++
	account.Email = strings.ToLower(account.Email)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt

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

func (r *memoryAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || account.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *memoryAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account := r.liveByEmail(email); account != nil {
		copied := *account
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryAccountRepo) ConsumeActivationToken(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.IsDeleted || account.IsActive || account.ActivationToken == nil {
			continue
		}
		if *account.ActivationToken == token {
			account.IsActive = true
			account.ActivationToken = nil
			account.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAccountRepo) Update(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[account.ID]
	if !ok || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	if other := r.liveByEmail(account.Email); other != nil && other.ID != account.ID {
		return repositories.ErrDuplicateEmail
	}

	stored.Name = account.Name
	stored.Email = strings.ToLower(account.Email)
	stored.PasswordHash = account.PasswordHash
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memoryAccountRepo) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	account.IsDeleted = true
	return nil
}

func (r *memoryAccountRepo) liveByEmail(email string) *models.Account {
	email = strings.ToLower(email)
	for _, account := range r.accounts {
		if !account.IsDeleted && account.Email == email {
			return account
		}
	}
	return nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type recordingSink struct {
	mu   sync.Mutex
	sent []sentEmail
	fail error
}

func (s *recordingSink) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// fakeHasher is a cheap stand-in for bcrypt that counts verifications, so
// tests can assert the equal-cost path runs for unknown accounts.
type fakeHasher struct {
	mu     sync.Mutex
	checks int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(hash, password string) bool {
	h.mu.Lock()
	h.checks++
	h.mu.Unlock()
	return hash == "hashed:"+password
}

func (h *fakeHasher) checkCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.checks
}

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[int64]*models.Product
	nextID   int64
	listed   int
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: map[int64]*models.Product{}, nextID: 1}
}

func (r *memoryProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *memoryProductRepo) ListByCreator(ctx context.Context, creatorID int64) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listed++
	result := []*models.Product{}
	for _, product := range r.products {
		if product.IsDeleted || product.CreatorID != creatorID {
			continue
		}
		copied := *product
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memoryProductRepo) Search(ctx context.Context, creatorID int64, filter repositories.ProductFilter) ([]*models.Product, error) {
	products, err := r.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	result := []*models.Product{}
	for _, product := range products {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(product.Name), q) &&
				!strings.Contains(strings.ToLower(product.Description), q) {
				continue
			}
		}
		if filter.MinPrice != nil && product.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && product.Price > *filter.MaxPrice {
			continue
		}
		if filter.IsAvailable != nil && product.IsAvailable != *filter.IsAvailable {
			continue
		}
		result = append(result, product)
	}
	return result, nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	stored.Name = product.Name
	stored.Description = product.Description
	stored.Price = product.Price
	stored.IsAvailable = product.IsAvailable
	return nil
}

func (r *memoryProductRepo) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.IsDeleted {
		return repositories.ErrNotFound
	}
	product.IsDeleted = true
	return nil
}

type memoryProductCache struct {
	mu      sync.Mutex
	entries map[int64][]*models.Product
	hits    int
}

func newMemoryProductCache() *memoryProductCache {
	return &memoryProductCache{entries: map[int64][]*models.Product{}}
}

func (c *memoryProductCache) Get(ctx context.Context, creatorID int64) ([]*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	products, ok := c.entries[creatorID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.hits++
	return products, nil
}

func (c *memoryProductCache) Set(ctx context.Context, creatorID int64, products []*models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[creatorID] = products
	return nil
}

func (c *memoryProductCache) Invalidate(ctx context.Context, creatorID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, creatorID)
	return nil
}

var errSinkDown = errors.New("smtp relay unreachable")
