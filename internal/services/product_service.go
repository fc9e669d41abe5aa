package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/ipetrenko/storefront/internal/repositories"
)

// ProductInput carries caller-supplied product fields. It deliberately has
// no creator field: authorship always comes from the verified principal.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	IsAvailable bool
}

// ProductService implements the catalog operations. Every read-by-id,
// update and delete goes through the ownership check; list and search only
// ever query the principal's own rows.
type ProductService struct {
	productRepo repositories.ProductRepository
	cache       repositories.ProductCache
}

// NewProductService creates the service. cache may be nil, in which case
// every list hits the database.
func NewProductService(productRepo repositories.ProductRepository, cache repositories.ProductCache) *ProductService {
	return &ProductService{productRepo: productRepo, cache: cache}
}

func (s *ProductService) Create(ctx context.Context, principalID int64, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		IsAvailable: input.IsAvailable,
		CreatorID:   principalID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, principalID)
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, principalID, productID int64) (*models.Product, error) {
	product, err := s.getOwned(ctx, principalID, productID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, principalID int64) ([]*models.Product, error) {
	if s.cache != nil {
		if products, err := s.cache.Get(ctx, principalID); err == nil {
			return products, nil
		}
	}

	products, err := s.productRepo.ListByCreator(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Best effort; a failed cache write only costs the next read.
		_ = s.cache.Set(ctx, principalID, products)
	}
	return products, nil
}

func (s *ProductService) Search(ctx context.Context, principalID int64, filter repositories.ProductFilter) ([]*models.Product, error) {
	return s.productRepo.Search(ctx, principalID, filter)
}

func (s *ProductService) Update(ctx context.Context, principalID, productID int64, input ProductInput) (*models.Product, error) {
	product, err := s.getOwned(ctx, principalID, productID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.IsAvailable = input.IsAvailable

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidate(ctx, principalID)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, principalID, productID int64) error {
	if _, err := s.getOwned(ctx, principalID, productID); err != nil {
		return err
	}

	if err := s.productRepo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate(ctx, principalID)
	return nil
}

func (s *ProductService) getOwned(ctx context.Context, principalID, productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if err := AuthorizeProductAccess(principalID, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context, creatorID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, creatorID)
	}
}
