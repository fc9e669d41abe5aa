package services

import "github.com/ipetrenko/storefront/internal/models"

// AuthorizeProductAccess allows an operation on a product only for its
// creator. A soft-deleted product is never accessible. Callers decide how
// to surface the denial; the HTTP layer masks it as not-found so foreign
// ids cannot be probed.
func AuthorizeProductAccess(principalID int64, product *models.Product) error {
	if product == nil || product.IsDeleted {
		return ErrNotFound
	}
	if product.CreatorID != principalID {
		return ErrUnauthorized
	}
	return nil
}
