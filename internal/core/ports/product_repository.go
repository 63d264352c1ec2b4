package ports

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
)

// ProductRepository is the read side of the catalog.
type ProductRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error)
}
