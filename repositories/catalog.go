package repositories

import (
	"context"

	"gorm.io/gorm"
)

// CatalogRepository stores simple name+description records
type CatalogRepository[T any] struct {
	*Repository[T]
}

func NewCatalogRepository[T any](db *gorm.DB) *CatalogRepository[T] {
	return &CatalogRepository[T]{Repository: NewRepository[T](db)}
}

func (r *CatalogRepository[T]) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsWithField(ctx, "name", name)
}
