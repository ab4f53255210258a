package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/staffhub-api/common"
	"gorm.io/gorm"
)

// NotDeleted filters out soft-deleted rows
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("(is_deleted IS NULL OR is_deleted = ?)", false)
}

// Repository is a soft-deletable store for one model type
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a repository for T
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// conn returns the transaction bound to ctx, or the root connection
func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return Conn(ctx, r.db)
}

func (r *Repository[T]) live(ctx context.Context) *gorm.DB {
	return r.conn(ctx).Model(new(T)).Scopes(NotDeleted)
}

// FindByID retrieves a live record by its ID
func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var out T
	err := r.live(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByIDIncludingDeleted retrieves a record whether or not it was soft-deleted
func (r *Repository[T]) FindByIDIncludingDeleted(ctx context.Context, id string) (*T, error) {
	var out T
	err := r.conn(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindAll retrieves all live records, newest first
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	var out []T
	err := r.live(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// FindByIDs retrieves the live records among ids. Missing ids are skipped.
func (r *Repository[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	out := []T{}
	if len(ids) == 0 {
		return out, nil
	}
	err := r.live(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// FindMany retrieves live records matching a where clause
func (r *Repository[T]) FindMany(ctx context.Context, query interface{}, args ...interface{}) ([]T, error) {
	var out []T
	err := r.live(ctx).Where(query, args...).Find(&out).Error
	return out, err
}

// FindOne retrieves the first live record matching a where clause
func (r *Repository[T]) FindOne(ctx context.Context, query interface{}, args ...interface{}) (*T, error) {
	var out T
	err := r.live(ctx).Where(query, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Count counts live records matching a where clause
func (r *Repository[T]) Count(ctx context.Context, query interface{}, args ...interface{}) (int64, error) {
	var count int64
	err := r.live(ctx).Where(query, args...).Count(&count).Error
	return count, err
}

// Create inserts a new record
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.conn(ctx).Create(entity).Error
}

// Update writes every column of an existing record
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	return r.conn(ctx).Save(entity).Error
}

// UpdateByID writes the given columns of a live record
func (r *Repository[T]) UpdateByID(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.live(ctx).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrRecordNotFound
	}
	return nil
}

// MarkDeleted soft-deletes a live record and stamps who removed it
func (r *Repository[T]) MarkDeleted(ctx context.Context, id, actorID string) error {
	fields := map[string]interface{}{
		"is_deleted": true,
		"deleted_at": time.Now(),
	}
	if actorID != "" {
		fields["deleted_by"] = actorID
	}
	return r.UpdateByID(ctx, id, fields)
}

// ExistsWithField reports whether any live record has field = value
func (r *Repository[T]) ExistsWithField(ctx context.Context, field string, value interface{}) (bool, error) {
	var count int64
	err := r.live(ctx).Where(map[string]interface{}{field: value}).Count(&count).Error
	return count > 0, err
}

// ExistsByID reports whether a live record with id exists
func (r *Repository[T]) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.ExistsWithField(ctx, "id", id)
}

// ExistAll reports whether every id refers to a live record
func (r *Repository[T]) ExistAll(ctx context.Context, ids []string) (bool, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return true, nil
	}
	count, err := r.Count(ctx, "id IN ?", unique)
	if err != nil {
		return false, err
	}
	return count == int64(len(unique)), nil
}

// arrayHas matches rows whose text[] column contains value
func arrayHas(column string) string {
	return "? = ANY(" + column + ")"
}

// arrayOverlaps matches rows whose text[] column shares an element with the argument
func arrayOverlaps(column string) string {
	return column + " && ?"
}

func textArray(values []string) interface{} {
	return pq.Array(values)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
