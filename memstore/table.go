// Package memstore is an in-memory implementation of the repository
// interfaces, used to exercise services and resolvers without a database.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/staffhub-api/common"
)

// record is the pointer type of a model embedding models.Base
type record[T any] interface {
	*T
	GetID() string
	SetID(string)
	Deleted() bool
	MarkDeleted(actorID string, at time.Time)
}

// Table holds rows of one model in insertion order
type Table[T any, P record[T]] struct {
	mu     sync.RWMutex
	rows   []T
	nextID func() string
}

func newTable[T any, P record[T]](nextID func() string) *Table[T, P] {
	return &Table[T, P]{nextID: nextID}
}

// Put inserts or replaces rows without stamping anything
func (t *Table[T, P]) Put(rows ...T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range rows {
		t.upsert(row)
	}
}

func (t *Table[T, P]) upsert(row T) {
	id := P(&row).GetID()
	for i := range t.rows {
		if P(&t.rows[i]).GetID() == id {
			t.rows[i] = row
			return
		}
	}
	t.rows = append(t.rows, row)
}

// Where returns live rows matching pred
func (t *Table[T, P]) Where(pred func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for i := range t.rows {
		if P(&t.rows[i]).Deleted() {
			continue
		}
		if pred == nil || pred(&t.rows[i]) {
			out = append(out, t.rows[i])
		}
	}
	return out
}

func (t *Table[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	rows := t.Where(func(row *T) bool { return P(row).GetID() == id })
	if len(rows) == 0 {
		return nil, common.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (t *Table[T, P]) FindByIDIncludingDeleted(ctx context.Context, id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.rows {
		if P(&t.rows[i]).GetID() == id {
			row := t.rows[i]
			return &row, nil
		}
	}
	return nil, common.ErrRecordNotFound
}

func (t *Table[T, P]) FindAll(ctx context.Context) ([]T, error) {
	return t.Where(nil), nil
}

func (t *Table[T, P]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return t.Where(func(row *T) bool {
		_, ok := set[P(row).GetID()]
		return ok
	}), nil
}

func (t *Table[T, P]) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, err := t.FindByID(ctx, id)
	return err == nil, nil
}

func (t *Table[T, P]) ExistAll(ctx context.Context, ids []string) (bool, error) {
	for _, id := range ids {
		if ok, _ := t.ExistsByID(ctx, id); !ok {
			return false, nil
		}
	}
	return true, nil
}

func (t *Table[T, P]) Create(ctx context.Context, entity *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := P(entity)
	if p.GetID() == "" {
		p.SetID(t.nextID())
	}
	t.rows = append(t.rows, *entity)
	return nil
}

func (t *Table[T, P]) Update(ctx context.Context, entity *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.upsert(*entity)
	return nil
}

func (t *Table[T, P]) MarkDeleted(ctx context.Context, id, actorID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		p := P(&t.rows[i])
		if p.GetID() == id && !p.Deleted() {
			p.MarkDeleted(actorID, time.Now())
			return nil
		}
	}
	return common.ErrRecordNotFound
}

// mutate applies fn to a live row in place
func (t *Table[T, P]) mutate(id string, fn func(*T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		p := P(&t.rows[i])
		if p.GetID() == id && !p.Deleted() {
			fn(&t.rows[i])
			return nil
		}
	}
	return common.ErrRecordNotFound
}
