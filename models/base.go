package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base holds the columns shared by every soft-deletable record
type Base struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid"`
	IsDeleted bool       `json:"isDeleted" gorm:"index"`
	CreatedBy *string    `json:"createdBy,omitempty" gorm:"type:uuid"`
	UpdatedBy *string    `json:"updatedBy,omitempty" gorm:"type:uuid"`
	DeletedBy *string    `json:"deletedBy,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Base) GetID() string {
	return b.ID
}

func (b *Base) SetID(id string) {
	b.ID = id
}

// Deleted reports whether the record has been soft-deleted
func (b *Base) Deleted() bool {
	return b.IsDeleted
}

// MarkDeleted stamps the soft-delete columns in memory
func (b *Base) MarkDeleted(actorID string, at time.Time) {
	b.IsDeleted = true
	b.DeletedBy = &actorID
	b.DeletedAt = &at
}

// StampCreate records who created the record
func (b *Base) StampCreate(actorID string) {
	if actorID == "" {
		return
	}
	b.CreatedBy = &actorID
}

// StampUpdate records who last changed the record
func (b *Base) StampUpdate(actorID string) {
	if actorID == "" {
		return
	}
	b.UpdatedBy = &actorID
}

// IsValidID reports whether id is a well-formed record identifier
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
