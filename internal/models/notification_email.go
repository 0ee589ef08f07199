package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationEmail maps a recipient address to an active flag. The set of
// active rows is the full recipient list for incident notifications; it is
// not scoped to any site.
type NotificationEmail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *NotificationEmail) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
