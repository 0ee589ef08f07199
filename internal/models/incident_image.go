package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidentImage references binary content stored outside the database.
type IncidentImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	IncidentID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImagePath  string    `gorm:"not null"`
	Caption    string
	CreatedAt  time.Time

	// Relationships
	Incident Incident `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (img *IncidentImage) BeforeCreate(tx *gorm.DB) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	return nil
}
