package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidentType is a site-scoped reportable category. Name is the machine key
// and must be unique within a site; DisplayName is what reporters see.
type IncidentType struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SiteID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_site_type_name"`
	Name                string    `gorm:"not null;uniqueIndex:idx_site_type_name"`
	DisplayName         string    `gorm:"not null"`
	Description         string
	RequiresCriticality bool
	IsActive            bool
	Order               int
	Icon                string
	Color               string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Relationships
	Site Site `gorm:"foreignKey:SiteID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (it *IncidentType) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}
