package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhonePattern allows an optional leading + and country code 1, then 9-15 digits.
var PhonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

type EmergencyContact struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SiteID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Designation string    `gorm:"not null"`
	PhoneNumber string    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships
	Site Site `gorm:"foreignKey:SiteID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (c *EmergencyContact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
