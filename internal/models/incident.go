package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"

	CriticalityLow      = "low"
	CriticalityMedium   = "medium"
	CriticalityHigh     = "high"
	CriticalityCritical = "critical"
)

// MaxDescriptionLength bounds incident descriptions.
const MaxDescriptionLength = 2000

// ValidStatus reports whether s is one of the status values. Transitions
// between statuses are deliberately unrestricted.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func ValidCriticality(c string) bool {
	switch c {
	case CriticalityLow, CriticalityMedium, CriticalityHigh, CriticalityCritical:
		return true
	}
	return false
}

type Incident struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SiteID         uuid.UUID `gorm:"type:uuid;not null;index"`
	IncidentTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Criticality    *string
	Status         string `gorm:"not null"`
	Description    string `gorm:"not null"`
	IsAnonymous    bool
	ReporterName   string
	ReporterPhone  string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Relationships
	Site         Site            `gorm:"foreignKey:SiteID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	IncidentType IncidentType    `gorm:"foreignKey:IncidentTypeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Images       []IncidentImage `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
