// Package catalog manages the per-site incident type taxonomy.
package catalog

import (
	"errors"

	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/internal/apperrors"
	"github.com/safetrack-dev/safetrack/internal/models"
	"gorm.io/gorm"
)

type Catalog struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

type CreateParams struct {
	Name                string
	DisplayName         string
	Description         string
	RequiresCriticality bool
	IsActive            bool
	Order               int
	Icon                string
	Color               string
}

// Create adds an incident type to a site's catalog. The (site, name) pair is
// unique; a collision fails with DuplicateTypeError.
func (c *Catalog) Create(siteID uuid.UUID, params CreateParams) (*models.IncidentType, error) {
	var existing models.IncidentType

	err := c.db.Where("site_id = ? AND name = ?", siteID, params.Name).First(&existing).Error

	if err == nil {
		return nil, &apperrors.DuplicateTypeError{Name: params.Name}
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	incidentType := models.IncidentType{
		SiteID:              siteID,
		Name:                params.Name,
		DisplayName:         params.DisplayName,
		Description:         params.Description,
		RequiresCriticality: params.RequiresCriticality,
		IsActive:            params.IsActive,
		Order:               params.Order,
		Icon:                params.Icon,
		Color:               params.Color,
	}

	// The pre-check can lose a race; the unique index is the authority.
	if err := c.db.Create(&incidentType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperrors.DuplicateTypeError{Name: params.Name}
		}
		return nil, err
	}

	return &incidentType, nil
}

// List returns a site's incident types sorted by (order, display_name).
func (c *Catalog) List(siteID uuid.UUID, activeOnly bool) ([]models.IncidentType, error) {
	query := c.db.Where("site_id = ?", siteID)

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var incidentTypes []models.IncidentType

	if err := query.Order(`"order", display_name`).Find(&incidentTypes).Error; err != nil {
		return nil, err
	}

	return incidentTypes, nil
}

// Resolve looks up a type by its machine key. The match is exact and
// case-sensitive on name; active and inactive types both resolve.
func (c *Catalog) Resolve(siteID uuid.UUID, name string) (*models.IncidentType, error) {
	var incidentType models.IncidentType

	err := c.db.Where("site_id = ? AND name = ?", siteID, name).First(&incidentType).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("incident type")
		}
		return nil, err
	}

	return &incidentType, nil
}
