package catalog

import (
	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/internal/apperrors"
)

// DefaultTypes is the starter catalog seeded when a site is created. Only
// general feedback reports skip the mandatory criticality rating.
var DefaultTypes = []CreateParams{
	{
		Name:                "unsafe_conditions",
		DisplayName:         "Unsafe Conditions",
		Description:         "Hazardous conditions observed at the site",
		RequiresCriticality: true,
		IsActive:            true,
		Order:               1,
		Icon:                "warning",
		Color:               "orange",
	},
	{
		Name:                "unsafe_actions",
		DisplayName:         "Unsafe Actions",
		Description:         "Unsafe behaviour or work practices",
		RequiresCriticality: true,
		IsActive:            true,
		Order:               2,
		Icon:                "alert",
		Color:               "red",
	},
	{
		Name:                "near_miss",
		DisplayName:         "Near Miss",
		Description:         "An event that could have caused harm",
		RequiresCriticality: true,
		IsActive:            true,
		Order:               3,
		Icon:                "flag",
		Color:               "yellow",
	},
	{
		Name:                "general_feedback",
		DisplayName:         "General Feedback",
		Description:         "General safety observations and suggestions",
		RequiresCriticality: false,
		IsActive:            true,
		Order:               4,
		Icon:                "chat",
		Color:               "blue",
	},
}

// SeedDefaults populates a site's catalog with the starter set. Seeding is
// idempotent: types whose names already exist are left untouched.
func (c *Catalog) SeedDefaults(siteID uuid.UUID) error {
	for _, params := range DefaultTypes {
		if _, err := c.Create(siteID, params); err != nil {
			if apperrors.IsDuplicateType(err) {
				continue
			}
			return err
		}
	}

	return nil
}
