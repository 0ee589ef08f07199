package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/safetrack-dev/safetrack/internal/catalog"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/utils"
)

type CreateIncidentTypeRequest struct {
	Name                string `json:"name" binding:"required"`
	DisplayName         string `json:"display_name" binding:"required"`
	Description         string `json:"description"`
	RequiresCriticality *bool  `json:"requires_criticality"`
	IsActive            *bool  `json:"is_active"`
	Order               int    `json:"order"`
	Icon                string `json:"icon"`
	Color               string `json:"color"`
}

type IncidentTypeResponse struct {
	ID                  string    `json:"id"`
	Site                string    `json:"site"`
	Name                string    `json:"name"`
	DisplayName         string    `json:"display_name"`
	Description         string    `json:"description"`
	RequiresCriticality bool      `json:"requires_criticality"`
	IsActive            bool      `json:"is_active"`
	Order               int       `json:"order"`
	Icon                string    `json:"icon"`
	Color               string    `json:"color"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toIncidentTypeResponse(incidentType models.IncidentType) IncidentTypeResponse {
	return IncidentTypeResponse{
		ID:                  incidentType.ID.String(),
		Site:                incidentType.SiteID.String(),
		Name:                incidentType.Name,
		DisplayName:         incidentType.DisplayName,
		Description:         incidentType.Description,
		RequiresCriticality: incidentType.RequiresCriticality,
		IsActive:            incidentType.IsActive,
		Order:               incidentType.Order,
		Icon:                incidentType.Icon,
		Color:               incidentType.Color,
		CreatedAt:           incidentType.CreatedAt,
		UpdatedAt:           incidentType.UpdatedAt,
	}
}

func CreateIncidentType(ctx *gin.Context) {
	siteID, err := utils.GetSiteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req CreateIncidentTypeRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	requiresCriticality := true
	if req.RequiresCriticality != nil {
		requiresCriticality = *req.RequiresCriticality
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	incidentType, err := catalog.New(db.DB).Create(siteID, catalog.CreateParams{
		Name:                req.Name,
		DisplayName:         req.DisplayName,
		Description:         req.Description,
		RequiresCriticality: requiresCriticality,
		IsActive:            isActive,
		Order:               req.Order,
		Icon:                req.Icon,
		Color:               req.Color,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toIncidentTypeResponse(*incidentType))
}

// ListIncidentTypes is public so the reporting form can offer the site's
// categories; pass ?active=true to hide retired ones.
func ListIncidentTypes(ctx *gin.Context) {
	siteID, err := utils.GetSiteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activeOnly := ctx.Query("active") == "true"

	incidentTypes, err := catalog.New(db.DB).List(siteID, activeOnly)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident types"})
		return
	}

	response := make([]IncidentTypeResponse, 0, len(incidentTypes))

	for _, incidentType := range incidentTypes {
		response = append(response, toIncidentTypeResponse(incidentType))
	}

	ctx.JSON(http.StatusOK, response)
}
