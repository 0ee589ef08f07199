package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/safetrack-dev/safetrack/internal/catalog"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/utils"
	"gorm.io/gorm"
)

type CreateSiteRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type UpdateSiteRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type SiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSiteResponse(site models.Site) SiteResponse {
	return SiteResponse{
		ID:        site.ID.String(),
		Name:      site.Name,
		Address:   site.Address,
		CreatedAt: site.CreatedAt,
		UpdatedAt: site.UpdatedAt,
	}
}

// CreateSite registers a site and seeds its catalog with the default
// incident types.
func CreateSite(ctx *gin.Context) {
	var req CreateSiteRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	site := models.Site{
		Name:    req.Name,
		Address: req.Address,
	}

	if err := db.DB.Create(&site).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site"})
		return
	}

	if err := catalog.New(db.DB).SeedDefaults(site.ID); err != nil {
		log.Printf("Failed to seed default incident types for site %s: %v", site.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed incident types"})
		return
	}

	ctx.JSON(http.StatusCreated, toSiteResponse(site))
}

func ListSites(ctx *gin.Context) {
	var sites []models.Site

	if err := db.DB.Order("name").Find(&sites).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sites"})
		return
	}

	response := make([]SiteResponse, 0, len(sites))

	for _, site := range sites {
		response = append(response, toSiteResponse(site))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetSite is public: it bootstraps the reporting form with the site and its
// active incident types.
func GetSite(ctx *gin.Context) {
	siteID, err := utils.GetSiteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var site models.Site

	if err := db.DB.Where("id = ?", siteID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve site"})
		}
		return
	}

	incidentTypes, err := catalog.New(db.DB).List(siteID, true)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident types"})
		return
	}

	typeResponses := make([]IncidentTypeResponse, 0, len(incidentTypes))

	for _, incidentType := range incidentTypes {
		typeResponses = append(typeResponses, toIncidentTypeResponse(incidentType))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"site":           toSiteResponse(site),
		"incident_types": typeResponses,
	})
}

func UpdateSite(ctx *gin.Context) {
	siteID, err := utils.GetSiteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateSiteRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var site models.Site

	if err := db.DB.Where("id = ?", siteID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve site"})
		}
		return
	}

	site.Name = req.Name
	site.Address = req.Address

	if err := db.DB.Save(&site).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update site"})
		return
	}

	ctx.JSON(http.StatusOK, toSiteResponse(site))
}

// DeleteSite removes the site and, through the cascade constraints, its
// contacts, incident types, incidents and images.
func DeleteSite(ctx *gin.Context) {
	siteID, err := utils.GetSiteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var site models.Site

	if err := db.DB.Where("id = ?", siteID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve site"})
		}
		return
	}

	if err := db.DB.Delete(&site).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete site"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
