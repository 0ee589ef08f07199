package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/safetrack-dev/safetrack/internal/apperrors"
	"github.com/safetrack-dev/safetrack/internal/incidents"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/notifier"
	"github.com/safetrack-dev/safetrack/internal/utils"
	"gorm.io/gorm"
)

// Notifier is wired in from main before the router starts serving.
var Notifier *notifier.Dispatcher

type IncidentImageRequest struct {
	Image   string `json:"image" binding:"required"`
	Caption string `json:"caption"`
}

type CreateIncidentRequest struct {
	Site          string                 `json:"site" binding:"required,uuid"`
	IncidentType  string                 `json:"incident_type" binding:"required"`
	Description   string                 `json:"description" binding:"required"`
	Criticality   *string                `json:"criticality"`
	IsAnonymous   *bool                  `json:"is_anonymous"`
	ReporterName  string                 `json:"reporter_name"`
	ReporterPhone string                 `json:"reporter_phone"`
	Images        []IncidentImageRequest `json:"images"`
}

type UpdateIncidentRequest struct {
	Status        *string `json:"status"`
	Criticality   *string `json:"criticality"`
	Description   *string `json:"description"`
	IsAnonymous   *bool   `json:"is_anonymous"`
	ReporterName  *string `json:"reporter_name"`
	ReporterPhone *string `json:"reporter_phone"`
}

type IncidentImageResponse struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type IncidentResponse struct {
	ID                  string                  `json:"id"`
	Site                string                  `json:"site"`
	SiteName            string                  `json:"site_name"`
	IncidentType        string                  `json:"incident_type"`
	IncidentTypeDisplay string                  `json:"incident_type_display"`
	Criticality         *string                 `json:"criticality"`
	Status              string                  `json:"status"`
	Description         string                  `json:"description"`
	IsAnonymous         bool                    `json:"is_anonymous"`
	ReporterName        string                  `json:"reporter_name,omitempty"`
	ReporterPhone       string                  `json:"reporter_phone,omitempty"`
	Images              []IncidentImageResponse `json:"images"`
	ImageCount          int                     `json:"image_count"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// toIncidentResponse expects Site, IncidentType and Images to be loaded.
func toIncidentResponse(incident models.Incident) IncidentResponse {
	images := make([]IncidentImageResponse, 0, len(incident.Images))

	for _, image := range incident.Images {
		images = append(images, IncidentImageResponse{
			ID:        image.ID.String(),
			Image:     image.ImagePath,
			Caption:   image.Caption,
			CreatedAt: image.CreatedAt,
		})
	}

	return IncidentResponse{
		ID:                  incident.ID.String(),
		Site:                incident.SiteID.String(),
		SiteName:            incident.Site.Name,
		IncidentType:        incident.IncidentType.Name,
		IncidentTypeDisplay: incident.IncidentType.DisplayName,
		Criticality:         incident.Criticality,
		Status:              incident.Status,
		Description:         incident.Description,
		IsAnonymous:         incident.IsAnonymous,
		ReporterName:        incident.ReporterName,
		ReporterPhone:       incident.ReporterPhone,
		Images:              images,
		ImageCount:          len(images),
		CreatedAt:           incident.CreatedAt,
		UpdatedAt:           incident.UpdatedAt,
	}
}

// CreateIncident is the public submission endpoint behind the QR placard.
func CreateIncident(ctx *gin.Context) {
	var req CreateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	siteID, err := uuid.Parse(req.Site)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
		return
	}

	// Reports are identified by default; anonymity must be asked for.
	isAnonymous := false
	if req.IsAnonymous != nil {
		isAnonymous = *req.IsAnonymous
	}

	images := make([]incidents.ImageParams, 0, len(req.Images))

	for _, image := range req.Images {
		images = append(images, incidents.ImageParams{
			Path:    image.Image,
			Caption: image.Caption,
		})
	}

	service := incidents.NewService(db.DB, Notifier)

	incident, err := service.Submit(incidents.SubmitParams{
		SiteID:           siteID,
		IncidentTypeName: req.IncidentType,
		Description:      req.Description,
		Criticality:      req.Criticality,
		IsAnonymous:      isAnonymous,
		ReporterName:     req.ReporterName,
		ReporterPhone:    req.ReporterPhone,
		Images:           images,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastIncidentCreated(incident.SiteID.String(), incident.ID.String())

	ctx.JSON(http.StatusCreated, toIncidentResponse(*incident))
}

// ListIncidents returns incidents newest first, optionally filtered by site
// and incident type name.
func ListIncidents(ctx *gin.Context) {
	query := db.DB.
		Preload("Site").
		Preload("IncidentType").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id")
		})

	if siteID := ctx.Query("site"); siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}

	if typeName := ctx.Query("type"); typeName != "" {
		query = query.Joins("JOIN incident_types ON incident_types.id = incidents.incident_type_id").
			Where("incident_types.name = ?", typeName)
	}

	var incidentList []models.Incident

	if err := query.Order("incidents.created_at DESC").Find(&incidentList).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}

	response := make([]IncidentResponse, 0, len(incidentList))

	for _, incident := range incidentList {
		response = append(response, toIncidentResponse(incident))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetIncident(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := loadIncident(incidentID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toIncidentResponse(*incident))
}

func UpdateIncident(ctx *gin.Context) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := incidents.NewService(db.DB, Notifier)

	if _, err := service.Update(incidentID, incidents.UpdateParams{
		Status:        req.Status,
		Criticality:   req.Criticality,
		Description:   req.Description,
		IsAnonymous:   req.IsAnonymous,
		ReporterName:  req.ReporterName,
		ReporterPhone: req.ReporterPhone,
	}); err != nil {
		respondError(ctx, err)
		return
	}

	incident, err := loadIncident(incidentID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toIncidentResponse(*incident))
}

func loadIncident(incidentID uuid.UUID) (*models.Incident, error) {
	var incident models.Incident

	err := db.DB.
		Preload("Site").
		Preload("IncidentType").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id")
		}).
		Where("id = ?", incidentID).
		First(&incident).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("incident")
		}
		return nil, err
	}

	return &incident, nil
}
