package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/utils"
	"gorm.io/gorm"
)

type CreateContactRequest struct {
	Site        string `json:"site" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Designation string `json:"designation" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type UpdateContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Designation string `json:"designation" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type ContactResponse struct {
	ID          string     `json:"id"`
	Site        string     `json:"site"`
	SiteName    string     `json:"site_name"`
	Name        string     `json:"name"`
	Designation string     `json:"designation"`
	PhoneNumber string     `json:"phone_number"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// nationalHelplines is a fixed read-time overlay, not stored data. Every
// site's contact listing starts with these four entries.
var nationalHelplines = []ContactResponse{
	{ID: "national-police", SiteName: "National Emergency", Name: "Police", Designation: "National Emergency", PhoneNumber: "100"},
	{ID: "national-ambulance", SiteName: "National Emergency", Name: "Ambulance", Designation: "Medical Emergency", PhoneNumber: "102"},
	{ID: "national-fire", SiteName: "National Emergency", Name: "Fire Brigade", Designation: "Fire Emergency", PhoneNumber: "101"},
	{ID: "national-child", SiteName: "National Emergency", Name: "Child Helpline", Designation: "Child Protection", PhoneNumber: "1098"},
}

func toContactResponse(contact models.EmergencyContact, siteName string) ContactResponse {
	createdAt := contact.CreatedAt
	updatedAt := contact.UpdatedAt

	return ContactResponse{
		ID:          contact.ID.String(),
		Site:        contact.SiteID.String(),
		SiteName:    siteName,
		Name:        contact.Name,
		Designation: contact.Designation,
		PhoneNumber: contact.PhoneNumber,
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
	}
}

// ListSiteContacts merges the national helpline overlay with the site's own
// emergency contacts for public display.
func ListSiteContacts(ctx *gin.Context) {
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

	var contacts []models.EmergencyContact

	if err := db.DB.Where("site_id = ?", siteID).Order("name").Find(&contacts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}

	response := make([]ContactResponse, 0, len(nationalHelplines)+len(contacts))

	for _, helpline := range nationalHelplines {
		helpline.Site = site.ID.String()
		response = append(response, helpline)
	}

	for _, contact := range contacts {
		response = append(response, toContactResponse(contact, site.Name))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateEmergencyContact(ctx *gin.Context) {
	var req CreateContactRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.PhonePattern.MatchString(req.PhoneNumber) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."})
		return
	}

	siteID, err := uuid.Parse(req.Site)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
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

	contact := models.EmergencyContact{
		SiteID:      siteID,
		Name:        req.Name,
		Designation: req.Designation,
		PhoneNumber: req.PhoneNumber,
	}

	if err := db.DB.Create(&contact).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}

	ctx.JSON(http.StatusCreated, toContactResponse(contact, site.Name))
}

// ListEmergencyContacts is the staff listing, optionally filtered by site.
func ListEmergencyContacts(ctx *gin.Context) {
	query := db.DB.Preload("Site").Order("name")

	if siteID := ctx.Query("site"); siteID != "" {
		query = query.Where("site_id = ?", siteID)
	}

	var contacts []models.EmergencyContact

	if err := query.Find(&contacts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}

	response := make([]ContactResponse, 0, len(contacts))

	for _, contact := range contacts {
		response = append(response, toContactResponse(contact, contact.Site.Name))
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateEmergencyContact(ctx *gin.Context) {
	contactID, err := utils.GetContactID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateContactRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.PhonePattern.MatchString(req.PhoneNumber) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."})
		return
	}

	var contact models.EmergencyContact

	if err := db.DB.Preload("Site").Where("id = ?", contactID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contact"})
		}
		return
	}

	contact.Name = req.Name
	contact.Designation = req.Designation
	contact.PhoneNumber = req.PhoneNumber

	if err := db.DB.Save(&contact).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}

	ctx.JSON(http.StatusOK, toContactResponse(contact, contact.Site.Name))
}

func DeleteEmergencyContact(ctx *gin.Context) {
	contactID, err := utils.GetContactID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var contact models.EmergencyContact

	if err := db.DB.Where("id = ?", contactID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contact"})
		}
		return
	}

	if err := db.DB.Delete(&contact).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
