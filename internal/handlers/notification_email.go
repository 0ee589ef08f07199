package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/utils"
	"gorm.io/gorm"
)

type CreateNotificationEmailRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

type UpdateNotificationEmailRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

type NotificationEmailResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNotificationEmailResponse(email models.NotificationEmail) NotificationEmailResponse {
	return NotificationEmailResponse{
		ID:        email.ID.String(),
		Email:     email.Email,
		Name:      email.Name,
		IsActive:  email.IsActive,
		CreatedAt: email.CreatedAt,
		UpdatedAt: email.UpdatedAt,
	}
}

func ListNotificationEmails(ctx *gin.Context) {
	var emails []models.NotificationEmail

	if err := db.DB.Order("email").Find(&emails).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification emails"})
		return
	}

	response := make([]NotificationEmailResponse, 0, len(emails))

	for _, email := range emails {
		response = append(response, toNotificationEmailResponse(email))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateNotificationEmail(ctx *gin.Context) {
	var req CreateNotificationEmailRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	address := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.NotificationEmail

	err := db.DB.Where("email = ?", address).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Email already configured"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	email := models.NotificationEmail{
		Email:    address,
		Name:     req.Name,
		IsActive: isActive,
	}

	if err := db.DB.Create(&email).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification email"})
		return
	}

	ctx.JSON(http.StatusCreated, toNotificationEmailResponse(email))
}

// UpdateNotificationEmail toggles the active flag or renames the label.
func UpdateNotificationEmail(ctx *gin.Context) {
	emailID, err := utils.GetEmailID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateNotificationEmailRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var email models.NotificationEmail

	if err := db.DB.Where("id = ?", emailID).First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification email not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification email"})
		}
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&email).Updates(updates).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification email"})
		return
	}

	ctx.JSON(http.StatusOK, toNotificationEmailResponse(email))
}

func DeleteNotificationEmail(ctx *gin.Context) {
	emailID, err := utils.GetEmailID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var email models.NotificationEmail

	if err := db.DB.Where("id = ?", emailID).First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification email not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification email"})
		}
		return
	}

	if err := db.DB.Delete(&email).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification email"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
