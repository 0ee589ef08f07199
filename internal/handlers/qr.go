package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/utils"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// GetSiteQRCode encodes the site's public reporting URL as a PNG for the
// physical placard.
func GetSiteQRCode(ctx *gin.Context) {
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

	baseURL := os.Getenv("PUBLIC_BASE_URL")

	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	publicURL := fmt.Sprintf("%s/public/%s/", strings.TrimRight(baseURL, "/"), site.ID)

	png, err := qrcode.Encode(publicURL, qrcode.Medium, 512)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"qr_code":     base64.StdEncoding.EncodeToString(png),
		"public_url":  publicURL,
		"site_name":   site.Name,
		"description": "Scan to access safety feedback form",
	})
}
