package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetSiteID(ctx *gin.Context) (uuid.UUID, error) {
	return getUUIDParam(ctx, "site_id", "Site ID")
}

func GetIncidentID(ctx *gin.Context) (uuid.UUID, error) {
	return getUUIDParam(ctx, "incident_id", "Incident ID")
}

func GetContactID(ctx *gin.Context) (uuid.UUID, error) {
	return getUUIDParam(ctx, "contact_id", "Contact ID")
}

func GetEmailID(ctx *gin.Context) (uuid.UUID, error) {
	return getUUIDParam(ctx, "email_id", "Email ID")
}

func getUUIDParam(ctx *gin.Context, param, label string) (uuid.UUID, error) {
	raw := ctx.Param(param)

	if raw == "" {
		return uuid.Nil, errors.New(label + " not found")
	}

	id, err := uuid.Parse(raw)

	if err != nil {
		return uuid.Nil, errors.New("Invalid " + label)
	}

	return id, nil
}
