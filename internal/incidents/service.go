// Package incidents implements the incident submission and update lifecycle.
package incidents

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/internal/apperrors"
	"github.com/safetrack-dev/safetrack/internal/catalog"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/safetrack-dev/safetrack/internal/notifier"
	"gorm.io/gorm"
)

// Dispatcher is the notification boundary. Its outcome never affects the
// result of a submission.
type Dispatcher interface {
	Dispatch(incident models.Incident, site models.Site, incidentType models.IncidentType) notifier.Outcome
}

type Service struct {
	db         *gorm.DB
	catalog    *catalog.Catalog
	dispatcher Dispatcher
}

func NewService(db *gorm.DB, dispatcher Dispatcher) *Service {
	return &Service{
		db:         db,
		catalog:    catalog.New(db),
		dispatcher: dispatcher,
	}
}

type ImageParams struct {
	Path    string
	Caption string
}

type SubmitParams struct {
	SiteID           uuid.UUID
	IncidentTypeName string
	Description      string
	Criticality      *string
	IsAnonymous      bool
	ReporterName     string
	ReporterPhone    string
	Images           []ImageParams
}

// Submit validates and persists a new incident with its images, then fires
// the notification dispatch without waiting for it.
func (s *Service) Submit(params SubmitParams) (*models.Incident, error) {
	var site models.Site

	if err := s.db.Where("id = ?", params.SiteID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("site")
		}
		return nil, err
	}

	incidentType, err := s.catalog.Resolve(params.SiteID, params.IncidentTypeName)

	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("unknown incident type")
		}
		return nil, err
	}

	if err := validateReporter(params.IsAnonymous, params.ReporterName, params.ReporterPhone); err != nil {
		return nil, err
	}

	if err := validateDescription(params.Description); err != nil {
		return nil, err
	}

	criticality := params.Criticality

	if criticality != nil && !models.ValidCriticality(*criticality) {
		return nil, apperrors.Validation("invalid criticality %q", *criticality)
	}

	// Types that do not require a rating default to low; types that do are
	// left unrated so the presentation layer can insist on one.
	if criticality == nil && !incidentType.RequiresCriticality {
		low := models.CriticalityLow
		criticality = &low
	}

	incident := models.Incident{
		SiteID:         params.SiteID,
		IncidentTypeID: incidentType.ID,
		Criticality:    criticality,
		Status:         models.StatusOpen,
		Description:    params.Description,
		IsAnonymous:    params.IsAnonymous,
		ReporterName:   params.ReporterName,
		ReporterPhone:  params.ReporterPhone,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&incident).Error; err != nil {
			return err
		}

		for _, image := range params.Images {
			incidentImage := models.IncidentImage{
				IncidentID: incident.ID,
				ImagePath:  image.Path,
				Caption:    image.Caption,
			}

			if err := tx.Create(&incidentImage).Error; err != nil {
				return err
			}

			incident.Images = append(incident.Images, incidentImage)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		go s.dispatcher.Dispatch(incident, site, *incidentType)
	}

	incident.Site = site
	incident.IncidentType = *incidentType

	return &incident, nil
}

type UpdateParams struct {
	Status        *string
	Criticality   *string
	Description   *string
	IsAnonymous   *bool
	ReporterName  *string
	ReporterPhone *string
}

// Update applies a partial patch. Reporter validation fires only when the
// patch carries is_anonymous; criticality defaulting never re-runs here.
func (s *Service) Update(incidentID uuid.UUID, params UpdateParams) (*models.Incident, error) {
	var incident models.Incident

	if err := s.db.Where("id = ?", incidentID).First(&incident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("incident")
		}
		return nil, err
	}

	updates := make(map[string]interface{})

	if params.Status != nil {
		if !models.ValidStatus(*params.Status) {
			return nil, apperrors.Validation("invalid status %q", *params.Status)
		}
		updates["status"] = *params.Status
	}

	if params.Criticality != nil {
		if !models.ValidCriticality(*params.Criticality) {
			return nil, apperrors.Validation("invalid criticality %q", *params.Criticality)
		}
		updates["criticality"] = *params.Criticality
	}

	if params.Description != nil {
		if err := validateDescription(*params.Description); err != nil {
			return nil, err
		}
		updates["description"] = *params.Description
	}

	if params.ReporterName != nil {
		updates["reporter_name"] = *params.ReporterName
	}

	if params.ReporterPhone != nil {
		updates["reporter_phone"] = *params.ReporterPhone
	}

	if params.IsAnonymous != nil {
		reporterName := incident.ReporterName
		if params.ReporterName != nil {
			reporterName = *params.ReporterName
		}

		reporterPhone := incident.ReporterPhone
		if params.ReporterPhone != nil {
			reporterPhone = *params.ReporterPhone
		}

		if err := validateReporter(*params.IsAnonymous, reporterName, reporterPhone); err != nil {
			return nil, err
		}

		updates["is_anonymous"] = *params.IsAnonymous
	}

	if len(updates) == 0 {
		return &incident, nil
	}

	if err := s.db.Model(&incident).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &incident, nil
}

// Get loads an incident with its images, newest first.
func (s *Service) Get(incidentID uuid.UUID) (*models.Incident, error) {
	var incident models.Incident

	err := s.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			// id breaks ties for images committed in the same transaction
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

func validateReporter(isAnonymous bool, reporterName, reporterPhone string) error {
	if isAnonymous {
		return nil
	}

	var missing []string

	if strings.TrimSpace(reporterName) == "" {
		missing = append(missing, "reporter_name")
	}

	if strings.TrimSpace(reporterPhone) == "" {
		missing = append(missing, "reporter_phone")
	}

	if len(missing) > 0 {
		return apperrors.Validation("%s required when not anonymous", strings.Join(missing, " and "))
	}

	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return apperrors.Validation("description is required")
	}

	if len(description) > models.MaxDescriptionLength {
		return apperrors.Validation("description exceeds %d characters", models.MaxDescriptionLength)
	}

	return nil
}
