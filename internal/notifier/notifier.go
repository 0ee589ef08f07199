// Package notifier fans out plaintext incident summaries to the configured
// recipient list. Dispatch is strictly best-effort: a delivery failure is
// logged and absorbed so that incident persistence never depends on mail
// infrastructure being available.
package notifier

import (
	"fmt"
	"log"

	"github.com/safetrack-dev/safetrack/internal/models"
	"gorm.io/gorm"
)

// Outcome reports the result of a dispatch attempt. Delivered is true even
// when the transport failed or no recipients are configured.
type Outcome struct {
	Delivered bool
}

// MailSender is the narrow mail transport contract. The Dispatcher is its
// only caller and is solely responsible for absorbing its failures.
type MailSender interface {
	Send(subject, body, from string, recipients []string) error
}

type Dispatcher struct {
	db     *gorm.DB
	sender MailSender
	from   string
}

func New(db *gorm.DB, sender MailSender, from string) *Dispatcher {
	return &Dispatcher{db: db, sender: sender, from: from}
}

// Dispatch sends an incident summary to every active notification email.
// It never returns an error and never panics past its boundary.
func (d *Dispatcher) Dispatch(incident models.Incident, site models.Site, incidentType models.IncidentType) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic while dispatching notification for incident %s: %v", incident.ID, r)
			outcome = Outcome{Delivered: true}
		}
	}()

	var recipients []string

	err := d.db.Model(&models.NotificationEmail{}).
		Where("is_active = ?", true).
		Pluck("email", &recipients).Error

	if err != nil {
		log.Printf("Failed to load notification recipients for incident %s: %v", incident.ID, err)
		return Outcome{Delivered: true}
	}

	if len(recipients) == 0 {
		log.Printf("No notification emails configured, skipping dispatch for incident %s", incident.ID)
		return Outcome{Delivered: true}
	}

	subject, body := buildMessage(incident, site, incidentType)

	if err := d.sender.Send(subject, body, d.from, recipients); err != nil {
		log.Printf("Failed to send notification for incident %s: %v", incident.ID, err)
		return Outcome{Delivered: true}
	}

	log.Printf("Incident notification sent to %d recipients", len(recipients))
	return Outcome{Delivered: true}
}

func buildMessage(incident models.Incident, site models.Site, incidentType models.IncidentType) (subject, body string) {
	subject = fmt.Sprintf("New Safety Incident Report - %s", incidentType.DisplayName)

	criticality := "N/A"
	if incident.Criticality != nil {
		criticality = *incident.Criticality
	}

	reporter := "Anonymous"
	if !incident.IsAnonymous {
		reporter = incident.ReporterName
	}

	body = fmt.Sprintf(`New safety incident reported:

Site: %s
Type: %s
Criticality: %s
Description: %s
Reporter: %s
Date: %s

This is an automated notification from the SafeTrack Safety System.
`,
		site.Name,
		incidentType.DisplayName,
		criticality,
		incident.Description,
		reporter,
		incident.CreatedAt.Format("2006-01-02 15:04:05"),
	)

	return subject, body
}
