package notifier

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })

	return gdb, mock
}

type fakeSender struct {
	subject    string
	body       string
	from       string
	recipients []string
	calls      int
	err        error
	panics     bool
}

func (f *fakeSender) Send(subject, body, from string, recipients []string) error {
	f.calls++
	f.subject = subject
	f.body = body
	f.from = from
	f.recipients = recipients

	if f.panics {
		panic("smtp transport exploded")
	}

	return f.err
}

func expectRecipients(mock sqlmock.Sqlmock, emails ...string) {
	rows := sqlmock.NewRows([]string{"email"})
	for _, email := range emails {
		rows.AddRow(email)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "email" FROM "notification_emails" WHERE is_active = $1`)).
		WillReturnRows(rows)
}

func sampleIncident() (models.Incident, models.Site, models.IncidentType) {
	low := models.CriticalityLow
	incident := models.Incident{
		ID:          uuid.New(),
		Criticality: &low,
		Status:      models.StatusOpen,
		Description: "wet floor by dock 3",
		IsAnonymous: true,
		CreatedAt:   time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC),
	}
	site := models.Site{ID: uuid.New(), Name: "Plant A"}
	incidentType := models.IncidentType{
		ID:          uuid.New(),
		Name:        "unsafe_conditions",
		DisplayName: "Unsafe Conditions",
	}
	return incident, site, incidentType
}

func TestDispatchSendsToActiveRecipients(t *testing.T) {
	gdb, mock := newTestDB(t)
	expectRecipients(mock, "safety@plant-a.example", "ehs@plant-a.example")

	sender := &fakeSender{}
	incident, site, incidentType := sampleIncident()

	outcome := New(gdb, sender, "noreply@safetrack.dev").Dispatch(incident, site, incidentType)

	assert.True(t, outcome.Delivered)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "noreply@safetrack.dev", sender.from)
	assert.Equal(t, []string{"safety@plant-a.example", "ehs@plant-a.example"}, sender.recipients)
	assert.Equal(t, "New Safety Incident Report - Unsafe Conditions", sender.subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchNoRecipientsSkipsSend(t *testing.T) {
	gdb, mock := newTestDB(t)
	expectRecipients(mock)

	sender := &fakeSender{}
	incident, site, incidentType := sampleIncident()

	outcome := New(gdb, sender, "noreply@safetrack.dev").Dispatch(incident, site, incidentType)

	assert.True(t, outcome.Delivered)
	assert.Zero(t, sender.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchAbsorbsSendFailure(t *testing.T) {
	gdb, mock := newTestDB(t)
	expectRecipients(mock, "safety@plant-a.example")

	sender := &fakeSender{err: errors.New("connection refused")}
	incident, site, incidentType := sampleIncident()

	outcome := New(gdb, sender, "noreply@safetrack.dev").Dispatch(incident, site, incidentType)

	assert.True(t, outcome.Delivered)
	assert.Equal(t, 1, sender.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchRecoversFromSenderPanic(t *testing.T) {
	gdb, mock := newTestDB(t)
	expectRecipients(mock, "safety@plant-a.example")

	sender := &fakeSender{panics: true}
	incident, site, incidentType := sampleIncident()

	outcome := New(gdb, sender, "noreply@safetrack.dev").Dispatch(incident, site, incidentType)

	assert.True(t, outcome.Delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchAbsorbsRecipientQueryFailure(t *testing.T) {
	gdb, mock := newTestDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "email" FROM "notification_emails" WHERE is_active = $1`)).
		WillReturnError(errors.New("relation does not exist"))

	sender := &fakeSender{}
	incident, site, incidentType := sampleIncident()

	outcome := New(gdb, sender, "noreply@safetrack.dev").Dispatch(incident, site, incidentType)

	assert.True(t, outcome.Delivered)
	assert.Zero(t, sender.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildMessageRated(t *testing.T) {
	incident, site, incidentType := sampleIncident()
	incident.IsAnonymous = false
	incident.ReporterName = "Asha Rao"

	subject, body := buildMessage(incident, site, incidentType)

	assert.Equal(t, "New Safety Incident Report - Unsafe Conditions", subject)
	assert.Contains(t, body, "Site: Plant A")
	assert.Contains(t, body, "Type: Unsafe Conditions")
	assert.Contains(t, body, "Criticality: low")
	assert.Contains(t, body, "Description: wet floor by dock 3")
	assert.Contains(t, body, "Reporter: Asha Rao")
	assert.Contains(t, body, "Date: 2025-06-14 09:30:00")
	assert.Contains(t, body, "This is an automated notification from the SafeTrack Safety System.")
}

func TestBuildMessageUnratedAnonymous(t *testing.T) {
	incident, site, incidentType := sampleIncident()
	incident.Criticality = nil

	_, body := buildMessage(incident, site, incidentType)

	assert.Contains(t, body, "Criticality: N/A")
	assert.Contains(t, body, "Reporter: Anonymous")
}
