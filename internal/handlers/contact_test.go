package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safetrack-dev/safetrack/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	previous := db.DB
	db.DB = gdb

	t.Cleanup(func() {
		db.DB = previous
		sqlDB.Close()
	})

	return mock
}

func performRequest(handler gin.HandlerFunc, method, target string, params gin.Params) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(method, target, nil)
	ctx.Params = params

	handler(ctx)
	ctx.Writer.WriteHeaderNow()

	return recorder
}

func expectSiteRow(mock sqlmock.Sqlmock, siteID uuid.UUID, name string) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sites" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "created_at", "updated_at"}).
			AddRow(siteID.String(), name, "12 River Road", now, now))
}

var contactColumns = []string{"id", "site_id", "name", "designation", "phone_number", "created_at", "updated_at"}

func TestListSiteContactsOverlay(t *testing.T) {
	mock := newTestDB(t)
	siteID := uuid.New()
	contactID := uuid.New()
	now := time.Now()

	expectSiteRow(mock, siteID, "Plant A")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "emergency_contacts" WHERE site_id = $1 ORDER BY name`)).
		WillReturnRows(sqlmock.NewRows(contactColumns).
			AddRow(contactID.String(), siteID.String(), "Ravi Kumar", "Site Supervisor", "+919876543210", now, now))

	recorder := performRequest(ListSiteContacts, http.MethodGet, "/api/sites/"+siteID.String()+"/contacts",
		gin.Params{{Key: "site_id", Value: siteID.String()}})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response []ContactResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response, 5)

	// Helplines lead in fixed order and carry no timestamps.
	assert.Equal(t, "national-police", response[0].ID)
	assert.Equal(t, "100", response[0].PhoneNumber)
	assert.Equal(t, "national-ambulance", response[1].ID)
	assert.Equal(t, "102", response[1].PhoneNumber)
	assert.Equal(t, "national-fire", response[2].ID)
	assert.Equal(t, "101", response[2].PhoneNumber)
	assert.Equal(t, "national-child", response[3].ID)
	assert.Equal(t, "1098", response[3].PhoneNumber)
	assert.Nil(t, response[0].CreatedAt)
	assert.Equal(t, siteID.String(), response[0].Site)
	assert.Equal(t, "National Emergency", response[0].SiteName)

	assert.Equal(t, contactID.String(), response[4].ID)
	assert.Equal(t, "Plant A", response[4].SiteName)
	assert.NotNil(t, response[4].CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSiteContactsOverlayOnlyWhenSiteHasNone(t *testing.T) {
	mock := newTestDB(t)
	siteID := uuid.New()

	expectSiteRow(mock, siteID, "Plant A")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "emergency_contacts" WHERE site_id = $1 ORDER BY name`)).
		WillReturnRows(sqlmock.NewRows(contactColumns))

	recorder := performRequest(ListSiteContacts, http.MethodGet, "/api/sites/"+siteID.String()+"/contacts",
		gin.Params{{Key: "site_id", Value: siteID.String()}})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response []ContactResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response, 4)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSiteContactsUnknownSite(t *testing.T) {
	mock := newTestDB(t)
	siteID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sites" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "created_at", "updated_at"}))

	recorder := performRequest(ListSiteContacts, http.MethodGet, "/api/sites/"+siteID.String()+"/contacts",
		gin.Params{{Key: "site_id", Value: siteID.String()}})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSiteContactsInvalidSiteID(t *testing.T) {
	newTestDB(t)

	recorder := performRequest(ListSiteContacts, http.MethodGet, "/api/sites/not-a-uuid/contacts",
		gin.Params{{Key: "site_id", Value: "not-a-uuid"}})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetSiteQRCode(t *testing.T) {
	mock := newTestDB(t)
	siteID := uuid.New()

	t.Setenv("PUBLIC_BASE_URL", "https://report.example.com/")

	expectSiteRow(mock, siteID, "Plant A")

	recorder := performRequest(GetSiteQRCode, http.MethodGet, "/api/sites/"+siteID.String()+"/qr",
		gin.Params{{Key: "site_id", Value: siteID.String()}})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		QRCode      string `json:"qr_code"`
		PublicURL   string `json:"public_url"`
		SiteName    string `json:"site_name"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.Equal(t, "https://report.example.com/public/"+siteID.String()+"/", response.PublicURL)
	assert.Equal(t, "Plant A", response.SiteName)
	assert.Equal(t, "Scan to access safety feedback form", response.Description)
	assert.NotEmpty(t, response.QRCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}
