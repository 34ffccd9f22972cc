// internal/server/handlers_test.go
package server

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/observability"
	"loan-intake/internal/files"
	"loan-intake/internal/notify"
	"loan-intake/internal/store"
	"loan-intake/internal/submission"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// ==========================
// Test Helper Functions
// ==========================

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		App: config.AppConfig{Name: "loan-intake", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			MaxUploadBytes: 10 << 20,
		},
		Uploads: config.UploadsConfig{Dir: t.TempDir(), AllowedExtensions: []string{"pdf"}},
		Email:   config.EmailConfig{Provider: "smtp"},
	}

	log := logger.NewTestLogger(t)
	st := store.New(db, log)

	repo, err := files.NewRepository(cfg.Uploads.Dir, cfg.Uploads.AllowedExtensions, st, log)
	require.NoError(t, err)

	notifier, err := notify.New(context.Background(), cfg.Email, log)
	require.NoError(t, err)

	orch := submission.NewOrchestrator(st, repo, notifier, &observability.Observability{}, log)

	return New(cfg, orch, st, repo, notifier, log), mock
}

func validFormFields() map[string]string {
	return map[string]string{
		"name":               "John Doe",
		"dob":                "1990-05-15",
		"phone":              "9876543210",
		"mother_name":        "Jane Doe",
		"qualification":      "B.Tech",
		"email":              "john@example.com",
		"present_address":    "12 Park Street",
		"present_years":      "3.5",
		"permanent_address":  "44 Lake Road",
		"permanent_years":    "10",
		"total_experience":   "8",
		"company_experience": "2.5",
		"company_name":       "Acme Corp",
		"company_address":    "1 Industrial Area",
		"designation":        "Engineer",
		"office_contact":     "0401234567",
		"official_email":     "john@acme.example",
		"bank_name":          "State Bank",
		"bank_years":         "5",
		"branch":             "Main Branch",
		"loan_amount":        "500000.00",
		"tenure":             "36",
		"friend_name":        "Sam Smith",
		"friend_contact":     "9123456780",
		"friend_address":     "9 Hill View",
		"relative_name":      "Ravi Doe",
		"relative_contact":   "9988776655",
		"relative_address":   "7 River Side",
	}
}

type uploadPart struct {
	field    string
	filename string
	content  string
}

func multipartBody(t *testing.T, fields map[string]string, uploads []uploadPart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.field, u.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postApply(t *testing.T, srv *Server, fields map[string]string, uploads []uploadPart) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, uploads)
	req := httptest.NewRequest(http.MethodPost, "/apply", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

const outcomeSchema = `{
	"type": "object",
	"required": ["success", "application_id", "message", "files_uploaded", "email_sent"],
	"properties": {
		"success": {"type": "boolean"},
		"application_id": {"type": "integer", "minimum": 1},
		"message": {"type": "string"},
		"files_uploaded": {"type": "integer", "minimum": 0},
		"email_sent": {"type": "boolean"},
		"email_error": {"type": ["string", "null"]}
	}
}`

func assertMatchesSchema(t *testing.T, schema string, body []byte) {
	t.Helper()
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(body),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid(), "schema violations: %v", result.Errors())
}

// ==========================
// Apply Endpoint Tests
// ==========================

func TestHandleApply_Success(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postApply(t, srv, validFormFields(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assertMatchesSchema(t, outcomeSchema, rec.Body.Bytes())

	var outcome submission.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Success)
	assert.Equal(t, int64(1), outcome.ApplicationID)
	assert.False(t, outcome.EmailSent) // dispatcher unconfigured in tests
	assert.Nil(t, outcome.EmailError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleApply_WithUpload(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`INSERT INTO file_uploads`).
		WithArgs(int64(2), "PAN Card", sqlmock.AnyArg(), "pan-secret", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	fields := validFormFields()
	fields["pan_password"] = "pan-secret"
	uploads := []uploadPart{{field: "pan", filename: "pan.pdf", content: "pdf-bytes"}}

	rec := postApply(t, srv, fields, uploads)

	assert.Equal(t, http.StatusOK, rec.Code)
	assertMatchesSchema(t, outcomeSchema, rec.Body.Bytes())

	var outcome submission.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.FilesUploaded)

	// only the count crosses the wire; storage details stay server-side
	assert.NotContains(t, rec.Body.String(), "file_path")
	assert.NotContains(t, rec.Body.String(), "pan-secret")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleApply_SkipsNonPDFUpload(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(3, 1))

	uploads := []uploadPart{{field: "pan", filename: "pan.exe", content: "nope"}}
	rec := postApply(t, srv, validFormFields(), uploads)

	assert.Equal(t, http.StatusOK, rec.Code)

	var outcome submission.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Success)
	assert.Zero(t, outcome.FilesUploaded)
}

func TestHandleApply_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	fields := validFormFields()
	delete(fields, "name")
	delete(fields, "loan_amount")

	rec := postApply(t, srv, fields, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "name")
	assert.Contains(t, resp["message"], "loan_amount")
}

func TestHandleApply_InvalidNumber(t *testing.T) {
	srv, _ := newTestServer(t)

	fields := validFormFields()
	fields["tenure"] = "three years"

	rec := postApply(t, srv, fields, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "tenure")
	assert.Contains(t, resp["message"], "invalid number")
}

func TestHandleApply_InsertFailureReturns500(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnError(assert.AnError)

	rec := postApply(t, srv, validFormFields(), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	// internal detail must not leak
	assert.NotContains(t, resp["message"], "assert.AnError")
}

// ==========================
// Admin Endpoint Tests
// ==========================

var applicationColumnsList = []string{
	"id", "name", "dob", "phone", "mother_name", "qualification", "alt_phone", "email",
	"present_address", "present_years", "permanent_address", "permanent_years",
	"total_experience", "company_experience", "company_name", "company_address",
	"landmark", "designation", "office_contact", "official_email", "bank_name",
	"bank_years", "branch", "loan_amount", "tenure", "existing_loan", "friend_name",
	"friend_contact", "friend_address", "relative_name", "relative_contact",
	"relative_address", "submission_date",
}

func applicationRow(id int64, name string) []driver.Value {
	return []driver.Value{
		id, name, "1990-05-15", "9876543210", "Jane Doe", "B.Tech", "", "john@example.com",
		"12 Park Street", 3.5, "44 Lake Road", 10.0,
		8.0, 2.5, "Acme Corp", "1 Industrial Area",
		"", "Engineer", "0401234567", "john@acme.example", "State Bank",
		5.0, "Main Branch", 500000.00, 36, "", "Sam Smith",
		"9123456780", "9 Hill View", "Ravi Doe", "9988776655",
		"7 River Side", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func doGet(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHandleListApplications(t *testing.T) {
	srv, mock := newTestServer(t)

	rows := sqlmock.NewRows(applicationColumnsList).
		AddRow(applicationRow(2, "Mary Major")...).
		AddRow(applicationRow(1, "John Doe")...)
	mock.ExpectQuery(`SELECT .+ FROM applications ORDER BY submission_date DESC`).
		WillReturnRows(rows)

	rec := doGet(srv, "/admin/applications")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count        int `json:"count"`
		Applications []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Mary Major", resp.Applications[0].Name)
}

func TestHandleGetApplication_Success(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT .+ FROM applications WHERE id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(applicationColumnsList).AddRow(applicationRow(1, "John Doe")...))
	mock.ExpectQuery(`SELECT .+ FROM file_uploads WHERE application_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "file_type", "file_path", "file_password", "upload_date"}))

	rec := doGet(srv, "/admin/applications/1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"John Doe"`)
}

func TestHandleGetApplication_NotFound(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT .+ FROM applications WHERE id`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(applicationColumnsList))

	rec := doGet(srv, "/admin/applications/99")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetApplication_BadID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/admin/applications/abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUploadStructure(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/admin/uploads")

	assert.Equal(t, http.StatusOK, rec.Code)

	var s files.Structure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.True(t, s.PathExists)
	assert.Zero(t, s.TotalFolders)
}

// ==========================
// Diagnostics Tests
// ==========================

func TestHandleHealth(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	rec := doGet(srv, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleHealth_DatabaseDown(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WillReturnError(fmt.Errorf("disk I/O error"))

	rec := doGet(srv, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestHandleStatus(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rec := doGet(srv, "/status")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(3), resp["applications"])
	assert.Equal(t, false, resp["email_configured"])
}

func TestHandleStatus_DatabaseDown(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WillReturnError(fmt.Errorf("disk I/O error"))

	rec := doGet(srv, "/status")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	assert.Equal(t, "unreachable", resp["database"])
}

func TestHandleEmailConfig_Unconfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/email/config")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["configured"])
	assert.Equal(t, "smtp", resp["provider"])
}

func TestHandleEmailTest_Unconfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/email/test", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(srv, "/email/config")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/email/config", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
