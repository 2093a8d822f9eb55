package admin

import (
	"SchoolLicensing/entity"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeCore struct {
	lastEmail string
	sent      *entity.SendCodeRequest
}

func (f *fakeCore) license(adminEmail string) (*entity.License, error) {
	f.lastEmail = adminEmail
	switch adminEmail {
	case "admin@school.org":
		return &entity.License{SchoolName: "Lincoln High", AdminEmail: adminEmail, LicenseType: entity.LicenseTypePaid}, nil
	case "expired@school.org":
		return nil, entity.TrialExpired("Trial has expired").With("expired", true)
	default:
		return nil, entity.NotFound("No active license or trial found for this admin")
	}
}

func (f *fakeCore) AdminPortal(_ context.Context, adminEmail string) (*entity.AdminPortal, error) {
	l, err := f.license(adminEmail)
	if err != nil {
		return nil, err
	}
	return &entity.AdminPortal{AdminSummary: *entity.NewAdminSummary(l, time.Now()), CodesRemaining: 2}, nil
}

func (f *fakeCore) ValidateAdmin(_ context.Context, adminEmail string) (*entity.AdminSummary, error) {
	l, err := f.license(adminEmail)
	if err != nil {
		return nil, err.(*entity.Error).With("valid", false)
	}
	return entity.NewAdminSummary(l, time.Now()), nil
}

func (f *fakeCore) AdminStats(_ context.Context, adminEmail string) (*entity.AdminStats, error) {
	if _, err := f.license(adminEmail); err != nil {
		return nil, err
	}
	return &entity.AdminStats{CodesGenerated: 3, CodesSent: 1}, nil
}

func (f *fakeCore) NextTeacherCode(_ context.Context, adminEmail string) (*entity.TeacherCodeEmail, error) {
	if _, err := f.license(adminEmail); err != nil {
		return nil, err
	}
	return nil, entity.NotFound("No unused teacher codes available").With("codes_exhausted", true)
}

func (f *fakeCore) SendTeacherCode(_ context.Context, req *entity.SendCodeRequest) (*entity.SendCodeResult, error) {
	f.sent = req
	return &entity.SendCodeResult{Success: true, SentTo: req.RecipientEmail, EmailID: "<id>"}, nil
}

func (f *fakeCore) ExportCodes(_ context.Context, adminEmail string) (*entity.License, []entity.AccessCode, error) {
	l, err := f.license(adminEmail)
	if err != nil {
		return nil, nil, err
	}
	used := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)
	return l, []entity.AccessCode{
		{Code: "AAAA0001", ExpiresAt: used},
		{Code: "BBBB0002", Used: true, UsedBy: "t@s.org", UsedAt: &used, EmailSent: true, SentTo: "t@s.org", SentAt: &used, ExpiresAt: used},
	}, nil
}

func (f *fakeCore) SchoolLicense(_ context.Context, school string) (*entity.SchoolLicenseInfo, error) {
	if school != "Lincoln High" {
		return nil, entity.NotFound("No active license found")
	}
	return &entity.SchoolLicenseInfo{SchoolName: school}, nil
}

func (f *fakeCore) TeacherCodes(_ context.Context, _ string) ([]entity.AccessCode, error) {
	return []entity.AccessCode{}, nil
}

func (f *fakeCore) AccessCodes(_ context.Context, school string) ([]entity.AccessCode, error) {
	return []entity.AccessCode{
		{Code: "AAAA0001", Type: entity.CodeTypeStudent, School: school},
		{Code: "BBBB0002", Type: entity.CodeTypeTeacher, School: school},
	}, nil
}

func router(core Core) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Get("/admin-portal/{admin_email}", Portal(log, core))
	r.Get("/admin-portal/{admin_email}/codes.xlsx", ExportCodes(log, core))
	r.Post("/validate-admin", Validate(log, core))
	r.Get("/admin-stats/{admin_email}", Stats(log, core))
	r.Get("/get-next-teacher-code/{admin_email}", NextCode(log, core))
	r.Post("/send-teacher-code-email", SendCode(log, core))
	r.Get("/school-licenses/{school_name}", SchoolLicense(log, core))
	r.Get("/teacher-codes/{school_name}", SchoolCodes(log, core))
	r.Get("/access-codes/{school_name}", SchoolAccessCodes(log, core))
	return r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, reader))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPortal(t *testing.T) {
	core := &fakeCore{}
	h := router(core)

	w := do(h, http.MethodGet, "/admin-portal/admin%40school.org", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@school.org", core.lastEmail)
	body := decode(t, w)
	assert.Equal(t, "Lincoln High", body["school_name"])
	assert.Equal(t, float64(2), body["codes_remaining"])

	w = do(h, http.MethodGet, "/admin-portal/expired@school.org", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, true, decode(t, w)["expired"])

	w = do(h, http.MethodGet, "/admin-portal/nobody@school.org", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidate(t *testing.T) {
	h := router(&fakeCore{})

	w := do(h, http.MethodPost, "/validate-admin", `{"admin_email":"admin@school.org"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["valid"])

	w = do(h, http.MethodPost, "/validate-admin", `{"admin_email":"nobody@school.org"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["valid"])

	w = do(h, http.MethodPost, "/validate-admin", `{"admin_email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsAndNextCode(t *testing.T) {
	h := router(&fakeCore{})

	w := do(h, http.MethodGet, "/admin-stats/admin@school.org", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["codes_generated"])

	w = do(h, http.MethodGet, "/get-next-teacher-code/admin@school.org", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, true, decode(t, w)["codes_exhausted"])
}

func TestSendCode(t *testing.T) {
	core := &fakeCore{}
	h := router(core)

	w := do(h, http.MethodPost, "/send-teacher-code-email",
		`{"admin_email":"admin@school.org","recipient_email":"t@s.org","subject":"s","body":"b","code_id":"c1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", core.sent.CodeID)

	core.sent = nil
	w = do(h, http.MethodPost, "/send-teacher-code-email", `{"admin_email":"admin@school.org","recipient_email":"t@s.org"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, core.sent)
}

func TestSchoolLookups(t *testing.T) {
	h := router(&fakeCore{})

	w := do(h, http.MethodGet, "/school-licenses/Lincoln%20High", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lincoln High", decode(t, w)["school_name"])

	w = do(h, http.MethodGet, "/school-licenses/Other", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(h, http.MethodGet, "/teacher-codes/Lincoln%20High", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())

	w = do(h, http.MethodGet, "/access-codes/Lincoln%20High", "")
	require.Equal(t, http.StatusOK, w.Code)
	var codes []entity.AccessCode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &codes))
	require.Len(t, codes, 2)
	assert.Equal(t, entity.CodeTypeStudent, codes[0].Type)
	assert.Equal(t, "Lincoln High", codes[1].School)
}

func TestExportCodes(t *testing.T) {
	h := router(&fakeCore{})

	w := do(h, http.MethodGet, "/admin-portal/admin@school.org/codes.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxMediaType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Lincoln_High_teacher_codes.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(codesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, []string{"AAAA0001", "available"}, rows[1][:2])
	assert.Equal(t, "BBBB0002", rows[2][0])
	assert.Equal(t, "sent", rows[2][1])
	assert.Equal(t, "2024-09-02 08:30", rows[2][3])

	w = do(h, http.MethodGet, "/admin-portal/nobody@school.org/codes.xlsx", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
