package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/config"
	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/model"
)

// APIResponse represents the API response structure
type APIResponse struct {
	Code    int             `json:"-"`
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (r APIResponse) IsSuccess() bool {
	return r.Status == "success"
}

func (r APIResponse) Decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v), string(r.Data))
}

type client struct {
	t       *testing.T
	handler http.Handler
	headers map[string]string
}

func (c client) as(r model.Role) client {
	headers := map[string]string{middleware.HeaderRole: string(r)}
	return client{t: c.t, handler: c.handler, headers: headers}
}

func (c client) do(method, path string, payload interface{}) APIResponse {
	c.t.Helper()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(c.t, err)
		reqBody = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return c.serve(req)
}

func (c client) serve(req *http.Request) APIResponse {
	c.t.Helper()

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	resp := APIResponse{Code: w.Code}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return resp
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Server.Mode = "test"
	cfg.Store.SimulateLatency = false
	cfg.Store.Timezone = "UTC"
	cfg.RateLimit.Enabled = false
	cfg.Outbox.PollInterval = 10 * time.Millisecond
	cfg.Outbox.RetryDelay = time.Millisecond
	return cfg
}

func newTestApp(t *testing.T) (*App, client) {
	t.Helper()
	a, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, client{t: t, handler: a.Handler()}
}

// body is a JSON request payload.
type body = map[string]interface{}

func TestHealth(t *testing.T) {
	_, c := newTestApp(t)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/ready", nil).Code)

	c.do(http.MethodGet, "/appointments", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/metrics", nil)
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mediconnect_store_operations_total")
	assert.Contains(t, w.Body.String(), "mediconnect_http_requests_total")
}

func TestRolePreference(t *testing.T) {
	_, c := newTestApp(t)
	c.headers = map[string]string{middleware.HeaderClientID: "browser-42"}

	resp := c.do(http.MethodGet, "/me/role", nil)
	require.True(t, resp.IsSuccess())
	var me struct {
		Role         string   `json:"role"`
		Capabilities []string `json:"capabilities"`
	}
	resp.Decode(t, &me)
	assert.Equal(t, "patient", me.Role)
	assert.Contains(t, me.Capabilities, "book_appointment")

	resp = c.do(http.MethodPut, "/me/role", body{"role": "doctor"})
	require.True(t, resp.IsSuccess(), resp.Message)

	resp = c.do(http.MethodGet, "/me/role", nil)
	resp.Decode(t, &me)
	assert.Equal(t, "doctor", me.Role)
	assert.NotContains(t, me.Capabilities, "book_appointment")

	resp = c.do(http.MethodPut, "/me/role", body{"role": "nurse"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBookAndApproveFlow(t *testing.T) {
	a, c := newTestApp(t)
	patient, doctor := c.as(model.RolePatient), c.as(model.RoleDoctor)

	// Doctors cannot book
	resp := doctor.do(http.MethodPost, "/appointments", body{
		"patient_name": "Jane Roe", "doctor_name": "Dr. Sarah Johnson", "date_time": "2024-03-15T11:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = patient.do(http.MethodPost, "/appointments", body{
		"patient_name": "Jane Roe", "doctor_name": "Dr. Sarah Johnson", "date_time": "2024-03-15T11:00:00Z",
		"reason": "Follow-up",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	var apt model.Appointment
	resp.Decode(t, &apt)
	assert.Equal(t, 7, apt.ID)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)

	// The slot shows up as booked for patients
	resp = patient.do(http.MethodGet, "/calendar?month=2024-03&selected=2024-03-15", nil)
	require.True(t, resp.IsSuccess(), resp.Message)
	var view struct {
		Days []struct {
			Date             string `json:"date"`
			AppointmentCount int    `json:"appointment_count"`
		} `json:"days"`
		Selected struct {
			Appointments []model.Appointment `json:"appointments"`
			Slots        []struct {
				Time   string `json:"time"`
				Booked bool   `json:"booked"`
			} `json:"slots"`
		} `json:"selected"`
	}
	resp.Decode(t, &view)
	assert.Len(t, view.Days, 31)
	assert.Len(t, view.Selected.Appointments, 3)
	booked := map[string]bool{}
	for _, s := range view.Selected.Slots {
		booked[s.Time] = s.Booked
	}
	assert.True(t, booked["10:00"])
	assert.True(t, booked["11:00"])
	assert.True(t, booked["14:30"])
	assert.False(t, booked["09:00"])

	// Patients cannot approve
	resp = patient.do(http.MethodPost, fmt.Sprintf("/appointments/%d/approve", apt.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doctor.do(http.MethodPost, fmt.Sprintf("/appointments/%d/approve", apt.ID), nil)
	require.True(t, resp.IsSuccess(), resp.Message)
	resp.Decode(t, &apt)
	assert.Equal(t, model.AppointmentStatusApproved, apt.Status)

	resp = doctor.do(http.MethodGet, "/appointments?status=approved&search=jane", nil)
	var list []model.Appointment
	resp.Decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, apt.ID, list[0].ID)

	// Booking and approval are queued for the broker
	pending, err := a.Outbox.CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.StartBackground(ctx))
	assert.Eventually(t, func() bool {
		n, err := a.Outbox.CountPending(context.Background())
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAppointmentNotFound(t *testing.T) {
	_, c := newTestApp(t)
	doctor := c.as(model.RoleDoctor)

	assert.Equal(t, http.StatusNotFound, doctor.do(http.MethodGet, "/appointments/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, doctor.do(http.MethodPost, "/appointments/999/reject", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doctor.do(http.MethodGet, "/appointments/abc", nil).Code)

	resp := doctor.do(http.MethodPut, "/appointments/1", body{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPatientFlow(t *testing.T) {
	a, c := newTestApp(t)
	doctor := c.as(model.RoleDoctor)

	assert.Equal(t, http.StatusForbidden, c.as(model.RolePatient).do(http.MethodGet, "/patients", nil).Code)

	before := a.Store.Patients.Len()
	resp := doctor.do(http.MethodDelete, "/patients/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "patient not found", resp.Message)
	assert.Equal(t, before, a.Store.Patients.Len())

	resp = doctor.do(http.MethodPost, "/patients", body{"name": "Grace Hopper", "email": "grace@example.com"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	var p model.Patient
	resp.Decode(t, &p)
	assert.Equal(t, before+1, p.ID)

	resp = doctor.do(http.MethodGet, "/patients/1/history", nil)
	require.True(t, resp.IsSuccess())
	var history model.PatientHistory
	resp.Decode(t, &history)
	assert.Equal(t, 2, history.Stats.Total)
	assert.Equal(t, 1, history.Stats.Completed)

	assert.Equal(t, http.StatusNoContent, doctor.do(http.MethodDelete, fmt.Sprintf("/patients/%d", p.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, doctor.do(http.MethodGet, fmt.Sprintf("/patients/%d", p.ID), nil).Code)
}

func TestPrescriptionFlow(t *testing.T) {
	_, c := newTestApp(t)
	doctor, patient := c.as(model.RoleDoctor), c.as(model.RolePatient)

	resp := patient.do(http.MethodGet, "/prescriptions/templates", nil)
	require.True(t, resp.IsSuccess())
	var templates []model.PrescriptionTemplate
	resp.Decode(t, &templates)
	require.NotEmpty(t, templates)

	resp = patient.do(http.MethodPost, "/prescriptions", body{"patient_name": "John Doe", "template": templates[0].Key})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doctor.do(http.MethodPost, "/prescriptions", body{"patient_name": "John Doe", "template": templates[0].Key})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)
	var rx model.Prescription
	resp.Decode(t, &rx)
	assert.Equal(t, templates[0].Label, rx.TemplateUsed)
	assert.Equal(t, templates[0].Medications, rx.Medications)

	resp = doctor.do(http.MethodPost, "/prescriptions", body{"patient_name": "John Doe", "template": "does-not-exist"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/prescriptions/%d/pdf", rx.ID), nil)
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestFileFlow(t *testing.T) {
	_, c := newTestApp(t)

	form := &bytes.Buffer{}
	mw := multipart.NewWriter(form)
	part, err := mw.CreateFormFile("files", "labs.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4\n%lab results\n"))
	part, err = mw.CreateFormFile("files", "virus.exe")
	require.NoError(t, err)
	_, _ = part.Write([]byte("MZ"))
	require.NoError(t, mw.WriteField("category", "lab_results"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := c.serve(req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Message)

	var result struct {
		Files    []model.FileRecord `json:"files"`
		Rejected []struct {
			FileName string `json:"file_name"`
		} `json:"rejected"`
	}
	resp.Decode(t, &result)
	require.Len(t, result.Files, 1)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "virus.exe", result.Rejected[0].FileName)
	uploaded := result.Files[0]
	assert.Equal(t, "application/pdf", uploaded.FileType)
	assert.Equal(t, "John Doe", uploaded.PatientName)

	dl := httptest.NewRecorder()
	c.handler.ServeHTTP(dl, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/files/%d/download", uploaded.ID), nil))
	assert.Equal(t, http.StatusOK, dl.Code)
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "labs.pdf")

	resp = c.do(http.MethodGet, "/files?category=lab_results", nil)
	var files []model.FileRecord
	resp.Decode(t, &files)
	assert.NotEmpty(t, files)
	for _, f := range files {
		assert.Equal(t, model.FileCategoryLabResults, f.Category)
	}

	resp = c.do(http.MethodGet, "/files/stats", nil)
	var stats model.FileStats
	resp.Decode(t, &stats)
	assert.Equal(t, 4, stats.TotalFiles)

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, fmt.Sprintf("/files/%d", uploaded.ID), nil).Code)
	assert.Equal(t, http.StatusNoContent, c.as(model.RoleDoctor).do(http.MethodDelete, fmt.Sprintf("/files/%d", uploaded.ID), nil).Code)
}

func TestScheduleFlow(t *testing.T) {
	_, c := newTestApp(t)
	doctor := c.as(model.RoleDoctor)

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/schedule/saturday/toggle", nil).Code)

	resp := doctor.do(http.MethodPost, "/schedule/saturday/toggle", nil)
	require.True(t, resp.IsSuccess(), resp.Message)
	var day model.ScheduleDay
	resp.Decode(t, &day)
	assert.True(t, day.IsAvailable)
	assert.Equal(t, "09:00", day.StartTime)
	assert.Len(t, day.TimeSlots, 8)

	resp = doctor.do(http.MethodPatch, "/schedule/saturday", body{"start_time": "10:00", "end_time": "12:00"})
	require.True(t, resp.IsSuccess(), resp.Message)

	resp = doctor.do(http.MethodPatch, "/schedule/saturday", body{"start_time": "10am", "end_time": "12:00"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doctor.do(http.MethodGet, "/schedule", nil)
	var week struct {
		Days     []model.ScheduleDay     `json:"days"`
		Warnings []model.ScheduleWarning `json:"warnings"`
	}
	resp.Decode(t, &week)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "10:00", week.Days[5].StartTime)
	assert.NotEmpty(t, week.Warnings, "09:00 and 09:30 are outside 10:00-12:00")

	resp = doctor.do(http.MethodPost, "/schedule/saturday/slots/09%3A00/toggle", nil)
	require.True(t, resp.IsSuccess(), resp.Message)
	resp.Decode(t, &day)
	assert.NotContains(t, day.TimeSlots, "09:00")
}

func TestDashboardAndProfile(t *testing.T) {
	_, c := newTestApp(t)
	doctor := c.as(model.RoleDoctor)

	resp := doctor.do(http.MethodGet, "/dashboard", nil)
	require.True(t, resp.IsSuccess(), resp.Message)
	var view struct {
		Role  string `json:"role"`
		Stats []struct {
			Title string `json:"title"`
			Value int    `json:"value"`
		} `json:"stats"`
		RecentPrescriptions []model.Prescription `json:"recent_prescriptions"`
	}
	resp.Decode(t, &view)
	assert.Equal(t, "doctor", view.Role)
	require.Len(t, view.Stats, 4)
	assert.Equal(t, "Pending Approvals", view.Stats[1].Title)
	assert.Equal(t, 2, view.Stats[1].Value)
	assert.Len(t, view.RecentPrescriptions, 3)

	resp = doctor.do(http.MethodGet, "/profile", nil)
	var p model.Profile
	resp.Decode(t, &p)
	assert.Equal(t, "Internal Medicine", p.Specialization)

	resp = doctor.do(http.MethodPut, "/profile", body{"experience": "12 years", "allergies": "none"})
	require.True(t, resp.IsSuccess(), resp.Message)
	resp.Decode(t, &p)
	assert.Equal(t, "12 years", p.Experience)
	assert.Empty(t, p.Allergies)

	resp = doctor.do(http.MethodPut, "/profile", body{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
