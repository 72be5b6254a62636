package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdiary/backend/internal/domain"
	"github.com/workdiary/backend/internal/repository/postgres"
	"github.com/workdiary/backend/internal/service"
)

var pastWeek = domain.NewDate(2026, time.October, 5)

func newTestApp(seed ...domain.Sheet) *fiber.App {
	repo := postgres.NewMockRepository(seed...)
	complianceSvc := service.NewComplianceService(time.UTC).WithClock(func() time.Time {
		return time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	})
	sheetSvc := service.NewSheetService(repo, complianceSvc)
	oversightSvc := service.NewOversightService(repo, complianceSvc, 2)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, NewHandler(complianceSvc, sheetSvc, oversightSvc, repo))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func span(from, to int) domain.Slots {
	var s domain.Slots
	for i := from; i < to; i++ {
		s[i] = true
	}
	return s
}

// One 20 hrs work day followed by rest days
func shortRestDays() []domain.DayRecord {
	days := make([]domain.DayRecord, 7)
	for i := range days {
		days[i].Grid.NonWork = span(0, domain.SlotsPerDay)
	}
	days[0].Grid = domain.DayGrid{Work: span(0, 40), NonWork: span(40, 48)}
	return days
}

func TestHealthCheck(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
}

func TestCheckCompliance(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "POST", "/api/v1/compliance/check", fiber.Map{
		"days":         shortRestDays(),
		"driverType":   "solo",
		"weekStarting": pastWeek,
	})
	require.Equal(t, fiber.StatusOK, status)

	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, results)

	var sawViolation bool
	for _, r := range results {
		finding := r.(map[string]interface{})
		assert.Contains(t, finding, "ruleIcon")
		assert.Contains(t, finding, "periodLabel")
		if finding["severity"] == "violation" {
			sawViolation = true
		}
	}
	assert.True(t, sawViolation)
}

func TestCheckCompliance_EmptyResultsIsArray(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "POST", "/api/v1/compliance/check", fiber.Map{
		"days": []domain.DayRecord{},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{}, body["results"])
}

func TestCheckCompliance_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing days", fiber.Map{"driverType": "solo"}},
		{"too many days", fiber.Map{"days": make([]domain.DayRecord, 8)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, newTestApp(), "POST", "/api/v1/compliance/check", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, true, body["error"])
		})
	}
}

func TestSaveSheetAndEvaluate(t *testing.T) {
	app := newTestApp()

	status, body := doJSON(t, app, "POST", "/api/v1/sheets", domain.Sheet{
		DriverID:     "driver-1",
		WeekStarting: pastWeek,
		Days:         shortRestDays(),
	})
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "solo", data["driverType"])

	status, body = doJSON(t, app, "GET", "/api/v1/sheets/"+id+"/compliance", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["results"])
}

func TestSaveSheet_Invalid(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "POST", "/api/v1/sheets", domain.Sheet{WeekStarting: pastWeek})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "driverId")
}

func TestSheetCompliance_NotFound(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "GET", "/api/v1/sheets/unknown/compliance", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Sheet not found", body["message"])
}

func TestGetOversight(t *testing.T) {
	clean := make([]domain.DayRecord, 7)
	for i := range clean {
		clean[i].Grid.NonWork = span(0, domain.SlotsPerDay)
	}
	app := newTestApp(
		domain.Sheet{ID: "clean", DriverID: "d1", WeekStarting: pastWeek, Days: clean},
		domain.Sheet{ID: "bad", DriverID: "d2", WeekStarting: pastWeek, Days: shortRestDays()},
	)

	status, body := doJSON(t, app, "GET", "/api/v1/oversight", nil)
	require.Equal(t, fiber.StatusOK, status)
	report := body["data"].(map[string]interface{})
	assert.Len(t, report["sheets"], 2)
	assert.Positive(t, report["totalViolations"])

	status, body = doJSON(t, app, "GET", "/api/v1/oversight?onlyViolations=true", nil)
	require.Equal(t, fiber.StatusOK, status)
	report = body["data"].(map[string]interface{})
	sheets := report["sheets"].([]interface{})
	require.Len(t, sheets, 1)
	assert.Equal(t, "bad", sheets[0].(map[string]interface{})["sheetId"])
}
