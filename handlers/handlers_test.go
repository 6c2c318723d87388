package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hr_records/handlers"
	"hr_records/middleware"
	"hr_records/models"
	"hr_records/services"
	"hr_records/test"
	"hr_records/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app *fiber.App
	f   *test.Fixture
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	f := test.NewFixture(t)
	svc := services.New(f.DB, services.Options{
		Clock:  test.FixedClock(time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)),
		Tokens: services.NewTokenManager("handler-secret-0123456789", time.Hour),
	})
	app := handlers.NewApp(handlers.New(svc), handlers.AppOptions{})
	return &testServer{app: app, f: f}
}

// do sends a request and decodes the APIResponse envelope.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, types.APIResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var out types.APIResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp, out := s.do(t, "POST", "/auth/login", "", handlers.LoginRequest{Username: username, Password: test.Password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, out.Error)
	data := out.Data.(map[string]interface{})
	return data["token"].(string)
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)

	t.Run("Bad Credentials", func(t *testing.T) {
		resp, out := s.do(t, "POST", "/auth/login", "", handlers.LoginRequest{Username: "alice", Password: "nope"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.False(t, out.Success)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		resp, _ := s.do(t, "POST", "/auth/login", "", handlers.LoginRequest{Username: "alice"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("No Token", func(t *testing.T) {
		resp, out := s.do(t, "GET", "/employees", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "No token provided", out.Error)
	})

	t.Run("Unknown Route Is Not Found", func(t *testing.T) {
		resp, _ := s.do(t, "GET", "/nope", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		resp, _ = s.do(t, "DELETE", "/auth", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Bad Token", func(t *testing.T) {
		resp, out := s.do(t, "GET", "/employees", "forged", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid or expired token", out.Error)
	})

	t.Run("Me", func(t *testing.T) {
		token := s.login(t, "alice")
		resp, out := s.do(t, "GET", "/auth/me", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		data := out.Data.(map[string]interface{})
		user := data["user"].(map[string]interface{})
		assert.Equal(t, "alice", user["username"])
		assert.NotContains(t, user, "PasswordHash")
	})
}

func TestEmployeeEndpoints(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, "admin")
	manager := s.login(t, "hana")
	employee := s.login(t, "alice")

	t.Run("Manager List Is Department Scoped", func(t *testing.T) {
		resp, out := s.do(t, "GET", "/employees", manager, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Len(t, out.Data, 3)
	})

	t.Run("Search", func(t *testing.T) {
		resp, out := s.do(t, "GET", "/employees?q=carol", admin, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		rows := out.Data.([]interface{})
		require.Len(t, rows, 1)
		assert.Equal(t, "Carol Chen", rows[0].(map[string]interface{})["full_name"])
	})

	t.Run("Out Of Scope Is Forbidden", func(t *testing.T) {
		resp, _ := s.do(t, "GET", fmt.Sprintf("/employees/%d", s.f.Carol.ID), manager, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Admin Missing Is Not Found", func(t *testing.T) {
		resp, _ := s.do(t, "GET", "/employees/999", admin, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Bad Id", func(t *testing.T) {
		resp, _ := s.do(t, "GET", "/employees/abc", admin, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Only Admin Creates", func(t *testing.T) {
		input := services.EmployeeInput{FullName: "Eve Evans", NationalID: "NIK-E", DepartmentID: s.f.HR.ID}

		resp, out := s.do(t, "POST", "/employees", employee, input)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.False(t, out.Success)

		resp, out = s.do(t, "POST", "/employees", admin, input)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, out.Error)
		assert.True(t, out.Success)

		resp, _ = s.do(t, "POST", "/employees", admin, input)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLeaveEndpoints(t *testing.T) {
	s := setupServer(t)
	alice := s.login(t, "alice")
	hana := s.login(t, "hana")
	ivan := s.login(t, "ivan")

	resp, out := s.do(t, "POST", "/leaves", alice, services.LeaveDraft{
		StartDate: "2024-05-13",
		EndDate:   "2024-05-14",
		LeaveType: models.LeaveAnnual,
		Reason:    "trip",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, out.Error)
	leaveID := uint(out.Data.(map[string]interface{})["id"].(float64))

	t.Run("Other Department Manager Is Forbidden", func(t *testing.T) {
		resp, _ := s.do(t, "POST", fmt.Sprintf("/leaves/%d/approve", leaveID), ivan, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Employee Cannot Approve", func(t *testing.T) {
		resp, _ := s.do(t, "POST", fmt.Sprintf("/leaves/%d/approve", leaveID), alice, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Approve Then Conflict", func(t *testing.T) {
		resp, out := s.do(t, "POST", fmt.Sprintf("/leaves/%d/approve", leaveID), hana, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, out.Error)
		assert.Equal(t, "approved", out.Data.(map[string]interface{})["status"])

		resp, _ = s.do(t, "POST", fmt.Sprintf("/leaves/%d/reject", leaveID), hana, nil)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("Calendar", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/leaves/calendar.ics", nil)
		req.Header.Set("Authorization", "Bearer "+alice)
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "BEGIN:VEVENT")
		assert.Contains(t, string(body), "Alice Adams: annual leave")
	})

	t.Run("Invalid Filter", func(t *testing.T) {
		resp, _ := s.do(t, "GET", "/leaves?status=maybe", hana, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestAttendanceEndpoints(t *testing.T) {
	s := setupServer(t)
	bob := s.login(t, "bob")
	admin := s.login(t, "admin")

	resp, out := s.do(t, "POST", "/attendances/check-in", bob, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, out.Error)
	assert.Equal(t, "present", out.Data.(map[string]interface{})["status"])

	resp, _ = s.do(t, "POST", "/attendances/check-in", bob, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = s.do(t, "POST", "/attendances/check-in", admin, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	backdated := services.AttendanceInput{EmployeeID: s.f.Bob.ID, Date: "2024-01-15", Status: models.AttendanceLeave}
	resp, out = s.do(t, "POST", "/attendances", bob, backdated)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.False(t, out.Success)

	resp, out = s.do(t, "POST", "/attendances", admin, services.AttendanceInput{
		EmployeeID: s.f.Bob.ID, Date: "2024-01-15", Status: models.AttendanceAbsent,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, out.Error)

	req := httptest.NewRequest("GET", "/attendances/export.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	xresp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, xresp.StatusCode)
	assert.Contains(t, xresp.Header.Get("Content-Disposition"), "attendance.xlsx")
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := setupServer(t)
	manager := s.login(t, "hana")
	admin := s.login(t, "admin")

	resp, out := s.do(t, "POST", "/departments", manager, services.DepartmentInput{Code: "OPS", Name: "Operations"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, types.Forbidden().Message, out.Error)

	resp, _ = s.do(t, "DELETE", fmt.Sprintf("/departments/%d", s.f.HR.ID), admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, "POST", fmt.Sprintf("/users/%d/deactivate", s.f.Admin.ID), admin, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	s := setupServer(t)
	token := s.login(t, "hana")

	resp, out := s.do(t, "GET", "/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := out.Data.(map[string]interface{})
	assert.Equal(t, "Human Resources", stats["department"])
	assert.EqualValues(t, 3, stats["employees"])

	req := httptest.NewRequest("GET", "/ui/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	page, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, page.StatusCode)
	assert.Contains(t, page.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Human Resources")
	assert.Contains(t, string(body), "Manager")
}

func TestDashboardPageWithSessionCookie(t *testing.T) {
	s := setupServer(t)

	resp, _ := s.do(t, "POST", "/auth/login", "", handlers.LoginRequest{Username: "hana", Password: test.Password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, "/ui", session.Path)

	page := func(cookie *http.Cookie) *http.Response {
		req := httptest.NewRequest("GET", "/ui/dashboard", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	got := page(session)
	require.Equal(t, fiber.StatusOK, got.StatusCode)
	body, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Human Resources")

	assert.Equal(t, fiber.StatusUnauthorized, page(nil).StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, page(&http.Cookie{Name: middleware.SessionCookie, Value: "forged"}).StatusCode)

	// The cookie is for pages only; the JSON API still wants a bearer header.
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(session)
	api, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, api.StatusCode)

	resp, _ = s.do(t, "POST", "/auth/logout", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			assert.Empty(t, c.Value)
		}
	}
}
