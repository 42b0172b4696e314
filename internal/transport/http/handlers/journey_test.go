package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salon/internal/app/server"
	"salon/internal/domain/auth"
	"salon/internal/platform/config"
)

const testSecret = "journey-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func testConfig() config.Config {
	return config.Config{
		Environment:        "test",
		StorageDriver:      config.DriverMemory,
		JWTSecret:          testSecret,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 10000,
		Timezone:           "UTC",
		ShutdownTimeout:    time.Second,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return startServer(t, testConfig())
}

func startServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return srv
}

func token(t *testing.T, role auth.Role, userID, employeeID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, auth.Claims{UserID: userID, RoleName: string(role), EmployeeID: employeeID}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func call(t *testing.T, srv *httptest.Server, method, path, tok string, body any) (int, envelope) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func mustStatus(t *testing.T, label string, got, want int, env envelope) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: expected %d, got %d (error %+v)", label, want, got, env.Error)
	}
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(env.Data))
	}
}

type idOnly struct {
	ID string `json:"id"`
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestSalonJourney(t *testing.T) {
	runSalonJourney(t, newTestServer(t))
}

func TestSalonJourneyPostgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := testConfig()
	cfg.StorageDriver = config.DriverPostgres
	cfg.DatabaseURL = dbURL
	cfg.MigrationsDir = "../../../../migrations"
	cfg.RunMigrations = true
	runSalonJourney(t, startServer(t, cfg))
}

func runSalonJourney(t *testing.T, srv *httptest.Server) {
	admin := token(t, auth.RoleAdmin, "u-admin", "")
	reception := token(t, auth.RoleReceptionist, "u-desk", "")

	status, env := call(t, srv, http.MethodPost, "/api/v1/services", "", map[string]any{"name": "Corte"})
	mustStatus(t, "anonymous create service", status, http.StatusUnauthorized, env)

	status, env = call(t, srv, http.MethodPost, "/api/v1/services", reception, map[string]any{
		"name": "Corte", "durationMinutes": 30, "commissionPct": 40, "price": 20,
	})
	mustStatus(t, "receptionist create service", status, http.StatusForbidden, env)

	status, env = call(t, srv, http.MethodPost, "/api/v1/services", admin, map[string]any{
		"name": "Corte", "durationMinutes": 30, "commissionPct": 40, "price": 20, "effectiveFrom": "2024-01-01",
	})
	mustStatus(t, "create service", status, http.StatusCreated, env)
	var created struct {
		Service idOnly `json:"service"`
		Tariff  struct {
			Price decimal.Decimal `json:"price"`
		} `json:"tariff"`
	}
	decodeData(t, env, &created)
	serviceID := created.Service.ID
	if !created.Tariff.Price.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected opening tariff 20, got %s", created.Tariff.Price)
	}

	status, env = call(t, srv, http.MethodPost, "/api/v1/employees", admin, map[string]any{"name": "Ana"})
	mustStatus(t, "create employee", status, http.StatusCreated, env)
	var ana idOnly
	decodeData(t, env, &ana)

	status, env = call(t, srv, http.MethodPost, "/api/v1/employees", admin, map[string]any{"name": "Beto"})
	mustStatus(t, "create second employee", status, http.StatusCreated, env)
	var beto idOnly
	decodeData(t, env, &beto)

	status, env = call(t, srv, http.MethodPost, "/api/v1/clients", reception, map[string]any{"name": "Luis", "phone": "555-0100"})
	mustStatus(t, "receptionist create client", status, http.StatusForbidden, env)
	status, env = call(t, srv, http.MethodPost, "/api/v1/clients", admin, map[string]any{"name": "Luis", "phone": "555-0100"})
	mustStatus(t, "create client", status, http.StatusCreated, env)
	var luis idOnly
	decodeData(t, env, &luis)

	book := map[string]any{
		"clientId": luis.ID, "employeeId": ana.ID, "serviceId": serviceID,
		"date": "2030-03-04", "startTime": "10:00",
	}
	status, env = call(t, srv, http.MethodPost, "/api/v1/appointments", reception, book)
	mustStatus(t, "book", status, http.StatusCreated, env)
	var appt struct {
		ID              string `json:"id"`
		Status          string `json:"status"`
		DurationMinutes int    `json:"durationMinutes"`
	}
	decodeData(t, env, &appt)
	if appt.Status != "pending" || appt.DurationMinutes != 30 {
		t.Fatalf("unexpected booked appointment %+v", appt)
	}

	book["startTime"] = "10:15"
	status, env = call(t, srv, http.MethodPost, "/api/v1/appointments", reception, book)
	mustStatus(t, "overlapping booking", status, http.StatusConflict, env)
	if env.Error == nil || env.Error.Code != "slot_conflict" {
		t.Fatalf("expected slot_conflict, got %+v", env.Error)
	}
	if env.Error.Details["conflictingAppointmentId"] != appt.ID {
		t.Fatalf("expected conflict with %s, got %+v", appt.ID, env.Error.Details)
	}

	book["startTime"] = "10:30"
	status, env = call(t, srv, http.MethodPost, "/api/v1/appointments", reception, book)
	mustStatus(t, "back-to-back booking", status, http.StatusCreated, env)
	var second idOnly
	decodeData(t, env, &second)

	status, env = call(t, srv, http.MethodPut, "/api/v1/appointments/"+second.ID, reception, map[string]any{
		"date": "2030-03-04", "startTime": "09:45",
	})
	mustStatus(t, "conflicting reschedule", status, http.StatusConflict, env)

	status, env = call(t, srv, http.MethodDelete, "/api/v1/appointments/"+second.ID, reception, nil)
	mustStatus(t, "cancel", status, http.StatusOK, env)
	status, env = call(t, srv, http.MethodDelete, "/api/v1/appointments/"+second.ID, reception, nil)
	mustStatus(t, "cancel twice", status, http.StatusBadRequest, env)
	if env.Error == nil || env.Error.Code != "invalid_transition" {
		t.Fatalf("expected invalid_transition, got %+v", env.Error)
	}

	anaTok := token(t, auth.RoleEmployee, "u-ana", ana.ID)
	betoTok := token(t, auth.RoleEmployee, "u-beto", beto.ID)

	status, env = call(t, srv, http.MethodPatch, "/api/v1/appointments/"+appt.ID+"/status", anaTok, map[string]any{"status": "confirmed"})
	mustStatus(t, "employee confirm", status, http.StatusForbidden, env)

	status, env = call(t, srv, http.MethodPatch, "/api/v1/appointments/"+appt.ID+"/status", anaTok, map[string]any{"status": "completed"})
	mustStatus(t, "complete pending", status, http.StatusBadRequest, env)

	status, env = call(t, srv, http.MethodPatch, "/api/v1/appointments/"+appt.ID+"/status", reception, map[string]any{"status": "confirmed"})
	mustStatus(t, "confirm", status, http.StatusOK, env)

	status, env = call(t, srv, http.MethodGet, "/api/v1/appointments/"+appt.ID, betoTok, nil)
	mustStatus(t, "other employee reads appointment", status, http.StatusNotFound, env)

	status, env = call(t, srv, http.MethodPatch, "/api/v1/appointments/"+appt.ID+"/status", anaTok, map[string]any{
		"status": "completed", "extraAmount": "-1",
	})
	mustStatus(t, "negative extra", status, http.StatusBadRequest, env)

	status, env = call(t, srv, http.MethodPatch, "/api/v1/appointments/"+appt.ID+"/status", anaTok, map[string]any{
		"status": "completed", "paymentMethod": "cash",
	})
	mustStatus(t, "complete", status, http.StatusOK, env)
	var done struct {
		Appointment struct {
			Status string `json:"status"`
		} `json:"appointment"`
		CommissionEntryID string `json:"commissionEntryId"`
		Commission        struct {
			GrossValue decimal.Decimal `json:"grossValue"`
			Amount     decimal.Decimal `json:"amount"`
		} `json:"commission"`
	}
	decodeData(t, env, &done)
	if done.Appointment.Status != "completed" || done.CommissionEntryID == "" {
		t.Fatalf("unexpected completion %+v", done)
	}
	if !done.Commission.GrossValue.Equal(decimal.NewFromInt(20)) || !done.Commission.Amount.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected gross 20 amount 8, got %s / %s", done.Commission.GrossValue, done.Commission.Amount)
	}

	status, env = call(t, srv, http.MethodPatch, "/api/v1/appointments/"+appt.ID+"/status", anaTok, map[string]any{"status": "completed"})
	mustStatus(t, "complete twice", status, http.StatusBadRequest, env)

	today := time.Now().UTC()
	from := today.AddDate(0, 0, -1).Format("2006-01-02")
	to := today.AddDate(0, 0, 1).Format("2006-01-02")

	status, env = call(t, srv, http.MethodPost, "/api/v1/payroll/discounts", admin, map[string]any{
		"employeeId": ana.ID, "description": "Uniforme", "value": "3.50", "date": today.Format("2006-01-02"),
	})
	mustStatus(t, "create discount", status, http.StatusCreated, env)

	status, env = call(t, srv, http.MethodPost, "/api/v1/payroll/discounts", admin, map[string]any{
		"employeeId": ana.ID, "description": "Nada", "value": "0", "date": today.Format("2006-01-02"),
	})
	mustStatus(t, "zero discount", status, http.StatusBadRequest, env)

	status, env = call(t, srv, http.MethodGet, "/api/v1/payroll?employee="+ana.ID+"&from="+from+"&to="+to, admin, nil)
	mustStatus(t, "statement", status, http.StatusOK, env)
	var statement struct {
		Commissions      []json.RawMessage `json:"commissions"`
		Discounts        []json.RawMessage `json:"discounts"`
		TotalCommissions decimal.Decimal   `json:"totalCommissions"`
		TotalDiscounts   decimal.Decimal   `json:"totalDiscounts"`
		Total            decimal.Decimal   `json:"total"`
	}
	decodeData(t, env, &statement)
	if len(statement.Commissions) != 1 || len(statement.Discounts) != 1 {
		t.Fatalf("expected one commission and one discount, got %d / %d", len(statement.Commissions), len(statement.Discounts))
	}
	if !statement.TotalCommissions.Equal(decimal.NewFromInt(8)) ||
		!statement.TotalDiscounts.Equal(decimal.RequireFromString("3.5")) ||
		!statement.Total.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected totals %s - %s = %s", statement.TotalCommissions, statement.TotalDiscounts, statement.Total)
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/payroll?from="+from+"&to="+to, anaTok, nil)
	mustStatus(t, "own statement", status, http.StatusOK, env)

	status, env = call(t, srv, http.MethodGet, "/api/v1/payroll?employee="+ana.ID+"&from="+from+"&to="+to, betoTok, nil)
	mustStatus(t, "other employee statement", status, http.StatusForbidden, env)

	status, env = call(t, srv, http.MethodGet, "/api/v1/appointments", betoTok, nil)
	mustStatus(t, "other employee agenda", status, http.StatusOK, env)
	var agenda []json.RawMessage
	decodeData(t, env, &agenda)
	if len(agenda) != 0 {
		t.Fatalf("expected an empty agenda for Beto, got %d appointments", len(agenda))
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/payroll/discounts?from="+from+"&to="+to, betoTok, nil)
	mustStatus(t, "other employee discounts", status, http.StatusOK, env)
	var discounts []json.RawMessage
	decodeData(t, env, &discounts)
	if len(discounts) != 0 {
		t.Fatalf("expected no discounts for Beto, got %d", len(discounts))
	}

	unbound := token(t, auth.RoleEmployee, "u-ghost", "")
	for _, path := range []string{
		"/api/v1/appointments",
		"/api/v1/payroll/discounts?from=" + from + "&to=" + to,
		"/api/v1/payroll?from=" + from + "&to=" + to,
	} {
		status, env = call(t, srv, http.MethodGet, path, unbound, nil)
		mustStatus(t, "employee token without eid "+path, status, http.StatusUnauthorized, env)
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/payroll?employee="+ana.ID+"&from="+to+"&to="+from, admin, nil)
	mustStatus(t, "inverted range", status, http.StatusBadRequest, env)
	if env.Error == nil || env.Error.Code != "invalid_range" {
		t.Fatalf("expected invalid_range, got %+v", env.Error)
	}

	status, env = call(t, srv, http.MethodGet, "/api/v1/payroll?employee="+ana.ID+"&from="+from+"&to="+to, reception, nil)
	mustStatus(t, "receptionist statement", status, http.StatusForbidden, env)

	status, env = call(t, srv, http.MethodGet, "/api/v1/audit/events?entityType=appointment", admin, nil)
	mustStatus(t, "audit list", status, http.StatusOK, env)
	var events []json.RawMessage
	decodeData(t, env, &events)
	if len(events) < 5 {
		t.Fatalf("expected appointment audit trail, got %d events", len(events))
	}
	status, env = call(t, srv, http.MethodGet, "/api/v1/audit/events?offset=10000000", admin, nil)
	mustStatus(t, "audit offset past cap", status, http.StatusBadRequest, env)

	status, env = call(t, srv, http.MethodGet, "/api/v1/metrics", admin, nil)
	mustStatus(t, "metrics", status, http.StatusOK, env)
	var snapshot map[string]float64
	decodeData(t, env, &snapshot)
	if snapshot["bookingsTotal"] != 2 || snapshot["slotConflictsTotal"] != 2 || snapshot["completionsTotal"] != 1 {
		t.Fatalf("unexpected metrics %+v", snapshot)
	}
}

func TestTariffEndpoints(t *testing.T) {
	srv := newTestServer(t)
	admin := token(t, auth.RoleAdmin, "u-admin", "")
	reception := token(t, auth.RoleReceptionist, "u-desk", "")

	status, env := call(t, srv, http.MethodPost, "/api/v1/services", admin, map[string]any{
		"name": "Tinte", "durationMinutes": 60, "commissionPct": "35.5", "price": 40, "effectiveFrom": "2024-01-01",
	})
	mustStatus(t, "create service", status, http.StatusCreated, env)
	var created struct {
		Service idOnly `json:"service"`
	}
	decodeData(t, env, &created)
	base := "/api/v1/services/" + created.Service.ID + "/tariffs"

	status, env = call(t, srv, http.MethodPost, base, reception, map[string]any{"price": 45, "effectiveFrom": "2024-03-01"})
	mustStatus(t, "receptionist set price", status, http.StatusForbidden, env)

	status, env = call(t, srv, http.MethodPost, base, admin, map[string]any{"price": 45, "effectiveFrom": "2024-03-01"})
	mustStatus(t, "set price", status, http.StatusOK, env)

	status, env = call(t, srv, http.MethodPost, base, admin, map[string]any{"price": 50, "effectiveFrom": "2024-02-01"})
	mustStatus(t, "out of order", status, http.StatusBadRequest, env)
	if env.Error == nil || env.Error.Code != "out_of_order" {
		t.Fatalf("expected out_of_order, got %+v", env.Error)
	}

	status, env = call(t, srv, http.MethodPost, base, admin, map[string]any{"price": -1, "effectiveFrom": "2024-04-01"})
	mustStatus(t, "negative price", status, http.StatusBadRequest, env)

	status, env = call(t, srv, http.MethodGet, base, reception, nil)
	mustStatus(t, "history", status, http.StatusOK, env)
	var history []struct {
		Price         decimal.Decimal `json:"price"`
		EffectiveFrom time.Time       `json:"effectiveFrom"`
		EffectiveTo   *time.Time      `json:"effectiveTo"`
	}
	decodeData(t, env, &history)
	if len(history) != 2 {
		t.Fatalf("expected 2 tariffs, got %d", len(history))
	}
	if history[0].EffectiveTo == nil || !history[0].EffectiveTo.Equal(history[1].EffectiveFrom) || history[1].EffectiveTo != nil {
		t.Fatalf("history is not contiguous: %+v", history)
	}

	var price struct {
		Price decimal.Decimal `json:"price"`
	}
	status, env = call(t, srv, http.MethodGet, base+"/at?ts=2024-02-15", reception, nil)
	mustStatus(t, "price at", status, http.StatusOK, env)
	decodeData(t, env, &price)
	if !price.Price.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected 40 in February, got %s", price.Price)
	}

	status, env = call(t, srv, http.MethodGet, base+"/at?ts=2024-03-01T00:00:00Z", reception, nil)
	mustStatus(t, "price at boundary", status, http.StatusOK, env)
	decodeData(t, env, &price)
	if !price.Price.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected 45 from March, got %s", price.Price)
	}

	status, env = call(t, srv, http.MethodGet, base+"/current", reception, nil)
	mustStatus(t, "current", status, http.StatusOK, env)
	decodeData(t, env, &price)
	if !price.Price.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected current 45, got %s", price.Price)
	}

	status, env = call(t, srv, http.MethodGet, base+"/at?ts=2023-06-01", reception, nil)
	mustStatus(t, "before first tariff", status, http.StatusNotFound, env)
	if env.Error == nil || env.Error.Code != "no_tariff" {
		t.Fatalf("expected no_tariff, got %+v", env.Error)
	}
}
