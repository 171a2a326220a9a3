package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estoque/internal/domain"
	"estoque/internal/service"
)

func getReport(t *testing.T, env *testEnv, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestDailyReportEndpoint(t *testing.T) {
	env := newTestEnv(nil)

	product := addProduct(t, env, "Shampoo", "Cabelo", 10.00, 100)
	recordSale(t, env, product.ID.String(), 2, "2024-03-10")
	recordSale(t, env, product.ID.String(), 2, "2024-03-10")
	recordSale(t, env, product.ID.String(), 1, "2024-03-11")

	w := getReport(t, env, "/api/reports/daily?date=2024-03-10")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report service.DailyReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}

	if report.Date != "2024-03-10" {
		t.Errorf("Expected date 2024-03-10, got %s", report.Date)
	}
	if len(report.Sales) != 2 || report.Quantity != 4 {
		t.Errorf("Expected 2 sales quantity 4, got %d sales quantity %d", len(report.Sales), report.Quantity)
	}

	w = getReport(t, env, "/api/reports/daily?date=10/03/2024")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed date, got %d", w.Code)
	}
}

func TestMonthlyReportEndpoint(t *testing.T) {
	env := newTestEnv(nil)

	product := addProduct(t, env, "Shampoo", "Cabelo", 10.00, 100)
	recordSale(t, env, product.ID.String(), 2, "2024-03-10")
	recordSale(t, env, product.ID.String(), 2, "2024-03-25")
	recordSale(t, env, product.ID.String(), 1, "2024-04-02")

	w := getReport(t, env, "/api/reports/monthly?month=Março&year=2024")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report service.MonthlyReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}

	if report.Period.Month != "Março" || report.Period.Year != 2024 {
		t.Errorf("Expected period Março/2024, got %s/%d", report.Period.Month, report.Period.Year)
	}
	if len(report.Sales) != 2 || report.Quantity != 4 {
		t.Errorf("Expected 2 sales quantity 4, got %d sales quantity %d", len(report.Sales), report.Quantity)
	}

	w = getReport(t, env, "/api/reports/monthly?year=2024")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing month, got %d", w.Code)
	}

	w = getReport(t, env, "/api/reports/monthly?month=Março&year=twenty")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric year, got %d", w.Code)
	}
}

func TestCurrentAndPreviousMonthEndpoints(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(func() time.Time { return now })

	product := addProduct(t, env, "Shampoo", "Cabelo", 10.00, 100)
	recordSale(t, env, product.ID.String(), 1, "2024-01-05")
	recordSale(t, env, product.ID.String(), 2, "2023-12-28")

	w := getReport(t, env, "/api/reports/monthly/current")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var current service.MonthlyReport
	if err := json.Unmarshal(w.Body.Bytes(), &current); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}
	if current.Period.Month != "Janeiro" || current.Period.Year != 2024 {
		t.Errorf("Expected Janeiro/2024, got %s/%d", current.Period.Month, current.Period.Year)
	}
	if len(current.Sales) != 1 {
		t.Errorf("Expected 1 sale in Janeiro, got %d", len(current.Sales))
	}

	w = getReport(t, env, "/api/reports/monthly/previous")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var previous service.MonthlyReport
	if err := json.Unmarshal(w.Body.Bytes(), &previous); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}
	if previous.Period.Month != "Dezembro" || previous.Period.Year != 2023 {
		t.Errorf("Expected Dezembro/2023, got %s/%d", previous.Period.Month, previous.Period.Year)
	}
	if previous.Quantity != 2 {
		t.Errorf("Expected quantity 2 in Dezembro, got %d", previous.Quantity)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	env := newTestEnv(nil)

	product := addProduct(t, env, "Shampoo", "Cabelo", 10.00, 100)
	recordSale(t, env, product.ID.String(), 1, "2024-08-05")
	recordSale(t, env, product.ID.String(), 2, "2024-04-05")
	recordSale(t, env, product.ID.String(), 1, "2023-12-01")

	w := getReport(t, env, "/api/reports/history")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var history []*domain.PeriodSummary
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("Failed to parse history: %v", err)
	}

	if len(history) != 3 {
		t.Fatalf("Expected 3 buckets, got %d", len(history))
	}
	if history[0].Month != "Dezembro" || history[0].Year != 2023 {
		t.Errorf("Expected Dezembro/2023 first, got %s/%d", history[0].Month, history[0].Year)
	}
	if history[1].Month != "Abril" || history[2].Month != "Agosto" {
		t.Errorf("Expected lexical month order within 2024, got %s then %s", history[1].Month, history[2].Month)
	}
}
