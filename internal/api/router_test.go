package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/earnings-tracker/internal/clients/cache"
	"max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/entity/summary"
	"max.ks1230/earnings-tracker/internal/model/analytics"
	"max.ks1230/earnings-tracker/internal/model/auth"
	"max.ks1230/earnings-tracker/internal/model/records"
	"max.ks1230/earnings-tracker/internal/model/storage"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return testNow }
	st := storage.NewInMemStorage()
	analyticsService := analytics.NewService(st, cache.NewMemory(time.Minute), analytics.NewAggregator(clock))
	authService := auth.NewService(st, &config.AuthConfig{Secret: "test-secret", TTLMinutes: 60})
	router := NewRouter(&config.HTTPConfig{}, Deps{
		Auth:      authService,
		Records:   records.NewService(st, analyticsService, nil),
		Analytics: analyticsService,
		Health:    st,
		Clock:     clock,
	})
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login() {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "secret-pass",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var res struct {
		Token auth.Token `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res))
	a.token = res.Token.AccessToken
}

func Test_Health_ShouldReportHealthy(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func Test_Api_ShouldRequireToken(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/analytics/overview", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	a.token = "garbage"
	rec = a.do(http.MethodGet, "/api/earnings", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_Login_ShouldRejectWrongPassword(t *testing.T) {
	a := newTestAPI(t)
	a.login()
	a.token = ""

	rec := a.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ravi@example.com", "password": "nope-nope"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_Register_ShouldConflictOnDuplicateEmail(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	rec := a.do(http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "secret-pass",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func Test_Overview_ShouldReflectCreatedRecords(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	rec := a.do(http.MethodPost, "/api/earnings", gin.H{"date": "2025-01-05", "amount": 150})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/expenses", gin.H{"date": "2025-01-07", "amount": "30", "category": "food"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/analytics/overview?startDate=2025-01-01&endDate=2025-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res summary.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.TotalEarnings.Equal(decimal.NewFromInt(150)))
	assert.True(t, res.NetIncome.Equal(decimal.NewFromInt(120)))
	assert.True(t, res.AverageEarningsPerDay.Round(2).Equal(decimal.RequireFromString("4.84")))
	assert.True(t, res.EarningsBySource["Other"].Equal(decimal.NewFromInt(150)))
	assert.True(t, res.ExpensesByCategory["Food"].Equal(decimal.NewFromInt(30)))
	assert.Len(t, res.WeeklyTrends, analytics.OverviewWeeks)
	assert.Len(t, res.MonthlyTrends, analytics.OverviewMonths)
}

func Test_Overview_ShouldRecomputeAfterDelete(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	rec := a.do(http.MethodPost, "/api/expenses", gin.H{"date": "2025-01-10", "amount": 40})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created expenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = a.do(http.MethodGet, "/api/analytics/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodDelete, "/api/expenses/"+strconv.FormatInt(created.ID, 10), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/analytics/overview", nil)
	var res summary.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.TotalExpenses.IsZero())
}

func Test_DailySummary_ShouldDefaultToLastThirtyDays(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	rec := a.do(http.MethodGet, "/api/analytics/daily-summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res []summary.Daily
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 31)
	assert.Equal(t, "2024-12-16", res[0].Date.Format(dateLayout))
	assert.Equal(t, "2025-01-15", res[30].Date.Format(dateLayout))
}

func Test_DailySummary_ShouldLimitRange(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	rec := a.do(http.MethodGet, "/api/analytics/daily-summary?startDate=2024-01-01&endDate=2024-12-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res []summary.Daily
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res, 366)

	rec = a.do(http.MethodGet, "/api/analytics/daily-summary?startDate=2024-01-01&endDate=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/analytics/daily-summary?startDate=1700-01-01&endDate=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Trends_ShouldValidateCounts(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	tests := []struct {
		path string
		code int
		len  int
	}{
		{"/api/analytics/weekly-trends", http.StatusOK, 12},
		{"/api/analytics/weekly-trends?weeks=4", http.StatusOK, 4},
		{"/api/analytics/weekly-trends?weeks=0", http.StatusBadRequest, 0},
		{"/api/analytics/weekly-trends?weeks=abc", http.StatusBadRequest, 0},
		{"/api/analytics/monthly-trends?months=3", http.StatusOK, 3},
		{"/api/analytics/monthly-trends?months=121", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := a.do(http.MethodGet, tt.path, nil)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			var res []summary.TrendPoint
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Len(t, res, tt.len)
		})
	}
}

func Test_Records_ShouldMapErrorsToStatusCodes(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		code   int
	}{
		{"unknown category", http.MethodPost, "/api/expenses", gin.H{"amount": 5, "category": "Yachts"}, http.StatusBadRequest},
		{"negative amount", http.MethodPost, "/api/earnings", gin.H{"amount": -5}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/earnings", gin.H{"amount": 5, "date": "15/01/2025"}, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/earnings/abc", nil, http.StatusBadRequest},
		{"missing earning", http.MethodGet, "/api/earnings/9999", nil, http.StatusNotFound},
		{"missing expense", http.MethodDelete, "/api/expenses/9999", nil, http.StatusNotFound},
		{"duplicate source", http.MethodPost, "/api/earnings/sources", gin.H{"name": "Salary"}, http.StatusConflict},
		{"bad range", http.MethodGet, "/api/analytics/overview?startDate=yesterday", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func Test_Categories_ShouldListEveryCategory(t *testing.T) {
	a := newTestAPI(t)
	a.login()

	rec := a.do(http.MethodGet, "/api/expenses/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "LPG", res[0])
	assert.Contains(t, res, "Other")
}
