package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/summary"
	"max.ks1230/earnings-tracker/internal/entity/user"
	"max.ks1230/earnings-tracker/internal/model/auth"
	"max.ks1230/earnings-tracker/internal/model/records"
)

type authService interface {
	Register(ctx context.Context, in auth.RegisterInput) (user.Record, auth.Token, error)
	Login(ctx context.Context, email, password string) (user.Record, auth.Token, error)
	Me(ctx context.Context, userID int64) (user.Record, error)
	UpdateProfile(ctx context.Context, userID int64, in auth.ProfileInput) (user.Record, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	ParseToken(raw string) (int64, error)
}

type recordsService interface {
	ListEarnings(ctx context.Context, userID int64, from, to *time.Time) ([]record.Earning, error)
	GetEarning(ctx context.Context, userID, id int64) (record.Earning, error)
	CreateEarning(ctx context.Context, userID int64, in records.EarningInput) (record.Earning, error)
	UpdateEarning(ctx context.Context, userID, id int64, in records.EarningInput) (record.Earning, error)
	DeleteEarning(ctx context.Context, userID, id int64) error

	ListExpenses(ctx context.Context, userID int64, from, to *time.Time) ([]record.Expense, error)
	GetExpense(ctx context.Context, userID, id int64) (record.Expense, error)
	CreateExpense(ctx context.Context, userID int64, in records.ExpenseInput) (record.Expense, error)
	UpdateExpense(ctx context.Context, userID, id int64, in records.ExpenseInput) (record.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error

	ListSources(ctx context.Context) ([]record.Source, error)
	CreateSource(ctx context.Context, name, description string) (record.Source, error)
}

type analyticsService interface {
	Overview(ctx context.Context, userID int64, start, end *time.Time) (summary.Overview, error)
	DailySummary(ctx context.Context, userID int64, start, end time.Time) ([]summary.Daily, error)
	WeeklyTrends(ctx context.Context, userID int64, weeks int) ([]summary.TrendPoint, error)
	MonthlyTrends(ctx context.Context, userID int64, months int) ([]summary.TrendPoint, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth      authService
	Records   recordsService
	Analytics analyticsService
	Health    pinger
	// Clock resolves "today" for default date ranges. Defaults to time.Now.
	Clock func() time.Time
}

type handler struct {
	Deps
}

func NewRouter(cfg httpConfig, deps Deps) *gin.Engine {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	h := &handler{Deps: deps}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		accessLog(),
		tracing(),
		metrics(),
		newRateLimiter(cfg.RateLimit(), cfg.RateBurst()).middleware(),
		cors.New(corsConfig(cfg.AllowedOrigins())),
	)

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	secured := apiGroup.Group("", h.authRequired())
	secured.GET("/auth/me", h.me)
	secured.PUT("/auth/me", h.updateProfile)
	secured.POST("/auth/change-password", h.changePassword)

	secured.GET("/earnings", h.listEarnings)
	secured.POST("/earnings", h.createEarning)
	secured.GET("/earnings/sources", h.listSources)
	secured.POST("/earnings/sources", h.createSource)
	secured.GET("/earnings/:id", h.getEarning)
	secured.PUT("/earnings/:id", h.updateEarning)
	secured.DELETE("/earnings/:id", h.deleteEarning)

	secured.GET("/expenses", h.listExpenses)
	secured.POST("/expenses", h.createExpense)
	secured.GET("/expenses/categories", h.listCategories)
	secured.GET("/expenses/:id", h.getExpense)
	secured.PUT("/expenses/:id", h.updateExpense)
	secured.DELETE("/expenses/:id", h.deleteExpense)

	secured.GET("/analytics/overview", h.overview)
	secured.GET("/analytics/daily-summary", h.dailySummary)
	secured.GET("/analytics/weekly-trends", h.weeklyTrends)
	secured.GET("/analytics/monthly-trends", h.monthlyTrends)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (h *handler) health(c *gin.Context) {
	if h.Health != nil {
		if err := h.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
