package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/model/analytics"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

const (
	maxWeeks      = 260
	maxMonths     = 120
	maxDailyDays  = 366
	dailyLookback = 30
)

func (h *handler) overview(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Analytics.Overview(c.Request.Context(), currentUser(c), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) dailySummary(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	today := record.Day(h.Clock())
	if end == nil {
		end = &today
	}
	if start == nil {
		from := today.AddDate(0, 0, -dailyLookback)
		start = &from
	}
	if record.Day(*end).After(record.Day(*start).AddDate(0, 0, maxDailyDays-1)) {
		writeError(c, customerr.Invalid("endDate", "range must not exceed "+strconv.Itoa(maxDailyDays)+" days"))
		return
	}
	res, err := h.Analytics.DailySummary(c.Request.Context(), currentUser(c), *start, *end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) weeklyTrends(c *gin.Context) {
	weeks, err := boundedInt(c, "weeks", analytics.DefaultWeeks, 1, maxWeeks)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Analytics.WeeklyTrends(c.Request.Context(), currentUser(c), weeks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) monthlyTrends(c *gin.Context) {
	months, err := boundedInt(c, "months", analytics.DefaultMonths, 1, maxMonths)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Analytics.MonthlyTrends(c.Request.Context(), currentUser(c), months)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
