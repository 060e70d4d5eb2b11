package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

const dateLayout = "2006-01-02"

// parseDate accepts a plain calendar date or an RFC 3339 timestamp.
func parseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, customerr.Invalid(field, "expected YYYY-MM-DD or RFC 3339")
	}
	return record.Day(t), nil
}

func optionalDate(c *gin.Context, field string) (*time.Time, error) {
	raw := c.Query(field)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func dateRange(c *gin.Context) (from, to *time.Time, err error) {
	if from, err = optionalDate(c, "startDate"); err != nil {
		return nil, nil, err
	}
	if to, err = optionalDate(c, "endDate"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func boundedInt(c *gin.Context, field string, fallback, lo, hi int) (int, error) {
	raw := c.Query(field)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, customerr.Invalid(field, "must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return n, nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, customerr.Invalid("id", "must be a positive integer")
	}
	return id, nil
}
