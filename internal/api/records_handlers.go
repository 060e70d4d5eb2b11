package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/model/records"
)

func (h *handler) listEarnings(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.ListEarnings(c.Request.Context(), currentUser(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(res, newEarningResponse))
}

func (h *handler) getEarning(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.GetEarning(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEarningResponse(res))
}

func (h *handler) createEarning(c *gin.Context) {
	in, err := bindEarning(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.CreateEarning(c.Request.Context(), currentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEarningResponse(res))
}

func (h *handler) updateEarning(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	in, err := bindEarning(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.UpdateEarning(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEarningResponse(res))
}

func (h *handler) deleteEarning(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err = h.Records.DeleteEarning(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindEarning(c *gin.Context) (records.EarningInput, error) {
	var req earningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return records.EarningInput{}, invalidBody(err)
	}
	date, err := requestDate(req.Date)
	if err != nil {
		return records.EarningInput{}, err
	}
	return records.EarningInput{
		Date:          date,
		Amount:        req.Amount,
		SourceID:      req.SourceID,
		Type:          req.EarningType,
		PaymentMethod: req.PaymentMethod,
	}, nil
}

func (h *handler) listSources(c *gin.Context) {
	res, err := h.Records.ListSources(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(res, func(s record.Source) sourceResponse {
		return sourceResponse{ID: s.ID, Name: s.Name, Description: s.Description}
	}))
}

func (h *handler) createSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.Records.CreateSource(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sourceResponse{ID: res.ID, Name: res.Name, Description: res.Description})
}

func (h *handler) listExpenses(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.ListExpenses(c.Request.Context(), currentUser(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(res, newExpenseResponse))
}

func (h *handler) getExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.GetExpense(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponse(res))
}

func (h *handler) createExpense(c *gin.Context) {
	in, err := bindExpense(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.CreateExpense(c.Request.Context(), currentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newExpenseResponse(res))
}

func (h *handler) updateExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	in, err := bindExpense(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.Records.UpdateExpense(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponse(res))
}

func (h *handler) deleteExpense(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err = h.Records.DeleteExpense(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, records.Categories())
}

func bindExpense(c *gin.Context) (records.ExpenseInput, error) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return records.ExpenseInput{}, invalidBody(err)
	}
	date, err := requestDate(req.Date)
	if err != nil {
		return records.ExpenseInput{}, err
	}
	return records.ExpenseInput{
		Date:          date,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
	}, nil
}

// requestDate parses an optional body date. The zero time means "today".
func requestDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return parseDate("date", raw)
}
