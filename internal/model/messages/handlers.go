package messages

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/summary"
	"max.ks1230/earnings-tracker/internal/model/analytics"
	"max.ks1230/earnings-tracker/internal/model/customerr"
	"max.ks1230/earnings-tracker/internal/model/records"
)

const dateLayout = "02.01.2006"

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am your earnings tracker bot 🤖\n\n" +
		"/earning <source> <amount> [dd.mm.yyyy]\n" +
		"/expense <category> <amount> [dd.mm.yyyy]\n" +
		"/overview [dd.mm.yyyy dd.mm.yyyy]\n" +
		"/daily [days]\n" +
		"/weekly [weeks]\n" +
		"/monthly [months]"
	loveToTalkMessage = "I would love to talk about it more!"
	okMessage         = "Gotcha!"

	incorrectUsageMessage   = "That is an incorrect command usage"
	incorrectAmountMessage  = "Your amount is incorrect"
	incorrectDateMessage    = "The date is incorrect. Should be dd.mm.yyyy"
	incorrectCountMessage   = "The count is incorrect"
	cannotSaveRecordMessage = "Can't save your record atm. Try later"
	cannotGetReportMessage  = "Can't build your report atm. Try later"
)

const (
	startCommand    = "/start"
	earningCommand  = "/earning"
	expenseCommand  = "/expense"
	overviewCommand = "/overview"
	dailyCommand    = "/daily"
	weeklyCommand   = "/weekly"
	monthlyCommand  = "/monthly"
)

const (
	defaultDailyDays = 7
	maxDailyDays     = 62
	maxWeeks         = 52
	maxMonths        = 24
)

type recordsService interface {
	CreateEarning(ctx context.Context, userID int64, in records.EarningInput) (record.Earning, error)
	CreateExpense(ctx context.Context, userID int64, in records.ExpenseInput) (record.Expense, error)
	SourceByName(ctx context.Context, name string) (record.Source, error)
}

type analyticsService interface {
	Overview(ctx context.Context, userID int64, start, end *time.Time) (summary.Overview, error)
	DailySummary(ctx context.Context, userID int64, start, end time.Time) ([]summary.Daily, error)
	WeeklyTrends(ctx context.Context, userID int64, weeks int) ([]summary.TrendPoint, error)
	MonthlyTrends(ctx context.Context, userID int64, months int) ([]summary.TrendPoint, error)
}

type handler func(ctx context.Context, arg string, userID int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	records     recordsService
	analytics   analyticsService
	location    *time.Location
	now         func() time.Time
}

func newHandler(records recordsService, analytics analyticsService, location *time.Location) *HandlerService {
	res := &HandlerService{
		records:   records,
		analytics: analytics,
		location:  location,
		now:       time.Now,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, userID)
	}
	return dontUnderstandMessage, nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[earningCommand] = s.handleEarning
	m[expenseCommand] = s.handleExpense
	m[overviewCommand] = s.handleOverview
	m[dailyCommand] = s.handleDaily
	m[weeklyCommand] = s.handleWeekly
	m[monthlyCommand] = s.handleMonthly

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) handleStart(context.Context, string, int64) (string, error) {
	return helloMessage, nil
}

func (s *HandlerService) handleNoCommand(context.Context, string, int64) (string, error) {
	return loveToTalkMessage, nil
}

func (s *HandlerService) today() time.Time {
	return record.Day(s.now().In(s.location))
}

// parseRecordArgs splits "<name> <amount> [dd.mm.yyyy]". Non-empty reply means bad input.
func (s *HandlerService) parseRecordArgs(arg string) (name string, amount decimal.Decimal, date time.Time, reply string) {
	args := strings.Fields(arg)
	if len(args) < 2 || len(args) > 3 {
		return "", decimal.Zero, time.Time{}, incorrectUsageMessage
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil || !amount.IsPositive() {
		return "", decimal.Zero, time.Time{}, incorrectAmountMessage
	}
	date = s.today()
	if len(args) == 3 {
		if date, err = parseDate(args[2]); err != nil {
			return "", decimal.Zero, time.Time{}, incorrectDateMessage
		}
	}
	return args[0], amount, date, ""
}

func (s *HandlerService) handleEarning(ctx context.Context, arg string, userID int64) (string, error) {
	name, amount, date, reply := s.parseRecordArgs(arg)
	if reply != "" {
		return reply, nil
	}
	src, err := s.records.SourceByName(ctx, name)
	if err != nil {
		return replyFor(err, cannotSaveRecordMessage, "handle earning")
	}
	_, err = s.records.CreateEarning(ctx, userID, records.EarningInput{
		Date:     date,
		Amount:   amount,
		SourceID: &src.ID,
	})
	if err != nil {
		return replyFor(err, cannotSaveRecordMessage, "handle earning")
	}
	return okMessage, nil
}

func (s *HandlerService) handleExpense(ctx context.Context, arg string, userID int64) (string, error) {
	category, amount, date, reply := s.parseRecordArgs(arg)
	if reply != "" {
		return reply, nil
	}
	_, err := s.records.CreateExpense(ctx, userID, records.ExpenseInput{
		Date:     date,
		Amount:   amount,
		Category: category,
	})
	if err != nil {
		return replyFor(err, cannotSaveRecordMessage, "handle expense")
	}
	return okMessage, nil
}

func (s *HandlerService) handleOverview(ctx context.Context, arg string, userID int64) (string, error) {
	var start, end *time.Time
	args := strings.Fields(arg)
	switch len(args) {
	case 0:
	case 2:
		from, err := parseDate(args[0])
		if err != nil {
			return incorrectDateMessage, nil
		}
		to, err := parseDate(args[1])
		if err != nil {
			return incorrectDateMessage, nil
		}
		start, end = &from, &to
	default:
		return incorrectUsageMessage, nil
	}

	res, err := s.analytics.Overview(ctx, userID, start, end)
	if err != nil {
		return cannotGetReportMessage, errors.Wrap(err, "handle overview")
	}
	return formatOverview(res), nil
}

func (s *HandlerService) handleDaily(ctx context.Context, arg string, userID int64) (string, error) {
	days, ok := parseCount(arg, defaultDailyDays, maxDailyDays)
	if !ok {
		return incorrectCountMessage, nil
	}
	today := s.today()
	res, err := s.analytics.DailySummary(ctx, userID, today.AddDate(0, 0, 1-days), today)
	if err != nil {
		return cannotGetReportMessage, errors.Wrap(err, "handle daily")
	}
	return formatDaily(res), nil
}

func (s *HandlerService) handleWeekly(ctx context.Context, arg string, userID int64) (string, error) {
	weeks, ok := parseCount(arg, analytics.DefaultWeeks, maxWeeks)
	if !ok {
		return incorrectCountMessage, nil
	}
	res, err := s.analytics.WeeklyTrends(ctx, userID, weeks)
	if err != nil {
		return cannotGetReportMessage, errors.Wrap(err, "handle weekly")
	}
	return formatTrend("Week of", res), nil
}

func (s *HandlerService) handleMonthly(ctx context.Context, arg string, userID int64) (string, error) {
	months, ok := parseCount(arg, analytics.DefaultMonths, maxMonths)
	if !ok {
		return incorrectCountMessage, nil
	}
	res, err := s.analytics.MonthlyTrends(ctx, userID, months)
	if err != nil {
		return cannotGetReportMessage, errors.Wrap(err, "handle monthly")
	}
	return formatTrend("Month of", res), nil
}

// replyFor answers validation problems to the user and reports everything else as an error.
func replyFor(err error, fallback, op string) (string, error) {
	if customerr.IsValidation(err) {
		return errors.Cause(err).Error(), nil
	}
	return fallback, errors.Wrap(err, op)
}

func parseCount(arg string, fallback, limit int) (int, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > limit {
		return 0, false
	}
	return n, true
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	return t, errors.Wrap(err, "parse date")
}
