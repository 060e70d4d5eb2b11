package analytics

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/summary"
)

const (
	DefaultWeeks   = 12
	DefaultMonths  = 12
	OverviewWeeks  = 12
	OverviewMonths = 6

	overviewLookbackDays = 30
	daysInWeek           = 7
	secondsPerDay        = 24 * 60 * 60
)

var weekConfig = &now.Config{WeekStartDay: time.Sunday}

// Window is an inclusive range of calendar days.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Union(other Window) Window {
	if other.From.Before(w.From) {
		w.From = other.From
	}
	if other.To.After(w.To) {
		w.To = other.To
	}
	return w
}

// Aggregator computes analytics over record snapshots of a single user.
// It keeps no state besides the clock used to anchor trends and default windows.
type Aggregator struct {
	clock func() time.Time
}

func NewAggregator(clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{clock: clock}
}

func (a *Aggregator) today() time.Time {
	return record.Day(a.clock())
}

// OverviewWindow resolves optional overview bounds. Missing bounds default to
// [today-30 days, today+1 day].
func (a *Aggregator) OverviewWindow(start, end *time.Time) Window {
	today := a.today()
	w := Window{
		From: today.AddDate(0, 0, -overviewLookbackDays),
		To:   today.AddDate(0, 0, 1),
	}
	if start != nil {
		w.From = record.Day(*start)
	}
	if end != nil {
		w.To = record.Day(*end)
	}
	return w
}

// WeeklyWindow spans weekCount Sunday-to-Saturday weeks ending with the current one.
func (a *Aggregator) WeeklyWindow(weekCount int) Window {
	if weekCount < 1 {
		weekCount = 1
	}
	current := a.currentWeekStart()
	return Window{
		From: current.AddDate(0, 0, -daysInWeek*(weekCount-1)),
		To:   current.AddDate(0, 0, daysInWeek-1),
	}
}

// MonthlyWindow spans monthCount calendar months ending with the current one.
func (a *Aggregator) MonthlyWindow(monthCount int) Window {
	if monthCount < 1 {
		monthCount = 1
	}
	current := a.currentMonthStart()
	return Window{
		From: current.AddDate(0, -(monthCount - 1), 0),
		To:   current.AddDate(0, 1, -1),
	}
}

// FullOverviewWindow covers everything ComputeOverview reads, embedded trends included.
func (a *Aggregator) FullOverviewWindow(start, end *time.Time) Window {
	return a.OverviewWindow(start, end).
		Union(a.WeeklyWindow(OverviewWeeks)).
		Union(a.MonthlyWindow(OverviewMonths))
}

func (a *Aggregator) currentWeekStart() time.Time {
	return weekConfig.With(a.today()).BeginningOfWeek()
}

func (a *Aggregator) currentMonthStart() time.Time {
	return now.With(a.today()).BeginningOfMonth()
}

func (a *Aggregator) ComputeOverview(earnings []record.Earning, expenses []record.Expense, start, end *time.Time) summary.Overview {
	w := a.OverviewWindow(start, end)
	inEarnings := earningsWithin(earnings, w)
	inExpenses := expensesWithin(expenses, w)

	totalEarnings := sumEarnings(inEarnings)
	totalExpenses := sumExpenses(inExpenses)
	days := daysBetween(w.From, w.To) + 1

	return summary.Overview{
		TotalEarnings:         totalEarnings,
		TotalExpenses:         totalExpenses,
		NetIncome:             totalEarnings.Sub(totalExpenses),
		AverageEarningsPerDay: perDay(totalEarnings, days),
		AverageExpensesPerDay: perDay(totalExpenses, days),
		EarningsBySource:      groupBySource(inEarnings),
		ExpensesByCategory:    groupByCategory(inExpenses),
		WeeklyTrends:          a.ComputeWeeklyTrends(earnings, expenses, OverviewWeeks),
		MonthlyTrends:         a.ComputeMonthlyTrends(earnings, expenses, OverviewMonths),
	}
}

// ComputeDailySummary returns one entry per day of [start, end], ascending,
// days without records included. An inverted range yields no entries.
func (a *Aggregator) ComputeDailySummary(earnings []record.Earning, expenses []record.Expense, start, end time.Time) []summary.Daily {
	start, end = record.Day(start), record.Day(end)
	if start.After(end) {
		return []summary.Daily{}
	}

	res := make([]summary.Daily, daysBetween(start, end)+1)
	for i := range res {
		res[i] = summary.Daily{
			Date:          start.AddDate(0, 0, i),
			TotalEarnings: decimal.Zero,
			TotalExpenses: decimal.Zero,
		}
	}

	for _, e := range earnings {
		if i, ok := dayIndex(start, e.Date, len(res)); ok {
			res[i].TotalEarnings = res[i].TotalEarnings.Add(e.Amount)
			res[i].EarningsCount++
		}
	}
	for _, e := range expenses {
		if i, ok := dayIndex(start, e.Date, len(res)); ok {
			res[i].TotalExpenses = res[i].TotalExpenses.Add(e.Amount)
			res[i].ExpensesCount++
		}
	}
	for i := range res {
		res[i].NetIncome = res[i].TotalEarnings.Sub(res[i].TotalExpenses)
	}
	return res
}

// ComputeWeeklyTrends sums records per week for weekCount weeks ending with the
// current week, oldest first.
func (a *Aggregator) ComputeWeeklyTrends(earnings []record.Earning, expenses []record.Expense, weekCount int) []summary.TrendPoint {
	if weekCount <= 0 {
		return []summary.TrendPoint{}
	}
	first := a.WeeklyWindow(weekCount).From
	points := newTrendPoints(weekCount, func(i int) time.Time {
		return first.AddDate(0, 0, daysInWeek*i)
	})

	index := func(date time.Time) (int, bool) {
		i, ok := dayIndex(first, date, daysInWeek*weekCount)
		return i / daysInWeek, ok
	}
	return fillTrend(points, earnings, expenses, index)
}

// ComputeMonthlyTrends sums records per calendar month for monthCount months
// ending with the current month, oldest first.
func (a *Aggregator) ComputeMonthlyTrends(earnings []record.Earning, expenses []record.Expense, monthCount int) []summary.TrendPoint {
	if monthCount <= 0 {
		return []summary.TrendPoint{}
	}
	first := a.MonthlyWindow(monthCount).From
	points := newTrendPoints(monthCount, func(i int) time.Time {
		return first.AddDate(0, i, 0)
	})

	index := func(date time.Time) (int, bool) {
		i := monthNumber(date) - monthNumber(first)
		return i, i >= 0 && i < monthCount
	}
	return fillTrend(points, earnings, expenses, index)
}

func newTrendPoints(n int, periodStart func(i int) time.Time) []summary.TrendPoint {
	points := make([]summary.TrendPoint, n)
	for i := range points {
		points[i] = summary.TrendPoint{
			Date:     periodStart(i),
			Earnings: decimal.Zero,
			Expenses: decimal.Zero,
		}
	}
	return points
}

func fillTrend(points []summary.TrendPoint, earnings []record.Earning, expenses []record.Expense, index func(time.Time) (int, bool)) []summary.TrendPoint {
	for _, e := range earnings {
		if i, ok := index(e.Date); ok {
			points[i].Earnings = points[i].Earnings.Add(e.Amount)
		}
	}
	for _, e := range expenses {
		if i, ok := index(e.Date); ok {
			points[i].Expenses = points[i].Expenses.Add(e.Amount)
		}
	}
	for i := range points {
		points[i].NetIncome = points[i].Earnings.Sub(points[i].Expenses)
	}
	return points
}

func earningsWithin(exps []record.Earning, w Window) []record.Earning {
	res := make([]record.Earning, 0, len(exps))
	for _, e := range exps {
		if within(e.Date, w) {
			res = append(res, e)
		}
	}
	return res
}

func expensesWithin(exps []record.Expense, w Window) []record.Expense {
	res := make([]record.Expense, 0, len(exps))
	for _, e := range exps {
		if within(e.Date, w) {
			res = append(res, e)
		}
	}
	return res
}

func within(date time.Time, w Window) bool {
	d := record.Day(date)
	return !d.Before(w.From) && !d.After(w.To)
}

func sumEarnings(exps []record.Earning) decimal.Decimal {
	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	return total
}

func sumExpenses(exps []record.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	return total
}

func groupBySource(exps []record.Earning) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal)
	for _, e := range exps {
		m[e.Source()] = m[e.Source()].Add(e.Amount)
	}
	return m
}

func groupByCategory(exps []record.Expense) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal)
	for _, e := range exps {
		m[string(e.Category)] = m[string(e.Category)].Add(e.Amount)
	}
	return m
}

func perDay(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days)))
}

// daysBetween expects both times truncated by record.Day.
// Unix seconds keep it exact for ranges that overflow time.Duration.
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

// dayIndex reports the day offset of date from first when it falls within n days.
func dayIndex(first, date time.Time, n int) (int, bool) {
	d := record.Day(date)
	if d.Before(first) {
		return 0, false
	}
	i := daysBetween(first, d)
	return i, i < n
}

func monthNumber(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
