package messages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"max.ks1230/earnings-tracker/internal/entity/summary"
)

const commandParts = 2

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if len(split) == commandParts {
		return split[0], split[1]
	}
	if strings.HasPrefix(text, "/") {
		return text, ""
	}
	return "", text
}

func formatOverview(res summary.Overview) string {
	lines := []string{
		"Earnings: " + res.TotalEarnings.StringFixed(2),
		"Expenses: " + res.TotalExpenses.StringFixed(2),
		"Net income: " + res.NetIncome.StringFixed(2),
		fmt.Sprintf("Per day: +%s / -%s", res.AverageEarningsPerDay.StringFixed(2), res.AverageExpensesPerDay.StringFixed(2)),
	}
	if len(res.EarningsBySource) > 0 {
		lines = append(lines, "", "By source:")
		lines = append(lines, formatGroups(res.EarningsBySource)...)
	}
	if len(res.ExpensesByCategory) > 0 {
		lines = append(lines, "", "By category:")
		lines = append(lines, formatGroups(res.ExpensesByCategory)...)
	}
	return strings.Join(lines, "\n")
}

// formatGroups lists the biggest amounts first.
func formatGroups(groups map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := groups[names[i]], groups[names[j]]
		if a.Equal(b) {
			return names[i] < names[j]
		}
		return a.GreaterThan(b)
	})
	res := make([]string, 0, len(names))
	for _, name := range names {
		res = append(res, fmt.Sprintf("%s: %s", name, groups[name].StringFixed(2)))
	}
	return res
}

func formatDaily(days []summary.Daily) string {
	res := make([]string, 0, len(days))
	for _, d := range days {
		res = append(res, fmt.Sprintf("%s: +%s -%s = %s",
			d.Date.Format(dateLayout),
			d.TotalEarnings.StringFixed(2),
			d.TotalExpenses.StringFixed(2),
			d.NetIncome.StringFixed(2),
		))
	}
	return strings.Join(res, "\n")
}

func formatTrend(label string, points []summary.TrendPoint) string {
	res := make([]string, 0, len(points))
	for _, p := range points {
		res = append(res, fmt.Sprintf("%s %s: +%s -%s = %s",
			label,
			p.Date.Format(dateLayout),
			p.Earnings.StringFixed(2),
			p.Expenses.StringFixed(2),
			p.NetIncome.StringFixed(2),
		))
	}
	return strings.Join(res, "\n")
}
