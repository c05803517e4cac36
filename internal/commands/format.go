package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// formatMoney renders amount in currency's notation, e.g. "$1,234.50".
// Unknown or empty currencies fall back to two decimals and the raw code.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return strings.TrimSpace(amount.StringFixed(2) + " " + currency)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printTable writes rows under headers with a plain border.
func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseDecimal(flag, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: invalid number %q", flag, s)
	}
	return d, nil
}

func parseDate(flag, s string) (string, error) {
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return "", fmt.Errorf("--%s: %q is not a YYYY-MM-DD date", flag, s)
	}
	return s, nil
}

func today() string {
	return time.Now().Format(model.DateLayout)
}

// optionalID maps an unset flag value to nil.
func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
