package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	good = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	bad  = color.New(color.FgRed, color.Bold).SprintFunc()
	head = color.New(color.Bold).SprintFunc()
)

var (
	printer       = message.NewPrinter(language.English)
	monthsPerYear = decimal.NewFromInt(12)
)

// money formats d as dollars with thousands separators: -$1,234.50.
func money(d decimal.Decimal) string {
	r := d.Round(2)
	s := printer.Sprintf("$%.2f", r.Abs().InexactFloat64())
	if r.IsNegative() {
		return "-" + s
	}
	return s
}

// months formats a payoff horizon, "never" when infinite.
func months(m float64) string {
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return "never"
	}
	return fmt.Sprintf("%.1f months", m)
}

// pct formats a fractional rate (0.21) as a percentage (21.00%).
func pct(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// dotted left-aligns label padded with dots to width.
func dotted(label string, width int) string {
	if n := width - len([]rune(label)); n > 0 {
		return label + strings.Repeat(".", n)
	}
	return label
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) section(title string) {
	ew.printf("\n%s\n", head("--- "+title+" ---"))
}
