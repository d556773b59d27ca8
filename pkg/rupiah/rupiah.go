// Package rupiah handles the money convention used across the panel:
// amounts travel as signed int64 whole rupiah (no minor units), negative for
// pengeluaran and positive for pemasukan.
package rupiah

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryExpense and CategoryIncome are the two transaction categories the
// backend understands.
const (
	CategoryIncome  = "Pemasukan"
	CategoryExpense = "Pengeluaran"
)

// Signed applies the sign convention to an absolute amount.
func Signed(abs int64, category string) int64 {
	if abs < 0 {
		abs = -abs
	}
	if strings.EqualFold(strings.TrimSpace(category), CategoryExpense) {
		return -abs
	}
	return abs
}

// ParseAmount reads a user-entered rupiah string ("1.500.000", "Rp 50.000",
// "1500000,00") into whole rupiah. Grouping dots and a textual Rp prefix are
// stripped; a decimal comma part is truncated since rupiah has no usable
// minor unit.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("jumlah kosong")
	}
	cleaned := strings.NewReplacer("Rp", "", "rp", "", "RP", "", " ", "", ".", "").Replace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("jumlah tidak valid: %q", s)
	}
	return d.Truncate(0).IntPart(), nil
}

// Format renders an amount as "Rp 1.500.000". Negative amounts keep their
// sign in front of the currency marker.
func Format(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := decimal.NewFromInt(amount).String()
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	out := "Rp " + strings.Join(groups, ".")
	if neg {
		out = "-" + out
	}
	return out
}

// SumByCategory totals a list of signed amounts into income, expense and
// balance. Expense comes back as a positive magnitude for display.
func SumByCategory(amounts []int64) (income, expense, balance int64) {
	in := decimal.Zero
	out := decimal.Zero
	for _, a := range amounts {
		d := decimal.NewFromInt(a)
		if a < 0 {
			out = out.Add(d.Neg())
		} else {
			in = in.Add(d)
		}
	}
	return in.IntPart(), out.IntPart(), in.Sub(out).IntPart()
}
