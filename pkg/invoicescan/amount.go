// Package invoicescan suggests a transaction amount from an uploaded invoice
// image. It runs one preprocessed Tesseract pass and scans the text for the
// most plausible rupiah amount. Suggestions are advisory: the authoring form
// never overwrites a user-entered value with one.
package invoicescan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// candidateRE matches grouped ("1.500.000", "1,500,000") or plain digit runs,
// optionally preceded by a currency marker.
var candidateRE = regexp.MustCompile(`(?i)(rp|idr)?\s*([0-9]{1,3}(?:[.,][0-9]{3})+(?:[.,][0-9]{2})?|[0-9]{2,9})`)

// centsRE marks a trailing two-digit decimal part to drop before parsing.
var centsRE = regexp.MustCompile(`[.,][0-9]{2}$`)

// Candidate is one scored amount found in the OCR text.
type Candidate struct {
	Raw    string
	Amount int64
	Score  float64
}

// BestAmount picks the highest-scoring plausible amount out of OCR text.
// A zero amount with ok=false means the text held nothing usable.
func BestAmount(text string) (Candidate, bool) {
	var best Candidate
	ok := false
	for _, m := range candidateRE.FindAllStringSubmatch(text, -1) {
		raw := strings.TrimSpace(m[0])
		if !plausible(raw) {
			continue
		}
		amount, err := parseAmount(m[2])
		if err != nil || amount == 0 {
			continue
		}
		c := Candidate{Raw: raw, Amount: amount, Score: score(raw, m[1] != "")}
		if !ok || c.Score > best.Score || (c.Score == best.Score && c.Amount > best.Amount) {
			best = c
			ok = true
		}
	}
	return best, ok
}

// parseAmount turns a matched digit group into whole rupiah, dropping an
// exact two-digit decimal tail ("10.000,00" -> 10000).
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if centsRE.MatchString(s) {
		s = s[:len(s)-3]
	}
	digits := onlyDigits(s)
	if digits == "" {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", digits, err)
	}
	return v, nil
}

// plausible filters out phone numbers, reference ids and dates. Grouped
// digits or an explicit currency marker are strong hints; long plain digit
// runs and leading zeros are rejected.
func plausible(raw string) bool {
	low := strings.ToLower(strings.TrimSpace(raw))
	if low == "" {
		return false
	}
	hasCurrency := strings.Contains(low, "rp") || strings.Contains(low, "idr")
	digits := onlyDigits(low)
	if digits == "" || digits[0] == '0' {
		return false
	}
	if hasCurrency {
		return true
	}
	if strings.ContainsAny(low, ".,") {
		return len(digits) >= 3
	}
	if len(digits) > 7 || len(digits) < 3 {
		return false
	}
	// plain mid-size runs are usually ids unless they end like money
	if len(digits) >= 5 && !strings.HasSuffix(digits, "000") && !strings.HasSuffix(digits, "500") {
		return false
	}
	return true
}

func score(raw string, hasMarker bool) float64 {
	s := 0.2
	if hasMarker {
		s += 0.5
	}
	if strings.ContainsAny(raw, ".,") {
		s += 0.2
	}
	if d := onlyDigits(raw); strings.HasSuffix(d, "000") {
		s += 0.1
	}
	return s
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
