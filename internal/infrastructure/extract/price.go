package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/drinkradar/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Decimal-point price, optionally wrapped in euro signs: "€12.99", "7.50 €"
	pointPriceRegex = regexp.MustCompile(`(?:€\s*)?(\d+)\.(\d{2})(?:\s*€)?`)

	// Decimal-comma price (European): "12,99€", "€ 4,20"
	commaPriceRegex = regexp.MustCompile(`(?:€\s*)?(\d+),(\d{2})(?:\s*€)?`)

	// Any run of digits; candidates followed by a fractional separator are
	// rejected in code since RE2 has no lookahead.
	bareDigitsRegex = regexp.MustCompile(`\d+`)

	currencyStripper = strings.NewReplacer(
		"\n", "", "\r", "", "\t", "", " ", "", " ", "",
		"€", "", "$", "", "£", "",
	)
)

// ParsePrice cleans a price string and parses it as a positive amount.
// This is the first, strict stage of the extraction chain: any leftover
// alphabetic character means the text is not a plain price and the tolerant
// stage should have a go instead.
func ParsePrice(text string) (float64, error) {
	s := currencyStripper.Replace(strings.TrimSpace(text))
	if s == "" {
		return 0, domain.ErrNoPrice
	}

	for _, r := range s {
		if unicode.IsLetter(r) {
			return 0, domain.ErrNoPrice
		}
	}

	// A comma followed by exactly two digits is a decimal separator;
	// any other comma is a thousands separator and is dropped.
	if i := strings.LastIndex(s, ","); i >= 0 {
		tail := s[i+1:]
		if len(tail) == 2 && isDigits(tail) {
			s = strings.ReplaceAll(s[:i], ",", "") + "." + tail
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price <= 0 {
		return 0, domain.ErrNoPrice
	}
	return price, nil
}

// ScanPrice is the tolerant second stage: it hunts for a price-looking
// pattern anywhere in noisy text (typically OCR output). Patterns are tried
// in order of specificity; the first match wins.
func ScanPrice(text string) (float64, error) {
	if text == "" {
		return 0, domain.ErrNoPrice
	}

	for _, re := range []*regexp.Regexp{pointPriceRegex, commaPriceRegex} {
		if m := re.FindStringSubmatch(text); m != nil {
			units, err1 := strconv.Atoi(m[1])
			cents, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil || cents > 99 {
				continue
			}
			price := float64(units) + float64(cents)/100
			if price > 0 {
				return price, nil
			}
		}
	}

	// Whole-unit price: digits neither following nor followed by a
	// fractional separator.
	for _, loc := range bareDigitsRegex.FindAllStringIndex(text, -1) {
		if followedByFraction(text, loc[1]) || precededBySeparator(text, loc[0]) {
			continue
		}
		units, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err != nil || units <= 0 {
			continue
		}
		return float64(units), nil
	}

	return 0, domain.ErrNoPrice
}

// FromText runs the text stages of the chain in order: strict parse first,
// tolerant scan second.
func FromText(text string) (float64, error) {
	if price, err := ParsePrice(text); err == nil {
		return price, nil
	}
	return ScanPrice(text)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// precededBySeparator reports whether the digit run starting at pos sits
// right after a decimal separator, i.e. is itself a fractional part.
func precededBySeparator(s string, pos int) bool {
	return pos > 0 && (s[pos-1] == '.' || s[pos-1] == ',')
}

// followedByFraction reports whether the digit run ending at pos is the
// integer part of a decimal number like "12.99" or "12,99".
func followedByFraction(s string, pos int) bool {
	if pos >= len(s) {
		return false
	}
	if s[pos] != '.' && s[pos] != ',' {
		return false
	}
	return pos+1 < len(s) && s[pos+1] >= '0' && s[pos+1] <= '9'
}
