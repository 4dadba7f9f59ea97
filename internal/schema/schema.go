// Package schema holds the typed request/response contracts for every
// entity: Create requests require all mandatory fields, Update requests use
// pointer fields with an explicit per-field merge, and responses are
// projections of stored rows that never include password material.
package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"shop-service/internal/fault"
)

const (
	// DefaultLimit is the page size used when a list request passes no limit.
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what the client asks for.
	MaxLimit = 100
)

var (
	nameRe     = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\- ]+$`)
	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	slugRe     = regexp.MustCompile(`^[a-z0-9-]+$`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	maxPrice = decimal.RequireFromString("99999999.99")
)

// NormalizeListParams clamps pagination inputs: negative skip becomes 0,
// a missing or non-positive limit becomes DefaultLimit, and limit never
// exceeds MaxLimit.
func NormalizeListParams(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit
}

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// checkName trims value and validates it as a human name: 2..maxLen Latin or
// Cyrillic letters, hyphens and spaces. Lengths count characters, not bytes:
// Cyrillic letters are two bytes each. Returns the trimmed value.
func checkName(v *fault.ValidationError, field, value string, maxLen int) string {
	value = strings.TrimSpace(value)
	if n := utf8.RuneCountInString(value); n < 2 || n > maxLen {
		v.Add(field, fmt.Sprintf("must be 2-%d characters", maxLen))
		return value
	}
	if !nameRe.MatchString(value) {
		v.Add(field, "may only contain letters, hyphens and spaces")
	}
	return value
}

// checkUsername trims and lower-cases value and validates 3-50 chars of
// [a-z0-9_]. Returns the normalized value.
func checkUsername(v *fault.ValidationError, field, value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if n := utf8.RuneCountInString(value); n < 3 || n > 50 {
		v.Add(field, "must be 3-50 characters")
		return value
	}
	if !usernameRe.MatchString(value) {
		v.Add(field, "may only contain a-z, 0-9 and underscores")
	}
	return value
}

// checkSlug trims and lower-cases value and validates 2..maxLen chars of
// [a-z0-9-]. Returns the normalized value.
func checkSlug(v *fault.ValidationError, field, value string, maxLen int) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if n := utf8.RuneCountInString(value); n < 2 || n > maxLen {
		v.Add(field, fmt.Sprintf("must be 2-%d characters", maxLen))
		return value
	}
	if !slugRe.MatchString(value) {
		v.Add(field, "may only contain a-z, 0-9 and hyphens")
	}
	return value
}

// checkEmail trims and lower-cases value and validates its structure.
func checkEmail(v *fault.ValidationError, field, value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if !emailRe.MatchString(value) {
		v.Add(field, "must be a valid email address")
	}
	return value
}

// checkLen validates that value, after trimming, is min..max characters.
func checkLen(v *fault.ValidationError, field, value string, min, max int) string {
	value = strings.TrimSpace(value)
	if n := utf8.RuneCountInString(value); n < min || n > max {
		v.Add(field, fmt.Sprintf("must be %d-%d characters", min, max))
	}
	return value
}

// checkPrice validates a monetary amount: positive, at most 99,999,999.99,
// no more than 2 decimal places.
func checkPrice(v *fault.ValidationError, field string, value decimal.Decimal) {
	if !value.IsPositive() {
		v.Add(field, "must be greater than 0")
		return
	}
	if value.GreaterThan(maxPrice) {
		v.Add(field, "must not exceed 99999999.99")
	}
	if value.Exponent() < -2 {
		v.Add(field, "must have at most 2 decimal places")
	}
}

// checkDiscount validates discount against price: same per-field rules plus
// strictly less than the regular price.
func checkDiscount(v *fault.ValidationError, field string, discount, price decimal.Decimal) {
	checkPrice(v, field, discount)
	if discount.IsPositive() && price.IsPositive() && !discount.LessThan(price) {
		v.Add(field, "must be less than price")
	}
}
