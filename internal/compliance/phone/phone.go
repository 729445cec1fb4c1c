// Package phone normalizes user-entered phone numbers to E.164.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrNotPossible is returned for input that parses but cannot be a number
// in the region.
var ErrNotPossible = errors.New("phone number is not possible for region")

// Format parses raw in the context of region (ISO 3166-1 alpha-2) and returns
// it in E.164. Numbers written with a leading + ignore the region.
func Format(raw, region string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty phone number")
	}
	num, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("parsing phone number: %w", err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrNotPossible
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Normalize returns the E.164 form of raw, or raw unchanged when it cannot be
// formatted. It never fails: partially typed numbers are kept as entered.
func Normalize(raw, region string) string {
	formatted, err := Format(raw, region)
	if err != nil {
		return raw
	}
	return formatted
}
