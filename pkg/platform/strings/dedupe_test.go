package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	cases := map[string]struct {
		in    []string
		plain []string
		upper []string
	}{
		"nil stays nil": {
			in: nil, plain: nil, upper: nil,
		},
		"empty stays empty": {
			in: []string{}, plain: []string{}, upper: []string{},
		},
		"invalid field query": {
			in:    []string{" city", "zip_code ", "city", ""},
			plain: []string{"city", "zip_code"},
			upper: []string{"CITY", "ZIP_CODE"},
		},
		"tax id countries in mixed case": {
			in:    []string{"br", " CA", "BR", "  ", "ae"},
			plain: []string{"br", "CA", "BR", "ae"},
			upper: []string{"BR", "CA", "AE"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.plain, DedupeAndTrim(tc.in))
			assert.Equal(t, tc.upper, DedupeAndTrimUpper(tc.in))
		})
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, SplitCSV("   "))
	assert.Equal(t, []string{"US", "CA", "BR"}, SplitCSV("us, ca,,br,US"))
}
