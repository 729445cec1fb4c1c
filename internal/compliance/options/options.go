// Package options serves the selector lists of the account details form:
// countries, subdivisions, business types and date-of-birth parts.
package options

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"payoutkyc/internal/compliance/models"
)

//go:embed catalog.json
var embeddedCatalog []byte

// MinYear is the earliest selectable birth year.
const MinYear = 1900

type entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type catalogFile struct {
	Countries     []entry            `json:"countries"`
	Subdivisions  map[string][]entry `json:"subdivisions"`
	BusinessTypes map[string][]entry `json:"business_types"`
}

// Catalog holds the option lists. It is read-only after construction and
// safe for concurrent use.
type Catalog struct {
	countries     []models.Option
	countryNames  map[string]string
	subdivisions  map[string][]models.Option
	businessTypes map[string][]models.Option
}

// Load returns the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// LoadFile reads a catalog from path; an empty path selects the embedded one.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading option catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding option catalog: %w", err)
	}
	if len(f.Countries) == 0 {
		return nil, fmt.Errorf("option catalog has no countries")
	}

	c := &Catalog{
		countries:     toOptions(f.Countries),
		countryNames:  make(map[string]string, len(f.Countries)),
		subdivisions:  make(map[string][]models.Option, len(f.Subdivisions)),
		businessTypes: make(map[string][]models.Option, len(f.BusinessTypes)),
	}
	for _, e := range f.Countries {
		c.countryNames[e.Code] = e.Name
	}
	for k, v := range f.Subdivisions {
		c.subdivisions[k] = toOptions(v)
	}
	for k, v := range f.BusinessTypes {
		c.businessTypes[k] = toOptions(v)
	}
	return c, nil
}

func toOptions(entries []entry) []models.Option {
	out := make([]models.Option, len(entries))
	for i, e := range entries {
		out[i] = models.Option{ID: e.Code, Label: e.Name}
	}
	return out
}

// Countries returns every selectable country in catalog order.
func (c *Catalog) Countries() []models.Option {
	return clone(c.countries)
}

// CountryName returns the display name for an ISO code.
func (c *Catalog) CountryName(code string) (string, bool) {
	name, ok := c.countryNames[code]
	return name, ok
}

// Subdivisions returns the option set named key, or nil.
func (c *Catalog) Subdivisions(key string) []models.Option {
	return clone(c.subdivisions[key])
}

// BusinessTypes returns the option set named key, or nil.
func (c *Catalog) BusinessTypes(key string) []models.Option {
	return clone(c.businessTypes[key])
}

func clone(opts []models.Option) []models.Option {
	if opts == nil {
		return nil
	}
	return append([]models.Option(nil), opts...)
}

// Months returns 1 through 12.
func Months() []models.Option {
	return numbered(1, 12)
}

// Days returns 1 through 31. Day validity for the chosen month is checked by
// the submission backend.
func Days() []models.Option {
	return numbered(1, 31)
}

// Years returns minDOBYear-1 down to MinYear, newest first. minDOBYear is the
// first year an account holder may not have been born in.
func Years(minDOBYear int) []models.Option {
	if minDOBYear <= MinYear {
		return []models.Option{}
	}
	out := make([]models.Option, 0, minDOBYear-MinYear)
	for y := minDOBYear - 1; y >= MinYear; y-- {
		s := strconv.Itoa(y)
		out = append(out, models.Option{ID: s, Label: s})
	}
	return out
}

func numbered(from, to int) []models.Option {
	out := make([]models.Option, 0, to-from+1)
	for i := from; i <= to; i++ {
		s := strconv.Itoa(i)
		out = append(out, models.Option{ID: s, Label: s})
	}
	return out
}
