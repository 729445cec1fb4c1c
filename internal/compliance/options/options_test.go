package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	name, ok := c.CountryName("JP")
	require.True(t, ok)
	assert.Equal(t, "Japan", name)

	for _, key := range []string{"us", "ca", "au", "mx", "ae", "ie", "br"} {
		assert.NotEmpty(t, c.Subdivisions(key), key)
	}
	for _, key := range []string{"ae", "in", "ca"} {
		assert.NotEmpty(t, c.BusinessTypes(key), key)
	}
	assert.Nil(t, c.Subdivisions("gb"))
	assert.Len(t, c.Subdivisions("ca"), 13)
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	first := c.Countries()
	first[0].Label = "changed"
	assert.NotEqual(t, "changed", c.Countries()[0].Label)
}

func TestLoadFile(t *testing.T) {
	t.Run("empty path uses the embedded catalog", func(t *testing.T) {
		c, err := LoadFile("")
		require.NoError(t, err)
		assert.NotEmpty(t, c.Countries())
	})

	t.Run("reads an override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		body := `{"countries":[{"code":"US","name":"USA"}],"subdivisions":{"us":[{"code":"NY","name":"New York"}]}}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		c, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, c.Countries(), 1)
		assert.Equal(t, "New York", c.Subdivisions("us")[0].Label)
		assert.Nil(t, c.BusinessTypes("ae"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"countries":[]}`))
	assert.ErrorContains(t, err, "no countries")
}

func TestDOBOptions(t *testing.T) {
	months := Months()
	require.Len(t, months, 12)
	assert.Equal(t, "1", months[0].ID)
	assert.Equal(t, "12", months[11].Label)

	assert.Len(t, Days(), 31)

	years := Years(2008)
	require.Len(t, years, 108)
	assert.Equal(t, "2007", years[0].ID)
	assert.Equal(t, "1900", years[len(years)-1].ID)

	assert.Empty(t, Years(1900))
}
