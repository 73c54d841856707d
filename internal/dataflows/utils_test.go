package dataflows

import (
	"os"
	"strings"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "brk.b", " ibm ", "RDS-A", "7203.T", "RELIANCE.BSE", "TSCO.LON", "SHOP.TRT"}
	for _, s := range valid {
		assert.NoErrorf(t, ValidateSymbol(s), "symbol %q", s)
	}

	invalid := []string{"", "   ", strings.Repeat("A", 33), "AA PL", "AAPL$"}
	for _, s := range invalid {
		assert.Errorf(t, ValidateSymbol(s), "symbol %q", s)
	}
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"Time Series (Daily)": {}}`), 0o644))
	data, err := LoadFixture(good)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	noSeries := filepath.Join(dir, "no_series.json")
	require.NoError(t, os.WriteFile(noSeries, []byte(`{"Meta Data": {}}`), 0o644))
	_, err = LoadFixture(noSeries)
	assert.ErrorIs(t, err, ErrFallbackUnavailable)

	_, err = LoadFixture(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrFallbackUnavailable)
}

func TestBundledFixture(t *testing.T) {
	data, err := LoadFixture(filepath.Join("..", "..", "mocks", "ibm_data.json"))
	require.NoError(t, err)

	payload := &Payload{Body: data}
	assert.Equal(t, "IBM", payload.MetaSymbol())
	assert.True(t, payload.TimeSeries().IsObject())
}
