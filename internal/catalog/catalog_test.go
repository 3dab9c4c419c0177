package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidCatalog(t *testing.T) {
	raw := []byte(`[
		{"name": "Bono $500 MXN", "total": 10},
		{"name": " Día Libre ", "total": 5},
		{"name": "TOTAL DE PREMIOS", "total": 15}
	]`)
	c, err := Parse(raw, "TOTAL DE PREMIOS")
	require.NoError(t, err)
	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "Día Libre", list[1].Name)
	assert.Equal(t, "TOTAL DE PREMIOS", c.TotalRow())
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte(`[]`), "TOTAL")
	assert.Error(t, err)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"name":`), "TOTAL")
	assert.Error(t, err)
}

func TestParseRejectsZeroStock(t *testing.T) {
	_, err := Parse([]byte(`[{"name": "Termo", "total": 0}]`), "TOTAL")
	assert.Error(t, err)
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	raw := []byte(`[{"name": "Termo", "total": 1}, {"name": "Termo", "total": 2}]`)
	_, err := Parse(raw, "TOTAL")
	assert.Error(t, err)
}

func TestParseRejectsBlankName(t *testing.T) {
	_, err := Parse([]byte(`[{"name": "  ", "total": 3}]`), "TOTAL")
	assert.Error(t, err)
}
