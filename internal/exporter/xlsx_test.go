package exporter

import (
	"bytes"
	"testing"
	"time"

	"opticshop/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestWriteXLSX(t *testing.T) {
	glasses := []domain.Glasses{
		{
			ID:           "g-1",
			Identifier:   "AV-1",
			Name:         "Aviator",
			Price:        decimal.RequireFromString("99.9"),
			Color:        "gold",
			Model:        "RB3025",
			Manufacturer: "Ray-Ban",
			Categories:   []domain.Category{{Name: "sun"}, {Name: "metal"}},
			CreatedAt:    time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, glasses))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0].Cells
	assert.Equal(t, "Identifier", header[1].String())

	row := sheet.Rows[1].Cells
	assert.Equal(t, "AV-1", row[1].String())
	assert.Equal(t, "99.90", row[3].String())
	assert.Equal(t, "sun;metal", row[7].String())
	assert.Equal(t, "2024-05-01 10:30:00", row[8].String())
}
