// Package exporter writes the catalog as a spreadsheet.
package exporter

import (
	"fmt"
	"io"
	"strings"

	"opticshop/internal/domain"

	"github.com/tealeg/xlsx"
)

// SheetName is the worksheet holding one row per glasses.
const SheetName = "Glasses"

var headers = []string{"ID", "Identifier", "Name", "Price", "Color", "Model", "Manufacturer", "Categories", "CreatedAt"}

// WriteXLSX renders glasses into an xlsx workbook written to w.
func WriteXLSX(w io.Writer, glasses []domain.Glasses) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetString(h)
	}

	for _, g := range glasses {
		row := sheet.AddRow()
		row.AddCell().SetString(g.ID)
		row.AddCell().SetString(g.Identifier)
		row.AddCell().SetString(g.Name)
		row.AddCell().SetString(g.Price.StringFixed(2))
		row.AddCell().SetString(g.Color)
		row.AddCell().SetString(g.Model)
		row.AddCell().SetString(g.Manufacturer)

		names := make([]string, 0, len(g.Categories))
		for _, c := range g.Categories {
			names = append(names, c.Name)
		}
		row.AddCell().SetString(strings.Join(names, ";"))
		row.AddCell().SetString(g.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
