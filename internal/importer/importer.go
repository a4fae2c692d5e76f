package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"opticshop/internal/domain"

	"github.com/shopspring/decimal"
)

type GlassesWriter interface {
	UpsertByIdentifier(ctx context.Context, g domain.Glasses) (*domain.Glasses, error)
}

type CategoryWriter interface {
	EnsureByName(ctx context.Context, name string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV files and inserts or updates glasses by identifier.
//
// Expected header: identifier,name,price,color,model,manufacturer,categories.
// Categories are separated by ';'. A row with an empty identifier continues the
// previous glasses and only contributes more categories.
type CSVImporter struct {
	reader     *csv.Reader
	glasses    GlassesWriter
	categories CategoryWriter
	known      map[string]string
}

func NewCSVImporter(r io.Reader, glasses GlassesWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		glasses:    glasses,
		categories: categories,
		known:      make(map[string]string),
	}
}

type csvRow struct {
	Identifier   string
	Name         string
	Price        string
	Color        string
	Model        string
	Manufacturer string
	Categories   []string
}

// Run parses CSV rows and upserts glasses grouped by identifier.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["identifier"]; !ok {
		return 0, errors.New("missing identifier column")
	}

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Identifier != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil {
			current.Categories = append(current.Categories, row.Categories...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.Price == "" {
		return fmt.Errorf("invalid glasses row (missing required fields) for identifier %q", row.Identifier)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("invalid price for identifier %q: %s", row.Identifier, row.Price)
	}

	cats := make([]domain.Category, 0, len(row.Categories))
	for _, name := range row.Categories {
		id, err := i.categoryID(ctx, name)
		if err != nil {
			return err
		}
		cats = append(cats, domain.Category{ID: id, Name: name})
	}

	g := domain.Glasses{
		Identifier:   row.Identifier,
		Name:         row.Name,
		Price:        price.Round(2),
		Color:        row.Color,
		Model:        row.Model,
		Manufacturer: row.Manufacturer,
		Categories:   cats,
	}
	if _, err := i.glasses.UpsertByIdentifier(ctx, g); err != nil {
		return fmt.Errorf("upsert glasses %q: %w", row.Identifier, err)
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (string, error) {
	if id, ok := i.known[name]; ok {
		return id, nil
	}
	c, err := i.categories.EnsureByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("ensure category %q: %w", name, err)
	}
	i.known[name] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		Identifier:   pick(record, index, "identifier"),
		Name:         pick(record, index, "name"),
		Price:        pick(record, index, "price"),
		Color:        pick(record, index, "color"),
		Model:        pick(record, index, "model"),
		Manufacturer: pick(record, index, "manufacturer"),
	}
	for _, c := range strings.Split(pick(record, index, "categories"), ";") {
		if c = strings.TrimSpace(c); c != "" {
			row.Categories = append(row.Categories, c)
		}
	}
	if row.Identifier == "" && len(row.Categories) == 0 {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
