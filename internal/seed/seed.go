package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"opticshop/internal/db"
	"opticshop/internal/domain"
	categoryrepo "opticshop/internal/repository/category"
	glassesrepo "opticshop/internal/repository/glasses"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Catalog struct {
	Categories []categorySeed `yaml:"categories"`
	Glasses    []glassesSeed  `yaml:"glasses"`
}

type categorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type glassesSeed struct {
	Identifier   string   `yaml:"identifier"`
	Name         string   `yaml:"name"`
	Price        string   `yaml:"price"`
	Color        string   `yaml:"color"`
	Model        string   `yaml:"model"`
	Manufacturer string   `yaml:"manufacturer"`
	Categories   []string `yaml:"categories"`
}

// Load parses a catalog document and validates prices and category references.
func Load(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		known[cat.Name] = true
	}
	for _, g := range c.Glasses {
		if g.Identifier == "" || g.Name == "" {
			return Catalog{}, fmt.Errorf("glasses entry missing identifier or name")
		}
		if _, err := decimal.NewFromString(g.Price); err != nil {
			return Catalog{}, fmt.Errorf("glasses %s: bad price %q", g.Identifier, g.Price)
		}
		for _, name := range g.Categories {
			if !known[name] {
				return Catalog{}, fmt.Errorf("glasses %s: unknown category %q", g.Identifier, name)
			}
		}
	}
	return c, nil
}

// Apply inserts the embedded demo catalog. It is idempotent: categories are matched by
// name and glasses by identifier.
func Apply(ctx context.Context, conn db.DBTX, logger *log.Logger) error {
	c, err := Load(catalogYAML)
	if err != nil {
		return err
	}

	_, err = db.InTx(ctx, conn, func(tx pgx.Tx) (struct{}, error) {
		categories := categoryrepo.NewPostgres(tx, logger)
		glasses := glassesrepo.NewPostgres(tx, logger)

		ids := make(map[string]string, len(c.Categories))
		for _, cs := range c.Categories {
			cat, err := categories.EnsureByName(ctx, cs.Name)
			if err != nil {
				return struct{}{}, fmt.Errorf("ensure category %s: %w", cs.Name, err)
			}
			ids[cs.Name] = cat.ID
		}

		for _, gs := range c.Glasses {
			price, _ := decimal.NewFromString(gs.Price)
			g := domain.Glasses{
				Identifier:   gs.Identifier,
				Name:         gs.Name,
				Price:        price,
				Color:        gs.Color,
				Model:        gs.Model,
				Manufacturer: gs.Manufacturer,
			}
			for _, name := range gs.Categories {
				g.Categories = append(g.Categories, domain.Category{ID: ids[name], Name: name})
			}
			if _, err := glasses.UpsertByIdentifier(ctx, g); err != nil {
				return struct{}{}, fmt.Errorf("upsert glasses %s: %w", gs.Identifier, err)
			}
		}
		return struct{}{}, nil
	})
	return err
}
