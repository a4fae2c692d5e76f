package catalog

import (
	"context"
	"strings"

	"opticshop/internal/domain"
	glassesrepo "opticshop/internal/repository/glasses"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo glassesrepo.Repository
}

func New(repo glassesrepo.Repository) *Service {
	return &Service{repo: repo}
}

// GlassesInput is the payload for creating glasses.
type GlassesInput struct {
	Name         string          `json:"glassesName"`
	Price        decimal.Decimal `json:"price" swaggertype:"number"`
	Identifier   string          `json:"identifier"`
	Color        string          `json:"color"`
	Model        string          `json:"model"`
	Manufacturer string          `json:"manufacturer"`
	CategoryIDs  []string        `json:"categoryIds"`
}

// SearchParams are the search criteria. Empty lists and nil bounds match everything.
type SearchParams struct {
	Names         []string
	Colors        []string
	Models        []string
	Manufacturers []string
	PriceFrom     *decimal.Decimal
	PriceTo       *decimal.Decimal
	CategoryIDs   []string
}

func (s *Service) FindAll(ctx context.Context) ([]domain.Glasses, error) {
	return s.repo.List(ctx)
}

// GetByID returns the glasses, deleted or not, with their variations.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Glasses, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withVariations(ctx, g)
}

func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*domain.Glasses, error) {
	g, err := s.repo.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}
	return s.withVariations(ctx, g)
}

func (s *Service) withVariations(ctx context.Context, g *domain.Glasses) (*domain.Glasses, error) {
	if g.Model == "" && g.Manufacturer == "" {
		return g, nil
	}
	vars, err := s.repo.ListVariations(ctx, g.Model, g.Manufacturer, g.ID)
	if err != nil {
		return nil, err
	}
	g.Variations = vars
	return g, nil
}

func (s *Service) Save(ctx context.Context, in GlassesInput) (*domain.Glasses, error) {
	g := domain.Glasses{
		Name:         strings.TrimSpace(in.Name),
		Price:        in.Price,
		Identifier:   strings.TrimSpace(in.Identifier),
		Color:        strings.TrimSpace(in.Color),
		Model:        strings.TrimSpace(in.Model),
		Manufacturer: strings.TrimSpace(in.Manufacturer),
	}
	for _, id := range in.CategoryIDs {
		g.Categories = append(g.Categories, domain.Category{ID: id})
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, g)
}

// Update applies patch on top of the stored glasses.
func (s *Service) Update(ctx context.Context, id string, patch domain.GlassesPatch) (*domain.Glasses, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := domain.MergeGlasses(*existing, patch)
	if err := validate(merged); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, merged)
}

func (s *Service) DeleteByID(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) SearchGlassesByParameters(ctx context.Context, p SearchParams) ([]domain.Glasses, error) {
	if p.PriceFrom != nil && p.PriceTo != nil && p.PriceFrom.GreaterThan(*p.PriceTo) {
		return nil, domain.Invalid("priceFrom must not exceed priceTo")
	}
	if err := validCategoryIDs(p.CategoryIDs); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, BuildFilters(p))
}

// BuildFilters turns search parameters into repository filters. Criteria left
// empty produce no filter.
func BuildFilters(p SearchParams) []glassesrepo.Filter {
	var filters []glassesrepo.Filter
	anyOf := func(col glassesrepo.Column, values []string) {
		if len(values) > 0 {
			filters = append(filters, glassesrepo.AnyOf{Column: col, Values: values})
		}
	}
	anyOf(glassesrepo.ColumnName, p.Names)
	anyOf(glassesrepo.ColumnColor, p.Colors)
	anyOf(glassesrepo.ColumnModel, p.Models)
	anyOf(glassesrepo.ColumnManufacturer, p.Manufacturers)
	if p.PriceFrom != nil || p.PriceTo != nil {
		filters = append(filters, glassesrepo.PriceBetween{From: p.PriceFrom, To: p.PriceTo})
	}
	if len(p.CategoryIDs) > 0 {
		filters = append(filters, glassesrepo.InCategories{IDs: p.CategoryIDs})
	}
	return filters
}

func validate(g domain.Glasses) error {
	switch {
	case g.Name == "":
		return domain.Invalid("glassesName required")
	case g.Identifier == "":
		return domain.Invalid("identifier required")
	case g.Price.IsNegative():
		return domain.Invalid("price must not be negative")
	}
	ids := make([]string, 0, len(g.Categories))
	for _, c := range g.Categories {
		ids = append(ids, c.ID)
	}
	return validCategoryIDs(ids)
}

func validCategoryIDs(ids []string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return domain.Invalid("unknown category id %q", id)
		}
	}
	return nil
}
