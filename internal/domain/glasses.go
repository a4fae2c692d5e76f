package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Glasses is a catalog product. Deleted glasses stay addressable by id and identifier.
type Glasses struct {
	ID           string          `json:"id"`
	Name         string          `json:"glassesName"`
	Price        decimal.Decimal `json:"price"`
	Identifier   string          `json:"identifier"`
	Color        string          `json:"color,omitempty"`
	Model        string          `json:"model,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Categories   []Category      `json:"categories"`
	Deleted      bool            `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`

	// Variations holds non-deleted siblings sharing model and manufacturer.
	Variations []Glasses `json:"variations,omitempty"`
}

// CategoryIDs returns the ids of the attached categories.
func (g Glasses) CategoryIDs() []string {
	ids := make([]string, 0, len(g.Categories))
	for _, c := range g.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// GlassesPatch lists the updatable fields. Nil fields are left untouched.
type GlassesPatch struct {
	Name         *string
	Price        *decimal.Decimal
	Identifier   *string
	Color        *string
	Model        *string
	Manufacturer *string
	CategoryIDs  *[]string
}

// MergeGlasses applies the non-nil fields of p on top of g.
func MergeGlasses(g Glasses, p GlassesPatch) Glasses {
	out := g
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.Identifier != nil {
		out.Identifier = *p.Identifier
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Model != nil {
		out.Model = *p.Model
	}
	if p.Manufacturer != nil {
		out.Manufacturer = *p.Manufacturer
	}
	if p.CategoryIDs != nil {
		cats := make([]Category, 0, len(*p.CategoryIDs))
		for _, id := range *p.CategoryIDs {
			cats = append(cats, Category{ID: id})
		}
		out.Categories = cats
	}
	out.Variations = nil
	return out
}
