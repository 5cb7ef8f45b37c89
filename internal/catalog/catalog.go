// Package catalog exposes the pizzeria menu data the parser resolves spoken
// names against: pizza names, ingredient names, and the available dough
// variants. Implementations must return name lists in a stable order, since
// fuzzy-match tie-breaking depends on it.
package catalog

import "context"

// Pizza is one menu pizza.
type Pizza struct {
	ID     int64
	Name   string
	InMenu bool
}

// IngredientCategory classifies an ingredient.
type IngredientCategory string

const (
	CategoryVegetable IngredientCategory = "vegetable"
	CategoryMeat      IngredientCategory = "meat"
	CategoryDairy     IngredientCategory = "dairy"
)

// Ingredient is one orderable extra ingredient.
type Ingredient struct {
	ID       int64
	Name     string
	Category IngredientCategory
	Price    float64
}

// DoughVariant is one concrete dough combination with its price.
type DoughVariant struct {
	ID         int64
	BigSize    bool
	ThickCrust bool
	GlutenFree bool
	Price      float64
}

// Catalog is the read-only menu lookup interface consumed by the parser and
// the conversation layer. Lookup misses return (nil, nil): absence is a
// normal outcome, not an error.
type Catalog interface {
	// PizzaNames lists in-menu pizza names in stable catalog order.
	PizzaNames(ctx context.Context) ([]string, error)

	// IngredientNames lists ingredient names in stable catalog order.
	IngredientNames(ctx context.Context) ([]string, error)

	// DoughVariants lists every dough combination on offer.
	DoughVariants(ctx context.Context) ([]DoughVariant, error)

	// FindPizza resolves an exact (case-insensitive) pizza name.
	FindPizza(ctx context.Context, name string) (*Pizza, error)

	// FindIngredient resolves an exact (case-insensitive) ingredient name.
	FindIngredient(ctx context.Context, name string) (*Ingredient, error)

	// ResolveDough finds a dough variant matching the given tri-state
	// attributes. Nil bigSize/thickCrust act as wildcards; among several
	// matches the cheapest wins.
	ResolveDough(ctx context.Context, bigSize, thickCrust *bool, glutenFree bool) (*DoughVariant, error)
}

// MenuStore extends [Catalog] with the write side behind the menu admin
// endpoints: without it a fresh deployment has an empty menu and nothing to
// match utterances against.
type MenuStore interface {
	Catalog

	// AddPizza registers a menu pizza and returns its id.
	AddPizza(ctx context.Context, name string) (int64, error)

	// AddIngredient registers an orderable extra ingredient and returns its id.
	AddIngredient(ctx context.Context, name string, category IngredientCategory, price float64) (int64, error)

	// AddDough registers a dough combination and returns its id.
	AddDough(ctx context.Context, bigSize, thickCrust, glutenFree bool, price float64) (int64, error)
}

// IsValid reports whether c is a recognised ingredient category.
func (c IngredientCategory) IsValid() bool {
	switch c {
	case CategoryVegetable, CategoryMeat, CategoryDairy:
		return true
	}
	return false
}
