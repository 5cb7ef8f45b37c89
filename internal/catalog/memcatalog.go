package catalog

import (
	"context"
	"strings"
	"sync"
)

// MemCatalog is a thread-safe, in-memory [Catalog] for tests and local runs.
// Entries keep their insertion order, so name lists are stable.
type MemCatalog struct {
	mu          sync.RWMutex
	pizzas      []Pizza
	ingredients []Ingredient
	doughs      []DoughVariant
	nextID      int64
}

var _ MenuStore = (*MemCatalog)(nil)

// NewMemCatalog returns an empty [MemCatalog].
func NewMemCatalog() *MemCatalog {
	return &MemCatalog{nextID: 1}
}

// AddPizza implements [MenuStore.AddPizza].
func (c *MemCatalog) AddPizza(ctx context.Context, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.pizzas = append(c.pizzas, Pizza{ID: id, Name: name, InMenu: true})
	return id, nil
}

// AddIngredient implements [MenuStore.AddIngredient].
func (c *MemCatalog) AddIngredient(ctx context.Context, name string, category IngredientCategory, price float64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.ingredients = append(c.ingredients, Ingredient{ID: id, Name: name, Category: category, Price: price})
	return id, nil
}

// AddDough implements [MenuStore.AddDough].
func (c *MemCatalog) AddDough(ctx context.Context, bigSize, thickCrust, glutenFree bool, price float64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.doughs = append(c.doughs, DoughVariant{
		ID: id, BigSize: bigSize, ThickCrust: thickCrust, GlutenFree: glutenFree, Price: price,
	})
	return id, nil
}

// PizzaNames implements [Catalog.PizzaNames].
func (c *MemCatalog) PizzaNames(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.pizzas))
	for _, p := range c.pizzas {
		if p.InMenu {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// IngredientNames implements [Catalog.IngredientNames].
func (c *MemCatalog) IngredientNames(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.ingredients))
	for _, ing := range c.ingredients {
		names = append(names, ing.Name)
	}
	return names, nil
}

// DoughVariants implements [Catalog.DoughVariants].
func (c *MemCatalog) DoughVariants(ctx context.Context) ([]DoughVariant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]DoughVariant, len(c.doughs))
	copy(out, c.doughs)
	return out, nil
}

// FindPizza implements [Catalog.FindPizza].
func (c *MemCatalog) FindPizza(ctx context.Context, name string) (*Pizza, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.pizzas {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// FindIngredient implements [Catalog.FindIngredient].
func (c *MemCatalog) FindIngredient(ctx context.Context, name string) (*Ingredient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ing := range c.ingredients {
		if strings.EqualFold(ing.Name, name) {
			found := ing
			return &found, nil
		}
	}
	return nil, nil
}

// ResolveDough implements [Catalog.ResolveDough].
func (c *MemCatalog) ResolveDough(ctx context.Context, bigSize, thickCrust *bool, glutenFree bool) (*DoughVariant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *DoughVariant
	for i := range c.doughs {
		d := c.doughs[i]
		if bigSize != nil && d.BigSize != *bigSize {
			continue
		}
		if thickCrust != nil && d.ThickCrust != *thickCrust {
			continue
		}
		if d.GlutenFree != glutenFree {
			continue
		}
		if best == nil || d.Price < best.Price {
			found := d
			best = &found
		}
	}
	return best, nil
}
