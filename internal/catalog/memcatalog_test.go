package catalog_test

import (
	"context"
	"testing"

	"github.com/pizzavox/pizzavox/internal/catalog"
)

func newCatalog() *catalog.MemCatalog {
	c := catalog.NewMemCatalog()
	c.AddPizza(context.Background(), "margherita")
	c.AddPizza(context.Background(), "hawajska")
	c.AddIngredient(context.Background(), "ser", catalog.CategoryDairy, 3)
	c.AddDough(context.Background(), false, false, false, 10)
	c.AddDough(context.Background(), false, true, false, 12)
	c.AddDough(context.Background(), true, false, false, 14)
	c.AddDough(context.Background(), true, true, false, 16)
	c.AddDough(context.Background(), true, true, true, 20)
	return c
}

func TestMemCatalog_ResolveDough(t *testing.T) {
	t.Parallel()

	c := newCatalog()
	ctx := context.Background()
	yes, no := true, false

	t.Run("exact match", func(t *testing.T) {
		t.Parallel()
		d, err := c.ResolveDough(ctx, &yes, &no, false)
		if err != nil {
			t.Fatal(err)
		}
		if d == nil || d.Price != 14 {
			t.Errorf("ResolveDough(big, thin) = %+v, want price 14", d)
		}
	})

	t.Run("nil fields are wildcards and the cheapest variant wins", func(t *testing.T) {
		t.Parallel()
		d, err := c.ResolveDough(ctx, &yes, nil, false)
		if err != nil {
			t.Fatal(err)
		}
		if d == nil || d.Price != 14 {
			t.Errorf("ResolveDough(big, any) = %+v, want cheapest big variant (14)", d)
		}
	})

	t.Run("gluten free always matches exactly", func(t *testing.T) {
		t.Parallel()
		d, err := c.ResolveDough(ctx, &yes, &yes, true)
		if err != nil {
			t.Fatal(err)
		}
		if d == nil || d.Price != 20 {
			t.Errorf("ResolveDough(big, thick, gf) = %+v, want price 20", d)
		}
	})

	t.Run("no matching variant is not an error", func(t *testing.T) {
		t.Parallel()
		d, err := c.ResolveDough(ctx, &no, &no, true)
		if err != nil {
			t.Fatal(err)
		}
		if d != nil {
			t.Errorf("ResolveDough(small, thin, gf) = %+v, want nil", d)
		}
	})
}

func TestMemCatalog_Lookups(t *testing.T) {
	t.Parallel()

	c := newCatalog()
	ctx := context.Background()

	p, err := c.FindPizza(ctx, "Margherita")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.Name != "margherita" {
		t.Errorf("FindPizza is not case-insensitive: %+v", p)
	}

	missing, err := c.FindPizza(ctx, "calzone")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("FindPizza(calzone) = %+v, want nil", missing)
	}

	names, err := c.PizzaNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "margherita" {
		t.Errorf("PizzaNames() = %v, want insertion order [margherita hawajska]", names)
	}
}
