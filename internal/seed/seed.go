package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"shopcatalog/pkg/models"
)

type CategoryStore interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, c models.Category) (int64, error)
}

type SubcategoryStore interface {
	Insert(ctx context.Context, s models.Subcategory) (int64, error)
}

type ProductStore interface {
	Insert(ctx context.Context, p models.Product) (int64, error)
}

type ListingStore interface {
	InsertStore(ctx context.Context, s models.Store) (int64, error)
	InsertListing(ctx context.Context, l models.ProductListing) (int64, error)
}

// Loader populates an empty catalog with the fixed taxonomy. Each insert is
// its own unit; a failure part way leaves the rows written so far in place.
type Loader struct {
	Categories    CategoryStore
	Subcategories SubcategoryStore
	Products      ProductStore
	Listings      ListingStore // optional; nil skips demo stores and listings

	log   *zap.Logger
	group singleflight.Group
}

func NewLoader(c CategoryStore, s SubcategoryStore, p ProductStore, l ListingStore, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Categories:    c,
		Subcategories: s,
		Products:      p,
		Listings:      l,
		log:           log.Named("seed"),
	}
}

// SeedIfEmpty inserts the taxonomy when there are no categories and reports
// whether it did. Existing data is authoritative: nothing is merged.
// Concurrent calls on the same Loader share one count-then-insert run.
func (l *Loader) SeedIfEmpty(ctx context.Context) (bool, error) {
	v, err, _ := l.group.Do("seed", func() (any, error) {
		return l.seedIfEmpty(ctx)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (l *Loader) seedIfEmpty(ctx context.Context) (bool, error) {
	n, err := l.Categories.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed gate: %w", err)
	}
	if n > 0 {
		l.log.Debug("catalog already populated, skipping seed", zap.Int("categories", n))
		return false, nil
	}

	productIDs, err := l.insertTaxonomy(ctx)
	if err != nil {
		return false, err
	}
	if l.Listings != nil {
		if err := l.insertListings(ctx, productIDs); err != nil {
			return false, err
		}
	}

	cats, subs, prods := Totals()
	l.log.Info("catalog seeded",
		zap.Int("categories", cats),
		zap.Int("subcategories", subs),
		zap.Int("products", prods),
	)
	return true, nil
}

func (l *Loader) insertTaxonomy(ctx context.Context) (map[string]int64, error) {
	productIDs := make(map[string]int64)
	for _, c := range Taxonomy {
		catID, err := l.Categories.Insert(ctx, models.Category{Name: c.Name})
		if err != nil {
			return nil, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		for _, s := range c.Subcategories {
			subID, err := l.Subcategories.Insert(ctx, models.Subcategory{Name: s.Name, CategoryID: catID})
			if err != nil {
				return nil, fmt.Errorf("seed subcategory %q: %w", s.Name, err)
			}
			for _, p := range s.Products {
				id, err := l.Products.Insert(ctx, models.Product{
					Name:          p.Name,
					SubcategoryID: subID,
					Price:         p.Price,
					ImageRef:      p.ImageRef,
				})
				if err != nil {
					return nil, fmt.Errorf("seed product %q: %w", p.Name, err)
				}
				productIDs[p.Name] = id
			}
		}
	}
	return productIDs, nil
}

func (l *Loader) insertListings(ctx context.Context, productIDs map[string]int64) error {
	storeIDs := make(map[string]int64, len(Stores))
	for _, s := range Stores {
		id, err := l.Listings.InsertStore(ctx, models.Store{Name: s.Name, WebsiteURL: s.WebsiteURL})
		if err != nil {
			return fmt.Errorf("seed store %q: %w", s.Name, err)
		}
		storeIDs[s.Name] = id
	}

	for _, ls := range Listings {
		pid, ok := productIDs[ls.Product]
		if !ok {
			return fmt.Errorf("seed listing: unknown product %q", ls.Product)
		}
		sid, ok := storeIDs[ls.Store]
		if !ok {
			return fmt.Errorf("seed listing: unknown store %q", ls.Store)
		}
		if _, err := l.Listings.InsertListing(ctx, models.ProductListing{ProductID: pid, StoreID: sid, Price: ls.Price}); err != nil {
			return fmt.Errorf("seed listing %s@%s: %w", ls.Product, ls.Store, err)
		}
	}
	return nil
}
