package listing

import (
	"context"

	"github.com/jmoiron/sqlx"

	"shopcatalog/pkg/database"
	"shopcatalog/pkg/models"
)

type Repo struct {
	DB *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{DB: db}
}

// InsertStore stores s (insert-or-overwrite-by-id).
func (r *Repo) InsertStore(ctx context.Context, s models.Store) (int64, error) {
	if s.ID == 0 {
		res, err := r.DB.NamedExecContext(ctx, `
			INSERT INTO stores (name, website_url) VALUES (:name, :website_url)
		`, s)
		if err != nil {
			return 0, database.Wrap("insert store", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, database.Wrap("insert store id", err)
		}
		return id, nil
	}

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO stores (id, name, website_url) VALUES (:id, :name, :website_url)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			website_url = excluded.website_url
	`, s)
	if err != nil {
		return 0, database.Wrap("upsert store", err)
	}
	return s.ID, nil
}

// InsertListing stores l (insert-or-overwrite-by-id). A store may end up
// with several listings for the same product; nothing prevents it.
func (r *Repo) InsertListing(ctx context.Context, l models.ProductListing) (int64, error) {
	if l.ID == 0 {
		res, err := r.DB.NamedExecContext(ctx, `
			INSERT INTO product_listings (product_id, store_id, price)
			VALUES (:product_id, :store_id, :price)
		`, l)
		if err != nil {
			return 0, database.Wrap("insert listing", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, database.Wrap("insert listing id", err)
		}
		return id, nil
	}

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO product_listings (id, product_id, store_id, price)
		VALUES (:id, :product_id, :store_id, :price)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			store_id = excluded.store_id,
			price = excluded.price
	`, l)
	if err != nil {
		return 0, database.Wrap("upsert listing", err)
	}
	return l.ID, nil
}

func (r *Repo) ListStores(ctx context.Context) ([]models.Store, error) {
	out := []models.Store{}
	if err := r.DB.SelectContext(ctx, &out, `SELECT id, name, website_url FROM stores ORDER BY id ASC`); err != nil {
		return nil, database.Wrap("list stores", err)
	}
	return out, nil
}

// SortedListingsForProduct returns every listing of productID joined with
// its store, cheapest first. Equal prices keep listing insertion order.
func (r *Repo) SortedListingsForProduct(ctx context.Context, productID int64) ([]models.StorePriceListing, error) {
	out := []models.StorePriceListing{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT pl.price, s.name AS store_name, s.website_url
		FROM product_listings pl
		INNER JOIN stores s ON pl.store_id = s.id
		WHERE pl.product_id = ?
		ORDER BY pl.price ASC, pl.id ASC
	`, productID)
	if err != nil {
		return nil, database.Wrap("sorted listings", err)
	}
	return out, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]models.ProductListing, error) {
	out := []models.ProductListing{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT id, product_id, store_id, price
		FROM product_listings
		ORDER BY product_id ASC, price ASC, id ASC
	`)
	if err != nil {
		return nil, database.Wrap("list listings", err)
	}
	return out, nil
}
