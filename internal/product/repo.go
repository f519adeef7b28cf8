package product

import (
	"context"
	"database/sql"
	"errors"

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

const joinedSelect = `
	SELECT
		p.id, p.name, p.subcategory_id, p.price, p.image_ref,
		s.name AS subcategory_name,
		c.id   AS category_id,
		c.name AS category_name
	FROM products p
	INNER JOIN subcategories s ON s.id = p.subcategory_id
	INNER JOIN categories c ON c.id = s.category_id
`

// Insert stores p (insert-or-overwrite-by-id). Unknown SubcategoryID or a
// negative price fail with ErrConstraintViolation.
func (r *Repo) Insert(ctx context.Context, p models.Product) (int64, error) {
	if p.ID == 0 {
		res, err := r.DB.NamedExecContext(ctx, `
			INSERT INTO products (name, subcategory_id, price, image_ref)
			VALUES (:name, :subcategory_id, :price, :image_ref)
		`, p)
		if err != nil {
			return 0, database.Wrap("insert product", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, database.Wrap("insert product id", err)
		}
		return id, nil
	}

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO products (id, name, subcategory_id, price, image_ref)
		VALUES (:id, :name, :subcategory_id, :price, :image_ref)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			subcategory_id = excluded.subcategory_id,
			price = excluded.price,
			image_ref = excluded.image_ref
	`, p)
	if err != nil {
		return 0, database.Wrap("upsert product", err)
	}
	return p.ID, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, database.Wrap("count products", err)
	}
	return n, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.ProductWithCategoryAndSubcategory, error) {
	var p models.ProductWithCategoryAndSubcategory
	if err := r.DB.GetContext(ctx, &p, joinedSelect+` WHERE p.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Wrap("get product", err)
	}
	return &p, nil
}

// ListWithCategoryAndSubcategory returns one row per product in insertion
// (id) order, each with its subcategory and category names.
func (r *Repo) ListWithCategoryAndSubcategory(ctx context.Context) ([]models.ProductWithCategoryAndSubcategory, error) {
	out := []models.ProductWithCategoryAndSubcategory{}
	if err := r.DB.SelectContext(ctx, &out, joinedSelect+` ORDER BY p.id ASC`); err != nil {
		return nil, database.Wrap("list products", err)
	}
	return out, nil
}
