package subcategory

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

// Insert follows the same insert-or-overwrite-by-id contract as the
// category repo. An unknown CategoryID fails with ErrConstraintViolation.
func (r *Repo) Insert(ctx context.Context, s models.Subcategory) (int64, error) {
	if s.ID == 0 {
		res, err := r.DB.NamedExecContext(ctx, `
			INSERT INTO subcategories (name, category_id) VALUES (:name, :category_id)
		`, s)
		if err != nil {
			return 0, database.Wrap("insert subcategory", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, database.Wrap("insert subcategory id", err)
		}
		return id, nil
	}

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO subcategories (id, name, category_id) VALUES (:id, :name, :category_id)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category_id = excluded.category_id
	`, s)
	if err != nil {
		return 0, database.Wrap("upsert subcategory", err)
	}
	return s.ID, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM subcategories`); err != nil {
		return 0, database.Wrap("count subcategories", err)
	}
	return n, nil
}

func (r *Repo) ListByCategory(ctx context.Context, categoryID int64) ([]models.Subcategory, error) {
	out := []models.Subcategory{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT id, name, category_id
		FROM subcategories
		WHERE category_id = ?
		ORDER BY id ASC
	`, categoryID)
	if err != nil {
		return nil, database.Wrap("list subcategories", err)
	}
	return out, nil
}
