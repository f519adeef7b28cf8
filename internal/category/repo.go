package category

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

// Insert stores c and returns its id. A zero ID lets the store assign one;
// a non-zero ID overwrites every column of an existing row with that id, or
// creates it. Overwriting never removes the row, so no cascade is triggered.
func (r *Repo) Insert(ctx context.Context, c models.Category) (int64, error) {
	if c.ID == 0 {
		res, err := r.DB.NamedExecContext(ctx, `
			INSERT INTO categories (name) VALUES (:name)
		`, c)
		if err != nil {
			return 0, database.Wrap("insert category", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, database.Wrap("insert category id", err)
		}
		return id, nil
	}

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO categories (id, name) VALUES (:id, :name)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name
	`, c)
	if err != nil {
		return 0, database.Wrap("upsert category", err)
	}
	return c.ID, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories`); err != nil {
		return 0, database.Wrap("count categories", err)
	}
	return n, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	if err := r.DB.SelectContext(ctx, &out, `SELECT id, name FROM categories ORDER BY id ASC`); err != nil {
		return nil, database.Wrap("list categories", err)
	}
	return out, nil
}

// Delete removes a category and, through ON DELETE CASCADE, its
// subcategories. Products are not cascaded: if any cascaded subcategory
// still has products the whole statement fails with ErrConstraintViolation.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return database.Wrap("delete category", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &database.StorageError{Op: "delete category", Kind: database.ErrNotFound}
	}
	return nil
}
