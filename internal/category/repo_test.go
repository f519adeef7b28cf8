package category_test

import (
	"context"
	"errors"
	"testing"

	"shopcatalog/internal/category"
	"shopcatalog/internal/dbtest"
	"shopcatalog/internal/product"
	"shopcatalog/internal/subcategory"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/models"
)

func TestInsertAssignsIDsAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := category.NewRepo(dbtest.Open(t))

	n, err := repo.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("empty count = %d, %v", n, err)
	}

	first, err := repo.Insert(ctx, models.Category{Name: "Electronics"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := repo.Insert(ctx, models.Category{Name: "Drinks"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first <= 0 || second <= first {
		t.Errorf("ids not increasing: %d, %d", first, second)
	}

	n, err = repo.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v; want 2", n, err)
	}
}

func TestInsertWithIDOverwritesWithoutCascade(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := category.NewRepo(db)
	subs := subcategory.NewRepo(db)

	id, err := repo.Insert(ctx, models.Category{Name: "Electrnics"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := subs.Insert(ctx, models.Subcategory{Name: "Fridges", CategoryID: id}); err != nil {
		t.Fatalf("insert subcategory: %v", err)
	}

	got, err := repo.Insert(ctx, models.Category{ID: id, Name: "Electronics"})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got != id {
		t.Errorf("overwrite returned id %d, want %d", got, id)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Electronics" {
		t.Errorf("unexpected categories after overwrite: %+v", list)
	}

	children, err := subs.ListByCategory(ctx, id)
	if err != nil {
		t.Fatalf("list subcategories: %v", err)
	}
	if len(children) != 1 {
		t.Errorf("overwrite removed subcategories: %+v", children)
	}
}

func TestInsertWithUnknownIDCreatesRow(t *testing.T) {
	ctx := context.Background()
	repo := category.NewRepo(dbtest.Open(t))

	id, err := repo.Insert(ctx, models.Category{ID: 42, Name: "Organic"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
}

func TestInsertRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	repo := category.NewRepo(dbtest.Open(t))

	_, err := repo.Insert(ctx, models.Category{Name: "  "})
	if !errors.Is(err, database.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("failed insert left %d rows", n)
	}
}

func TestDeleteCascadesToSubcategories(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := category.NewRepo(db)
	subs := subcategory.NewRepo(db)

	id, _ := repo.Insert(ctx, models.Category{Name: "Pastries"})
	keep, _ := repo.Insert(ctx, models.Category{Name: "Drinks"})
	for _, name := range []string{"Bread", "Cake"} {
		if _, err := subs.Insert(ctx, models.Subcategory{Name: name, CategoryID: id}); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}
	if _, err := subs.Insert(ctx, models.Subcategory{Name: "Milk", CategoryID: keep}); err != nil {
		t.Fatalf("insert Milk: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	n, err := subs.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("subcategories after cascade = %d, want 1", n)
	}
	left, _ := subs.ListByCategory(ctx, id)
	if len(left) != 0 {
		t.Errorf("orphans left behind: %+v", left)
	}
}

func TestDeleteBlockedByProducts(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := category.NewRepo(db)
	subs := subcategory.NewRepo(db)
	products := product.NewRepo(db)

	id, _ := repo.Insert(ctx, models.Category{Name: "Electronics"})
	subID, _ := subs.Insert(ctx, models.Subcategory{Name: "Fridges", CategoryID: id})
	if _, err := products.Insert(ctx, models.Product{Name: "Samsung Fridge", SubcategoryID: subID, Price: 799.99}); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	err := repo.Delete(ctx, id)
	if !errors.Is(err, database.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}

	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("category count = %d after failed delete", n)
	}
	if n, _ := subs.Count(ctx); n != 1 {
		t.Errorf("subcategory count = %d after failed delete", n)
	}
}

func TestDeleteUnknown(t *testing.T) {
	repo := category.NewRepo(dbtest.Open(t))

	err := repo.Delete(context.Background(), 7)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
