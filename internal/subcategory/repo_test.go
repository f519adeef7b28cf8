package subcategory_test

import (
	"context"
	"errors"
	"testing"

	"shopcatalog/internal/category"
	"shopcatalog/internal/dbtest"
	"shopcatalog/internal/subcategory"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/models"
)

func TestInsertRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	repo := subcategory.NewRepo(dbtest.Open(t))

	_, err := repo.Insert(ctx, models.Subcategory{Name: "Fridges", CategoryID: 99})
	if !errors.Is(err, database.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Errorf("count = %d after rejected insert", n)
	}
}

func TestListByCategory(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	cats := category.NewRepo(db)
	repo := subcategory.NewRepo(db)

	drinks, _ := cats.Insert(ctx, models.Category{Name: "Drinks"})
	organic, _ := cats.Insert(ctx, models.Category{Name: "Organic"})

	for _, s := range []models.Subcategory{
		{Name: "Milk", CategoryID: drinks},
		{Name: "Fruits", CategoryID: organic},
		{Name: "Soda", CategoryID: drinks},
	} {
		if _, err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("insert %s: %v", s.Name, err)
		}
	}

	got, err := repo.ListByCategory(ctx, drinks)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Milk" || got[1].Name != "Soda" {
		t.Errorf("unexpected subcategories: %+v", got)
	}
	for _, s := range got {
		if s.CategoryID != drinks {
			t.Errorf("%s has category %d, want %d", s.Name, s.CategoryID, drinks)
		}
	}
}

func TestOverwriteMovesSubcategory(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	cats := category.NewRepo(db)
	repo := subcategory.NewRepo(db)

	drinks, _ := cats.Insert(ctx, models.Category{Name: "Drinks"})
	cereals, _ := cats.Insert(ctx, models.Category{Name: "Cereals"})
	id, _ := repo.Insert(ctx, models.Subcategory{Name: "Wheat", CategoryID: drinks})

	if _, err := repo.Insert(ctx, models.Subcategory{ID: id, Name: "Wheat", CategoryID: cereals}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, _ := repo.ListByCategory(ctx, cereals)
	if len(got) != 1 || got[0].ID != id {
		t.Errorf("subcategory not moved: %+v", got)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
