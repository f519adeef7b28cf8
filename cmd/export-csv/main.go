package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"shopcatalog/internal/listing"
	"shopcatalog/internal/product"
	"shopcatalog/pkg/database"
)

func main() {
	var (
		productsOut = flag.String("products", "data/products.csv", "output CSV path for products")
		listingsOut = flag.String("listings", "data/listings.csv", "output CSV path for listings")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(database.DefaultConfig())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportProducts(ctx, product.NewRepo(db), *productsOut); err != nil {
		log.Fatalf("export products failed: %v", err)
	}
	if err := exportListings(ctx, listing.NewRepo(db), *listingsOut); err != nil {
		log.Fatalf("export listings failed: %v", err)
	}

	log.Printf("✅ exported products to %s and listings to %s", *productsOut, *listingsOut)
}

func exportProducts(ctx context.Context, repo *product.Repo, outPath string) error {
	items, err := repo.ListWithCategoryAndSubcategory(ctx)
	if err != nil {
		return err
	}

	w, closeFn, err := create(outPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Write([]string{"id", "name", "price", "image_ref", "subcategory_id", "subcategory", "category_id", "category"}); err != nil {
		return err
	}
	for _, p := range items {
		if err := w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.ImageRef,
			strconv.FormatInt(p.SubcategoryID, 10),
			p.SubcategoryName,
			strconv.FormatInt(p.CategoryID, 10),
			p.CategoryName,
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// The listings file uses the same columns import-csv reads.
func exportListings(ctx context.Context, repo *listing.Repo, outPath string) error {
	items, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}

	w, closeFn, err := create(outPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Write([]string{"id", "product_id", "store_id", "price"}); err != nil {
		return err
	}
	for _, l := range items {
		if err := w.Write([]string{
			strconv.FormatInt(l.ID, 10),
			strconv.FormatInt(l.ProductID, 10),
			strconv.FormatInt(l.StoreID, 10),
			strconv.FormatFloat(l.Price, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func create(outPath string) (*csv.Writer, func(), error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(f), func() { _ = f.Close() }, nil
}
