package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"shopcatalog/internal/listing"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/models"
)

// Each row goes through the repo on its own; a bad row stops the import
// and leaves earlier rows in place.
func main() {
	var (
		storesIn   = flag.String("stores", "data/stores.csv", "input CSV path for stores (id,name,website_url)")
		listingsIn = flag.String("listings", "data/listings.csv", "input CSV path for listings (id,product_id,store_id,price)")
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

	repo := listing.NewRepo(db)

	nStores, err := importStores(ctx, repo, *storesIn)
	if err != nil {
		log.Fatalf("import stores failed: %v", err)
	}
	nListings, err := importListings(ctx, repo, *listingsIn)
	if err != nil {
		log.Fatalf("import listings failed: %v", err)
	}

	log.Printf("✅ imported %d stores from %s and %d listings from %s", nStores, *storesIn, nListings, *listingsIn)
}

func importStores(ctx context.Context, repo *listing.Repo, path string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, row := range rows {
		name := valueAt(header, row, "name")
		if name == "" {
			continue
		}
		id, err := parseID(valueAt(header, row, "id"))
		if err != nil {
			return n, fmt.Errorf("parse id for store %q: %w", name, err)
		}
		s := models.Store{ID: id, Name: name, WebsiteURL: valueAt(header, row, "website_url")}
		if _, err := repo.InsertStore(ctx, s); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func importListings(ctx context.Context, repo *listing.Repo, path string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	n := 0
	for i, row := range rows {
		id, err := parseID(valueAt(header, row, "id"))
		if err != nil {
			return n, fmt.Errorf("row %d: parse id: %w", i+2, err)
		}
		productID, err := parseID(valueAt(header, row, "product_id"))
		if err != nil || productID == 0 {
			return n, fmt.Errorf("row %d: product_id required", i+2)
		}
		storeID, err := parseID(valueAt(header, row, "store_id"))
		if err != nil || storeID == 0 {
			return n, fmt.Errorf("row %d: store_id required", i+2)
		}
		price, err := strconv.ParseFloat(valueAt(header, row, "price"), 64)
		if err != nil {
			return n, fmt.Errorf("row %d: parse price: %w", i+2, err)
		}

		l := models.ProductListing{ID: id, ProductID: productID, StoreID: storeID, Price: price}
		if _, err := repo.InsertListing(ctx, l); err != nil {
			return n, fmt.Errorf("row %d: %w", i+2, err)
		}
		n++
	}
	return n, nil
}

func readCSV(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseID treats an empty cell as "let the store assign one".
func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
