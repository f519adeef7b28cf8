package catalog_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shopcatalog/internal/catalog"
	"shopcatalog/internal/category"
	"shopcatalog/internal/dbtest"
	"shopcatalog/internal/listing"
	"shopcatalog/internal/product"
	"shopcatalog/internal/seed"
	"shopcatalog/internal/subcategory"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/models"
)

func row(id int64, name string) models.ProductWithCategoryAndSubcategory {
	return models.ProductWithCategoryAndSubcategory{
		Product:         models.Product{ID: id, Name: name, SubcategoryID: 1, Price: 1},
		SubcategoryName: "Fruits",
		CategoryID:      1,
		CategoryName:    "Organic",
	}
}

var fruitRows = []models.ProductWithCategoryAndSubcategory{
	row(1, "Apples"),
	row(2, "apple juice"),
	row(3, "Bananas"),
	row(4, "Pineapple"),
}

// fakeSource serves rows, or err when set. With gated set, every call
// hands a release channel to entered and blocks until it is closed.
type fakeSource struct {
	mu    sync.Mutex
	rows  []models.ProductWithCategoryAndSubcategory
	err   error
	calls atomic.Int32

	gated   atomic.Bool
	entered chan chan struct{}
}

func newFakeSource(rows []models.ProductWithCategoryAndSubcategory) *fakeSource {
	return &fakeSource{rows: rows, entered: make(chan chan struct{})}
}

func (f *fakeSource) ListWithCategoryAndSubcategory(ctx context.Context) ([]models.ProductWithCategoryAndSubcategory, error) {
	f.calls.Add(1)
	if f.gated.Load() {
		release := make(chan struct{})
		f.entered <- release
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.ProductWithCategoryAndSubcategory(nil), f.rows...), nil
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeSeeder struct {
	calls int
	err   error
}

func (f *fakeSeeder) SeedIfEmpty(context.Context) (bool, error) {
	f.calls++
	return f.err == nil, f.err
}

func names(rows []models.ProductWithCategoryAndSubcategory) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewControllerSeedsThenLoads(t *testing.T) {
	src := newFakeSource(fruitRows)
	seeder := &fakeSeeder{}

	c, err := catalog.NewController(context.Background(), src, seeder)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if seeder.calls != 1 {
		t.Errorf("seeder called %d times", seeder.calls)
	}
	snap := c.Snapshot()
	if len(snap.Products) != len(fruitRows) || snap.Query != "" || snap.Seq == 0 {
		t.Errorf("unexpected initial snapshot: %+v", snap)
	}
}

func TestNewControllerSeedFailure(t *testing.T) {
	src := newFakeSource(fruitRows)
	seedErr := &database.StorageError{Op: "count categories", Kind: database.ErrStorageUnavailable}

	c, err := catalog.NewController(context.Background(), src, &fakeSeeder{err: seedErr})
	if !errors.Is(err, database.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if c == nil {
		t.Fatal("controller should still be returned")
	}
	if src.calls.Load() != 0 {
		t.Errorf("products loaded despite seed failure")
	}
	if snap := c.Snapshot(); len(snap.Products) != 0 || snap.Products == nil {
		t.Errorf("state should stay empty, got %+v", snap)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c, err := catalog.NewController(ctx, newFakeSource(fruitRows), nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	cases := []struct {
		query string
		want  []string
	}{
		{"apple", []string{"Apples", "apple juice", "Pineapple"}},
		{"APPLES", []string{"Apples"}},
		{"", []string{"Apples", "apple juice", "Bananas", "Pineapple"}},
		{"kiwi", []string{}},
	}
	for _, tc := range cases {
		if err := c.Search(ctx, tc.query); err != nil {
			t.Fatalf("Search(%q): %v", tc.query, err)
		}
		snap := c.Snapshot()
		if got := names(snap.Products); !equal(got, tc.want) {
			t.Errorf("Search(%q) = %v, want %v", tc.query, got, tc.want)
		}
		if snap.Query != tc.query {
			t.Errorf("snapshot query = %q, want %q", snap.Query, tc.query)
		}
	}

	if err := c.ReloadAll(ctx); err != nil {
		t.Fatalf("ReloadAll: %v", err)
	}
	if got := len(c.Snapshot().Products); got != len(fruitRows) {
		t.Errorf("ReloadAll published %d rows", got)
	}
}

func TestFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(fruitRows)
	c, err := catalog.NewController(ctx, src, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.Search(ctx, "banana"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	before := c.Snapshot()

	src.fail(&database.StorageError{Op: "list products", Kind: database.ErrQueryFailure})

	if err := c.Search(ctx, "apple"); !errors.Is(err, database.ErrQueryFailure) {
		t.Errorf("Search error = %v", err)
	}
	if err := c.ReloadAll(ctx); !errors.Is(err, database.ErrQueryFailure) {
		t.Errorf("ReloadAll error = %v", err)
	}

	after := c.Snapshot()
	if after.Seq != before.Seq || after.Query != "banana" || !equal(names(after.Products), []string{"Bananas"}) {
		t.Errorf("state changed on failure: before %+v, after %+v", before, after)
	}
}

func TestLatestIssuedCallWins(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(fruitRows)
	c, err := catalog.NewController(ctx, src, nil, catalog.WithWorkers(2))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	src.gated.Store(true)

	errA := make(chan error, 1)
	go func() { errA <- c.Search(ctx, "banana") }()
	releaseA := <-src.entered

	errB := make(chan error, 1)
	go func() { errB <- c.Search(ctx, "apple") }()
	releaseB := <-src.entered

	// the later call finishes first
	close(releaseB)
	if err := <-errB; err != nil {
		t.Fatalf("search apple: %v", err)
	}
	if got := c.Snapshot().Query; got != "apple" {
		t.Fatalf("after apple: query = %q", got)
	}

	// the stale call completes afterwards and must not overwrite
	close(releaseA)
	if err := <-errA; err != nil {
		t.Fatalf("search banana: %v", err)
	}
	snap := c.Snapshot()
	if snap.Query != "apple" || !equal(names(snap.Products), []string{"Apples", "apple juice", "Pineapple"}) {
		t.Errorf("stale result published: %+v", snap)
	}
}

func TestFailedLatestCallDoesNotSupersede(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(fruitRows)
	c, err := catalog.NewController(ctx, src, nil, catalog.WithWorkers(2))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	src.gated.Store(true)

	errA := make(chan error, 1)
	go func() { errA <- c.Search(ctx, "banana") }()
	releaseA := <-src.entered

	// the later call fails; it publishes nothing and leaves the sequence open
	cctx, cancel := context.WithCancel(ctx)
	errB := make(chan error, 1)
	go func() { errB <- c.Search(cctx, "apple") }()
	<-src.entered
	cancel()
	if err := <-errB; !errors.Is(err, context.Canceled) {
		t.Fatalf("search apple: %v", err)
	}

	close(releaseA)
	if err := <-errA; err != nil {
		t.Fatalf("search banana: %v", err)
	}
	snap := c.Snapshot()
	if snap.Query != "banana" || !equal(names(snap.Products), []string{"Bananas"}) {
		t.Errorf("earlier successful call should publish after a failed later one: %+v", snap)
	}
}

func TestSubscribersSeeUpdates(t *testing.T) {
	ctx := context.Background()
	c, err := catalog.NewController(ctx, newFakeSource(fruitRows), nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	ch, cancel := c.Products().Subscribe()
	defer cancel()

	first := <-ch
	if len(first.Products) != len(fruitRows) {
		t.Fatalf("replayed snapshot has %d rows", len(first.Products))
	}

	if err := c.Search(ctx, "bananas"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	select {
	case snap := <-ch:
		if snap.Query != "bananas" || len(snap.Products) != 1 || snap.Seq <= first.Seq {
			t.Errorf("unexpected update: %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestControllerOverSeededStore(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	products := product.NewRepo(db)
	loader := seed.NewLoader(category.NewRepo(db), subcategory.NewRepo(db), products, listing.NewRepo(db), nil)

	c, err := catalog.NewController(ctx, products, loader)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	_, _, want := seed.Totals()
	if got := len(c.Snapshot().Products); got != want {
		t.Errorf("initial snapshot has %d products, want %d", got, want)
	}

	if err := c.Search(ctx, "samsung"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	got := names(c.Snapshot().Products)
	if !equal(got, []string{"Samsung 55\" TV", "Samsung Fridge"}) {
		t.Errorf("samsung search = %v", got)
	}

	// a second controller over the same store does not seed again
	if _, err := catalog.NewController(ctx, products, loader); err != nil {
		t.Fatalf("second NewController: %v", err)
	}
	if n, _ := products.Count(ctx); n != want {
		t.Errorf("product count = %d after second initialize", n)
	}

	_ = db.Close()
	if err := c.ReloadAll(ctx); !errors.Is(err, database.ErrStorageUnavailable) {
		t.Errorf("reload on closed store: %v", err)
	}
	if got := len(c.Snapshot().Products); got != 2 {
		t.Errorf("state changed after failed reload: %d rows", got)
	}
}

func TestFilterByNameFoldsUnicode(t *testing.T) {
	rows := []models.ProductWithCategoryAndSubcategory{row(1, "Brot"), row(2, "ÄPFEL"), row(3, "Birnen")}

	if got := names(catalog.FilterByName(rows, "äpfel")); !equal(got, []string{"ÄPFEL"}) {
		t.Errorf("äpfel matched %v", got)
	}
	if got := names(catalog.FilterByName(rows, "bIrNeN")); !equal(got, []string{"Birnen"}) {
		t.Errorf("bIrNeN matched %v", got)
	}
	if got := catalog.FilterByName(rows, ""); len(got) != 3 {
		t.Errorf("empty query kept %d rows", len(got))
	}
}
