package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/cases"

	"shopcatalog/pkg/models"
)

type ProductSource interface {
	ListWithCategoryAndSubcategory(ctx context.Context) ([]models.ProductWithCategoryAndSubcategory, error)
}

type Seeder interface {
	SeedIfEmpty(ctx context.Context) (bool, error)
}

// Snapshot is what observers of the controller see.
type Snapshot struct {
	Seq      uint64                                     `json:"seq"`
	Query    string                                     `json:"query"`
	Products []models.ProductWithCategoryAndSubcategory `json:"products"`
	At       time.Time                                  `json:"at"`
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithWorkers bounds how many storage calls the controller runs at once.
func WithWorkers(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.workers = int64(n)
		}
	}
}

// Controller owns the published product list. Every load takes a sequence
// number when it is issued; a result is dropped if a later-issued load has
// already published, so the most recently issued call always wins.
type Controller struct {
	source ProductSource
	seeder Seeder
	log    *zap.Logger

	workers int64
	io      *semaphore.Weighted
	state   *State[Snapshot]

	issued    atomic.Uint64
	mu        sync.Mutex
	published uint64
}

// NewController seeds the store if it is empty and loads every product.
// It returns the controller even on error so callers can still observe it;
// the published state stays empty in that case.
func NewController(ctx context.Context, source ProductSource, seeder Seeder, opts ...Option) (*Controller, error) {
	c := &Controller{
		source:  source,
		seeder:  seeder,
		log:     zap.NewNop(),
		workers: 4,
		state:   NewState(Snapshot{Products: []models.ProductWithCategoryAndSubcategory{}}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("catalog")
	c.io = semaphore.NewWeighted(c.workers)

	return c, c.initialize(ctx)
}

func (c *Controller) initialize(ctx context.Context) error {
	if c.seeder != nil {
		seeded, err := c.seeder.SeedIfEmpty(ctx)
		if err != nil {
			c.log.Error("seed failed", zap.Error(err))
			return fmt.Errorf("initialize: %w", err)
		}
		if seeded {
			c.log.Info("seeded empty catalog")
		}
	}
	if err := c.ReloadAll(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// Products exposes the published state to observers.
func (c *Controller) Products() Observable[Snapshot] {
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	return c.state.Value()
}

// ReloadAll replaces the published list with every product.
func (c *Controller) ReloadAll(ctx context.Context) error {
	seq := c.issued.Add(1)
	rows, err := c.load(ctx)
	if err != nil {
		c.log.Error("reload failed", zap.Uint64("seq", seq), zap.Error(err))
		return fmt.Errorf("reload products: %w", err)
	}
	c.log.Debug("reloaded products", zap.Uint64("seq", seq), zap.Int("count", len(rows)))
	c.publish(seq, "", rows)
	return nil
}

// Search replaces the published list with the products whose name contains
// query, ignoring case. An empty query matches every product.
func (c *Controller) Search(ctx context.Context, query string) error {
	seq := c.issued.Add(1)
	rows, err := c.load(ctx)
	if err != nil {
		c.log.Error("search failed", zap.Uint64("seq", seq), zap.String("query", query), zap.Error(err))
		return fmt.Errorf("search products: %w", err)
	}
	filtered := FilterByName(rows, query)
	c.log.Debug("searched products",
		zap.Uint64("seq", seq),
		zap.String("query", query),
		zap.Int("matched", len(filtered)),
	)
	c.publish(seq, query, filtered)
	return nil
}

func (c *Controller) load(ctx context.Context) ([]models.ProductWithCategoryAndSubcategory, error) {
	if err := c.io.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.io.Release(1)
	return c.source.ListWithCategoryAndSubcategory(ctx)
}

// publish reports whether rows became the visible state.
func (c *Controller) publish(seq uint64, query string, rows []models.ProductWithCategoryAndSubcategory) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.published {
		c.log.Debug("dropping superseded result", zap.Uint64("seq", seq), zap.Uint64("published", c.published))
		return false
	}
	c.published = seq
	c.state.Set(Snapshot{Seq: seq, Query: query, Products: rows, At: time.Now()})
	return true
}

// FilterByName keeps rows whose product name contains query under Unicode
// case folding. The input order is preserved.
func FilterByName(rows []models.ProductWithCategoryAndSubcategory, query string) []models.ProductWithCategoryAndSubcategory {
	out := make([]models.ProductWithCategoryAndSubcategory, 0, len(rows))
	if query == "" {
		return append(out, rows...)
	}
	fold := cases.Fold() // a Caser is stateful, one per call
	needle := fold.String(query)
	for _, r := range rows {
		if strings.Contains(fold.String(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}
