package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopcatalog/internal/category"
	"shopcatalog/internal/listing"
	"shopcatalog/internal/product"
	"shopcatalog/internal/seed"
	"shopcatalog/internal/subcategory"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := utils.LoadConfig()

	log := logger.Must(cfg.Logger)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg, log)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	categories := category.NewRepo(db)
	products := product.NewRepo(db)
	loader := seed.NewLoader(categories, subcategory.NewRepo(db), products, listing.NewRepo(db), log)

	seeded, err := loader.SeedIfEmpty(ctx)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	nCat, err := categories.Count(ctx)
	if err != nil {
		log.Fatal("count categories failed", zap.Error(err))
	}
	nProd, err := products.Count(ctx)
	if err != nil {
		log.Fatal("count products failed", zap.Error(err))
	}

	log.Info("seed finished",
		zap.Bool("inserted", seeded),
		zap.Int("categories", nCat),
		zap.Int("products", nProd),
		zap.String("db", dbCfg.Path),
	)
}
