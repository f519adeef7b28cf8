package models

type Store struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	WebsiteURL string `db:"website_url" json:"website_url"`
}

// ProductListing is one store's advertised price for a product.
type ProductListing struct {
	ID        int64   `db:"id" json:"id"`
	ProductID int64   `db:"product_id" json:"product_id"`
	StoreID   int64   `db:"store_id" json:"store_id"`
	Price     float64 `db:"price" json:"price"`
}

type StorePriceListing struct {
	Price      float64 `db:"price" json:"price"`
	StoreName  string  `db:"store_name" json:"store_name"`
	WebsiteURL string  `db:"website_url" json:"website_url"`
}
