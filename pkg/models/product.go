package models

type Product struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	SubcategoryID int64   `db:"subcategory_id" json:"subcategory_id"`
	Price         float64 `db:"price" json:"price"`
	ImageRef      string  `db:"image_ref" json:"image_ref,omitempty"`
}

// ProductWithCategoryAndSubcategory is a product annotated with the names of
// its parent subcategory and grandparent category. Computed at query time.
type ProductWithCategoryAndSubcategory struct {
	Product
	SubcategoryName string `db:"subcategory_name" json:"subcategory_name"`
	CategoryID      int64  `db:"category_id" json:"category_id"`
	CategoryName    string `db:"category_name" json:"category_name"`
}
