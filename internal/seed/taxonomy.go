package seed

type productSeed struct {
	Name     string
	Price    float64
	ImageRef string
}

type subcategorySeed struct {
	Name     string
	Products []productSeed
}

type categorySeed struct {
	Name          string
	Subcategories []subcategorySeed
}

type listingSeed struct {
	Product string
	Store   string
	Price   float64
}

type storeSeed struct {
	Name       string
	WebsiteURL string
}

// Taxonomy is inserted in slice order, so ids follow this layout.
var Taxonomy = []categorySeed{
	{Name: "Electronics", Subcategories: []subcategorySeed{
		{Name: "Televisions", Products: []productSeed{{"Samsung 55\" TV", 599.99, "test_tv"}}},
		{Name: "Fridges", Products: []productSeed{{"Samsung Fridge", 799.99, "test_fridge"}}},
		{Name: "Blenders", Products: []productSeed{{"Ramtons Blender", 49.99, "test_blender"}}},
		{Name: "Washing Machines", Products: []productSeed{{"Hisense 10.5 kgs", 949.99, "test_washm"}}},
	}},
	{Name: "Pastries", Subcategories: []subcategorySeed{
		{Name: "Bread", Products: []productSeed{{"Festive Bread", 5.99, "test_bread"}}},
		{Name: "Cake", Products: []productSeed{{"Chocolate Cake", 12.99, "test_cake"}}},
	}},
	{Name: "Detergents", Subcategories: []subcategorySeed{
		{Name: "Laundry", Products: []productSeed{{"Ultra Concentrated Laundry Soap", 30.99, "test_laundry"}}},
		{Name: "Dish Soap", Products: []productSeed{{"Cadia dish soap", 25.99, "test_dish"}}},
		{Name: "Bleaching Agents", Products: []productSeed{{"Concentrated Bleach", 40.99, "test_bleach"}}},
	}},
	{Name: "Drinks", Subcategories: []subcategorySeed{
		// Brookside Milk sits under Milk here, not under Soda.
		{Name: "Milk", Products: []productSeed{{"Brookside Milk", 15.99, "test_milk"}}},
		{Name: "Soda", Products: []productSeed{{"Canned Soda", 15.99, "test_soda"}}},
		{Name: "Water", Products: []productSeed{{"Water", 10.99, "test_water"}}},
	}},
	{Name: "Beauty", Subcategories: []subcategorySeed{
		{Name: "Skin Care", Products: []productSeed{{"Eucerin Sunscreen", 60.99, "test_skin"}}},
		{Name: "Make Up", Products: []productSeed{{"Fenti Lipstick", 85.99, "test_makeup"}}},
	}},
	{Name: "Organic", Subcategories: []subcategorySeed{
		{Name: "Fruits", Products: []productSeed{{"Apples", 15.99, "test_fruit"}}},
		{Name: "Vegetables", Products: []productSeed{{"Clustered Veggies", 13.99, "test_veggies"}}},
	}},
	{Name: "Cereals", Subcategories: []subcategorySeed{
		{Name: "Rice", Products: []productSeed{{"Dawaat Basmati Rice", 100.00, "test_rice"}}},
		{Name: "Maize", Products: []productSeed{{"Pembe 2kg Maize Flour", 80.00, "test_maize"}}},
		// the older layout named this one "Rice" a second time
		{Name: "Wheat", Products: []productSeed{{"EXE 2kgs All-purpose Flour", 150.00, "test_wheat"}}},
	}},
}

var Stores = []storeSeed{
	{Name: "CityStore", WebsiteURL: "https://citystore.example.com"},
	{Name: "SkySoko", WebsiteURL: "https://skysoko.example.com"},
	{Name: "MegaMart", WebsiteURL: "https://megamart.example.com"},
}

// Listings reference products and stores by name.
var Listings = []listingSeed{
	{Product: "Samsung Fridge", Store: "SkySoko", Price: 58500},
	{Product: "Samsung Fridge", Store: "CityStore", Price: 57999},
	{Product: "Samsung Fridge", Store: "MegaMart", Price: 60000},
	{Product: "Samsung 55\" TV", Store: "CityStore", Price: 64999},
	{Product: "Samsung 55\" TV", Store: "MegaMart", Price: 62500},
}

// Totals of the fixed taxonomy, handy for callers checking a seeded store.
func Totals() (categories, subcategories, products int) {
	for _, c := range Taxonomy {
		categories++
		for _, s := range c.Subcategories {
			subcategories++
			products += len(s.Products)
		}
	}
	return
}
