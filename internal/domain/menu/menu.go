package menu

// Item is one dish on the menu. FamilyPrice is zero when the dish has no
// family size of its own.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	FamilyPrice int    `json:"family_price,omitempty"`
	Category    string `json:"category"`
	Vegetarian  bool   `json:"vegetarian,omitempty"`
	Spicy       bool   `json:"spicy,omitempty"`
}

// Category groups menu items for display.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Catalog is the full menu, in display order.
var Catalog = []Category{
	{
		ID:   "vardagspizzor",
		Name: "Pizzor",
		Items: []Item{
			{ID: "v1", Name: "Margherita", Description: "Tomatsås, mozzarella, parmesan", Price: 100, FamilyPrice: 230, Category: "vardagspizzor", Vegetarian: true},
			{ID: "v2", Name: "Vesuvio", Description: "Skinka", Price: 110, FamilyPrice: 250, Category: "vardagspizzor"},
			{ID: "v3", Name: "Capricciosa", Description: "Skinka, champinjoner", Price: 115, FamilyPrice: 260, Category: "vardagspizzor"},
			{ID: "v4", Name: "Hawaii", Description: "Skinka, ananas", Price: 115, FamilyPrice: 260, Category: "vardagspizzor"},
			{ID: "v5", Name: "Calzone", Description: "Inbakad med skinka", Price: 110, Category: "vardagspizzor"},
		},
	},
	{
		ID:   "tacos-mexicana",
		Name: "Tacos / Mexicana & Köttpizzor",
		Items: []Item{
			{ID: "t1", Name: "Tacopizza", Description: "Tacokryddad nötfärs, tacosås, nachos, gräddfil", Price: 125, FamilyPrice: 280, Category: "tacos-mexicana", Spicy: true},
			{ID: "t2", Name: "Mexicana", Description: "Köttfärs, champinjoner, lök, vitlök, tacosås, jalapeño", Price: 125, FamilyPrice: 280, Category: "tacos-mexicana", Spicy: true},
			{ID: "t3", Name: "Oxfilé & Bearnaise", Description: "Oxfilé, béarnaisesås", Price: 130, FamilyPrice: 290, Category: "tacos-mexicana"},
			{ID: "t4", Name: "Oxfilé Special", Description: "Oxfilé, färska champinjoner, lök, färska tomater, bearnaisesås", Price: 130, FamilyPrice: 290, Category: "tacos-mexicana"},
			{ID: "t5", Name: "Acapulco", Description: "Oxfilé, champinjoner, lök, vitlök, tacosås, jalapeño", Price: 130, FamilyPrice: 290, Category: "tacos-mexicana", Spicy: true},
		},
	},
	{
		ID:   "kycklingpizzor",
		Name: "Kycklingpizzor",
		Items: []Item{
			{ID: "k1", Name: "Kycklingpizza", Description: "Kyckling, banan, curry, jordnötter, valfri sås", Price: 115, FamilyPrice: 260, Category: "kycklingpizzor"},
			{ID: "k2", Name: "Kycklingkebab", Description: "Kycklingkebab, valfri sås", Price: 115, FamilyPrice: 260, Category: "kycklingpizzor"},
			{ID: "k3", Name: "Kyckling & BBQ", Description: "Kyckling, BBQ-sås, rödlök", Price: 115, FamilyPrice: 260, Category: "kycklingpizzor"},
			{ID: "k4", Name: "Kyckling Pesto", Description: "Kyckling, grön pesto, marinerad skivade-tomater", Price: 115, FamilyPrice: 260, Category: "kycklingpizzor"},
		},
	},
	{
		ID:   "fisk-skaldjur",
		Name: "Fisk & Skaldjur",
		Items: []Item{
			{ID: "f1", Name: "Tonfiskpizza", Description: "Tonfisk, lök", Price: 110, FamilyPrice: 250, Category: "fisk-skaldjur"},
			{ID: "f2", Name: "Räkpizza", Description: "Räkor, musslor", Price: 120, FamilyPrice: 270, Category: "fisk-skaldjur"},
		},
	},
	{
		ID:   "kebab",
		Name: "Kebab & Rullar",
		Items: []Item{
			{ID: "kb1", Name: "Kebabpizza", Description: "Kebabkött, lök, feferoni, valfri sås", Price: 120, FamilyPrice: 270, Category: "kebab"},
			{ID: "kb2", Name: "Kebabrulle", Description: "Kebabkött, sallad, valfri sås", Price: 110, Category: "kebab"},
		},
	},
}

// Find looks an item up by id across all categories.
func Find(id string) (Item, bool) {
	for _, cat := range Catalog {
		for _, item := range cat.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}
