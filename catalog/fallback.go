package catalog

import "brewhaus/models"

// FallbackMenu is served when the admin API is unreachable and no cached
// menu exists. Legacy numeric ids on purpose; the admin copies carry
// remote ids.
var FallbackMenu = []models.CatalogItem{
	{LegacyID: 1, Name: "Espresso", Description: "Double shot, house blend", Price: 3.50, Category: "coffee", Rating: 4.8, IsPopular: true, PrepTime: 3, Calories: 5},
	{LegacyID: 2, Name: "Cappuccino", Description: "Espresso with steamed milk and foam", Price: 4.25, Category: "coffee", Rating: 4.7, IsPopular: true, PrepTime: 5, Calories: 120},
	{LegacyID: 3, Name: "Flat White", Description: "Velvety microfoam over a double ristretto", Price: 4.50, Category: "coffee", Rating: 4.6, PrepTime: 5, Calories: 110},
	{LegacyID: 4, Name: "Cold Brew", Description: "18-hour steep, served over ice", Price: 4.75, Category: "coffee", Rating: 4.5, IsNew: true, IsVegan: true, PrepTime: 2, Calories: 15},
	{LegacyID: 5, Name: "Matcha Latte", Description: "Ceremonial grade matcha, oat milk", Price: 5.25, Category: "tea", Rating: 4.4, IsVegan: true, PrepTime: 4, Calories: 180},
	{LegacyID: 6, Name: "Chai Latte", Description: "Spiced black tea with steamed milk", Price: 4.75, Category: "tea", Rating: 4.3, PrepTime: 4, Calories: 200},
	{LegacyID: 7, Name: "Butter Croissant", Description: "Baked every morning", Price: 3.75, Category: "pastry", Rating: 4.6, PrepTime: 1, Calories: 280},
	{LegacyID: 8, Name: "Almond Biscotti", Description: "Twice baked, gluten free", Price: 2.95, Category: "pastry", Rating: 4.2, IsGlutenFree: true, PrepTime: 1, Calories: 150},
	{LegacyID: 9, Name: "Avocado Toast", Description: "Sourdough, chili flakes, lemon", Price: 8.50, Category: "food", Rating: 4.5, IsVegan: true, PrepTime: 8, Calories: 350},
}

// FallbackSignatureDrinks highlights the drinks the home page features.
var FallbackSignatureDrinks = []models.CatalogItem{
	FallbackMenu[0],
	FallbackMenu[3],
	FallbackMenu[4],
}

var FallbackAbout = map[string]any{
	"title": "About Brewhaus",
	"story": "A neighborhood roastery pouring single-origin coffee since 2015.",
	"hours": map[string]string{
		"monFri": "7:00–19:00",
		"satSun": "8:00–18:00",
	},
}

var FallbackContact = map[string]any{
	"address": "12 Bean Street",
	"phone":   "555-0100",
	"email":   "hello@brewhaus.example",
}

var FallbackHomeContent = map[string]any{
	"headline":    "Slow coffee, fast smiles",
	"subheadline": "Order ahead, skip the line.",
}

var FallbackDisplaySettings = map[string]any{
	"theme":        "warm",
	"showFacts":    true,
	"currency":     "USD",
	"taxRateLabel": "8% sales tax",
}

var FallbackHighlightCards = []map[string]any{
	{"title": "Roasted in house", "body": "Beans roasted every Tuesday in the back room."},
	{"title": "Order ahead", "body": "Your cup is waiting when you walk in."},
}

var FallbackCoffeeHistory = []map[string]any{
	{"year": "850", "event": "Legend places the first coffee cherries in the Ethiopian highlands."},
	{"year": "1652", "event": "London's first coffee house opens."},
	{"year": "1901", "event": "The first espresso machine is patented in Milan."},
}

var FallbackCoffeeFacts = []string{
	"Espresso has less caffeine per serving than drip coffee.",
	"Coffee is the world's second most traded commodity.",
	"A coffee tree takes about five years to bear fruit.",
}
