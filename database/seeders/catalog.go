package seeders

import (
	"fmt"

	"github.com/freshchoice/storefront/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("allergenen", SeedAllergens)
	Register("product", SeedProducts)
}

// Allergens is the fixed list of the fourteen EU allergen groups, in seed order.
var Allergens = []string{
	"glutenbevattende granen",
	"schaaldieren",
	"ei",
	"vis",
	"pinda",
	"soja",
	"melk (inclusief lactose)",
	"noten",
	"selderij",
	"mosterd",
	"sesamzaad",
	"sulfiet",
	"lupine",
	"weekdieren",
}

type productSeed struct {
	name     string
	cents    int64
	allergen string
}

var products = []productSeed{
	{name: "Brood", cents: 275, allergen: "glutenbevattende granen"},
	{name: "Kaas", cents: 350, allergen: "melk (inclusief lactose)"},
	{name: "Noten", cents: 425, allergen: "noten"},
}

func SeedAllergens(db *gorm.DB) error {
	for _, name := range Allergens {
		a := models.Allergen{Name: name}
		if err := db.Where(models.Allergen{Name: name}).FirstOrCreate(&a).Error; err != nil {
			return fmt.Errorf("allergen %q: %w", name, err)
		}
	}
	return nil
}

func SeedProducts(db *gorm.DB) error {
	for _, p := range products {
		var allergen models.Allergen
		if err := db.Where("naam = ?", p.allergen).Take(&allergen).Error; err != nil {
			return fmt.Errorf("product %q: allergen %q: %w", p.name, p.allergen, err)
		}

		row := models.Product{Name: p.name}
		err := db.Where("naam = ?", p.name).
			Assign(models.Product{Price: models.Cents(p.cents), AllergenID: &allergen.ID}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("product %q: %w", p.name, err)
		}
	}
	return nil
}
