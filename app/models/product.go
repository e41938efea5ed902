package models

// Product is a catalog entry (table product). AllergenName is filled by the
// catalog query's join and never written.
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"column:naam;size:255;not null" json:"name"`
	Price        Money     `gorm:"column:prijs_cent;not null;default:0" json:"price"`
	AllergenID   *uint     `gorm:"column:allergeen_id" json:"allergen_id"`
	AllergenName *string   `gorm:"column:allergen_name;->;-:migration" json:"allergen_name"`
	Allergen     *Allergen `gorm:"foreignKey:AllergenID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Product) TableName() string { return "product" }
