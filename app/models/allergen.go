package models

// Allergen is one of the fixed allergen categories (table allergenen).
type Allergen struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:naam;uniqueIndex;size:255;not null" json:"name"`
}

func (Allergen) TableName() string { return "allergenen" }

// UserAllergen links a user to a declared allergen (table klant_allergenen).
type UserAllergen struct {
	UserID     uint      `gorm:"column:klant_id;primaryKey;autoIncrement:false"`
	AllergenID uint      `gorm:"column:allergeen_id;primaryKey;autoIncrement:false"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Allergen   *Allergen `gorm:"foreignKey:AllergenID;constraint:OnDelete:CASCADE"`
}

func (UserAllergen) TableName() string { return "klant_allergenen" }
