package models

import "time"

// User is a registered customer (table klant). Email is stored trimmed and
// lowercased; the unique index is the final guard against duplicates.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"column:naam;size:255;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

func (User) TableName() string { return "klant" }

// Profile holds optional contact details, one row per user (table klantinformatie).
type Profile struct {
	ID      uint    `gorm:"primaryKey" json:"-"`
	UserID  uint    `gorm:"column:klant_id;uniqueIndex;not null" json:"-"`
	Address *string `gorm:"column:adres;size:255" json:"address"`
	Phone   *string `gorm:"column:telefoonnummer;size:30" json:"phone"`
	User    *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Profile) TableName() string { return "klantinformatie" }

// ProfileView is a user joined with its profile row.
type ProfileView struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}
