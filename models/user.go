package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"unique;not null" json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `gorm:"type:varchar(20);default:'customer'" json:"role"`
	FirstName    string  `gorm:"not null" json:"first_name"`
	LastName     string  `gorm:"not null" json:"last_name"`
	Phone        string  `json:"phone"`
	Address      Address `gorm:"embedded;embeddedPrefix:address_" json:"address"` // default shipping address
	Cart         Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders       []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is embedded both in User (default address) and in Order
// (shipping snapshot).
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}
