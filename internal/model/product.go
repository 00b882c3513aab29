package model

import (
	"time"

	"gorm.io/gorm"
)

// Product is one catalog entry. JSON field names follow the storefront
// API contract (Indonesian, camelCase) consumed by the web frontend.
type Product struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	Nama      string `json:"nama" gorm:"type:varchar(255);not null"`
	Harga     int    `json:"harga" gorm:"not null"` // smallest currency unit (IDR)
	Deskripsi string `json:"deskripsi" gorm:"type:text"`
	Kategori  string `json:"kategori" gorm:"type:varchar(100);not null;index"`
	ImageURL  string `json:"imageUrl" gorm:"column:image_url;type:varchar(512)"`
	Stok      int    `json:"stok" gorm:"default:0"`
	// IsUnlimited marks a pre-order product: stock is ignored and never
	// decremented, quantity checks do not apply.
	IsUnlimited bool           `json:"isUnlimited" gorm:"default:false"`
	MitraID     *uint          `json:"mitraId" gorm:"index"`
	Mitra       *Mitra         `json:"mitra,omitempty" gorm:"foreignKey:MitraID"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Product) TableName() string { return "products" }
