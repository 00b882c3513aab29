package model

import (
	"time"

	"gorm.io/gorm"
)

// DefaultPersenBagi is the revenue share a mitra gets when none is given.
const DefaultPersenBagi = 90

// Mitra is a reseller partner. NoHp doubles as the WhatsApp chat
// identifier used for notifications and broadcast messages.
type Mitra struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	Nama       string         `json:"nama" gorm:"type:varchar(255);not null"`
	NoHp       string         `json:"noHp" gorm:"column:no_hp;type:varchar(64);not null;index"`
	Alamat     string         `json:"alamat" gorm:"type:text"`
	PersenBagi int            `json:"persenBagi" gorm:"default:90"` // revenue share, 1-100
	Products   []Product      `json:"products,omitempty" gorm:"foreignKey:MitraID"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Mitra) TableName() string { return "mitra" }
