package model

import (
	"encoding/json"
	"time"
)

// OrderStatus is the order state. The lifecycle is a flat set: any
// status may be set from any other, including re-setting the same
// value; admin override is the intended use.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderProcessed OrderStatus = "PROCESSED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the four order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is one checkout line, captured as a snapshot at order time.
// Later product edits never change it.
type OrderItem struct {
	Nama  string `json:"nama"`
	Harga int    `json:"harga"`
	Qty   int    `json:"qty"`
}

// Order is a customer checkout. Items holds the serialized line-item
// snapshot; Total is the amount as submitted by the client while
// ComputedTotal is the server-side sum of the snapshot, kept for audit.
// Orders are never deleted; only Status changes after creation.
type Order struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	NamaPelanggan string      `json:"namaPelanggan" gorm:"type:varchar(255);not null"`
	NoHp          string      `json:"noHp" gorm:"column:no_hp;type:varchar(64);not null"`
	Alamat        string      `json:"alamat" gorm:"type:text;not null"`
	Items         string      `json:"items" gorm:"type:text"`
	Total         int         `json:"total" gorm:"not null"`
	ComputedTotal int         `json:"computedTotal" gorm:"not null;default:0"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"-"`
}

func (Order) TableName() string { return "orders" }

// LineItems decodes the items snapshot. A malformed or empty snapshot
// yields an empty slice, never an error, mirroring how the chatbot and
// panel render orders.
func (o *Order) LineItems() []OrderItem {
	var items []OrderItem
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return nil
	}
	return items
}
