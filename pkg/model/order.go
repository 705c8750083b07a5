package model

import (
	"time"
)

type OrderStatus string

const (
	OrderDraft     OrderStatus = "DRAFT"     // the owner's working cart
	OrderFormed    OrderStatus = "FORMED"    // awaiting moderation
	OrderCompleted OrderStatus = "COMPLETED" // approved
	OrderCancelled OrderStatus = "CANCELLED" // rejected
	OrderDeleted   OrderStatus = "DELETED"   // soft-deleted, hidden everywhere
)

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderCompleted, OrderCancelled, OrderDeleted:
		return true
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderDraft, OrderFormed, OrderCompleted, OrderCancelled, OrderDeleted:
		return true
	}
	return false
}

// Order is the calculation request aggregate. The partial unique index keeps
// at most one DRAFT order per user so the "active cart" is a query, not state.
type Order struct {
	BaseModel
	UserID int64       `gorm:"not null;index:idx_calc_order_user_id;uniqueIndex:uniq_calc_order_active_draft,where:status = 'DRAFT'" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(16);not null;index:idx_calc_order_status" json:"status"`
	// TempResult stays NULL from approval until the async worker responds.
	TempResult  *float64   `gorm:"type:double precision" json:"temp_result"`
	Description *string    `gorm:"type:varchar(2000)" json:"description"`
	FormedAt    *time.Time `json:"formed_at"`
}

func (*Order) TableName() string { return "calc_order" }

// OrderLine holds one gas's parameters inside an order. Result is populated
// only by the async reconciliation path.
type OrderLine struct {
	BaseModel
	OrderID       int64    `gorm:"not null;uniqueIndex:uniq_gas_order_order_gas,priority:1;index:idx_gas_order_order_id" json:"order_id"`
	GasID         int64    `gorm:"not null;uniqueIndex:uniq_gas_order_order_gas,priority:2" json:"gas_id"`
	Concentration float64  `gorm:"not null;check:concentration >= 0 AND concentration <= 100" json:"concentration"`
	Temperature   float64  `gorm:"not null;check:temperature >= -273.15 AND temperature <= 1000" json:"temperature"`
	Result        *float64 `gorm:"type:double precision" json:"result"`
}

func (*OrderLine) TableName() string { return "gas_order" }
