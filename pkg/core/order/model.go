package order

import (
	"time"

	common "github.com/atmolab/gascalc/pkg/common"
	model "github.com/atmolab/gascalc/pkg/model"
)

// Default line parameters applied when a gas is dropped into the cart without
// explicit values.
const (
	DefaultConcentration = 1.0
	DefaultTemperature   = 15.0
)

type CartSummaryResp struct {
	// OrderID is nil when the caller has no active draft.
	OrderID *int64 `json:"order_id"`
	Count   int64  `json:"count"`
}

type LineResp struct {
	GasID         int64    `json:"gas_id"`
	Name          string   `json:"name"`
	Formula       string   `json:"formula"`
	Concentration float64  `json:"concentration"`
	Temperature   float64  `json:"temperature"`
	Result        *float64 `json:"result"`
}

type OrderResp struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Status      model.OrderStatus `json:"status"`
	TempResult  *float64          `json:"temp_result"`
	Description *string           `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	FormedAt    *time.Time        `json:"formed_at"`
	Lines       []*LineResp       `json:"lines"`
	// ResolvedLines counts lines whose async result has arrived.
	ResolvedLines int `json:"resolved_lines"`
}

type ListReq struct {
	common.PageReq

	Status     *model.OrderStatus `form:"status"`
	FormedFrom *time.Time         `form:"formed_from" time_format:"2006-01-02"`
	FormedTo   *time.Time         `form:"formed_to" time_format:"2006-01-02"`
}

type UpdateOrderReq struct {
	Description string `json:"description" binding:"required"`
}

type AddLineReq struct {
	GasID         int64   `json:"gas_id" binding:"required"`
	Concentration float64 `json:"concentration"`
	Temperature   float64 `json:"temperature"`
}

// UpdateLineReq carries partial updates; nil fields keep their current value.
type UpdateLineReq struct {
	Concentration *float64 `json:"concentration"`
	Temperature   *float64 `json:"temperature"`
}

type ModerateReq struct {
	Comment string `json:"comment"`
}

type PreviewResp struct {
	OrderID     int64   `json:"order_id"`
	Temperature float64 `json:"temperature"`
}

// AsyncResult is one worker result tuple. Field names are the worker's wire
// contract.
type AsyncResult struct {
	OrderID int64    `json:"orderId"`
	GasID   int64    `json:"gasId"`
	Result  *float64 `json:"result"`
}

type ReconcileReq struct {
	Results []*AsyncResult `json:"results" binding:"required"`
}

type ReconcileResp struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	// Orders counts distinct orders whose aggregate was recomputed.
	Orders int `json:"orders"`
}
