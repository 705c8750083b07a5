package repo

import (
	"context"
	"time"

	model "github.com/atmolab/gascalc/pkg/model"
)

// OrderQuery filters the order listing. DELETED rows are always excluded.
type OrderQuery struct {
	UserID     *int64
	Status     *model.OrderStatus
	FormedFrom *time.Time
	FormedTo   *time.Time
	Offset     int
	Limit      int
}

type OrderRepo interface {
	BaseDB

	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	// GetOrderForUpdate locks the order row; only meaningful inside ExecTx.
	GetOrderForUpdate(ctx context.Context, id int64) (*model.Order, error)
	// FindActiveDraft returns the user's DRAFT order or code.RecordNotFound.
	FindActiveDraft(ctx context.Context, userID int64) (*model.Order, error)
	UpdateOrder(ctx context.Context, id int64, updates map[string]any) error
	ListOrders(ctx context.Context, q OrderQuery) ([]*model.Order, int64, error)

	// CreateLine inserts a line; the (order_id, gas_id) unique index turns a
	// duplicate into a no-op. Returns false when the row already existed.
	CreateLine(ctx context.Context, line *model.OrderLine) (bool, error)
	GetLine(ctx context.Context, orderID, gasID int64) (*model.OrderLine, error)
	ListLines(ctx context.Context, orderID int64) ([]*model.OrderLine, error)
	CountLines(ctx context.Context, orderID int64) (int64, error)
	UpdateLine(ctx context.Context, orderID, gasID int64, updates map[string]any) error
	// DeleteLine removes the line and reports how many rows went away.
	DeleteLine(ctx context.Context, orderID, gasID int64) (int64, error)
	// SetLineResult overwrites the async result; returns affected row count so
	// reconciliation can tell matched tuples from unmatched ones.
	SetLineResult(ctx context.Context, orderID, gasID int64, result float64) (int64, error)
}
