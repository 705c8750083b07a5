package order

import (
	"context"

	common "github.com/atmolab/gascalc/pkg/common"
)

// Service drives the order lifecycle: the per-user draft cart, the state
// machine over DRAFT/FORMED/COMPLETED/CANCELLED/DELETED, temperature
// aggregation and the async result reconciliation.
//
// All methods accept context.Context; the web layer passes *gin.Context
// through so implementations can resolve the current user.
type Service interface {
	// AddToCart puts a gas into the caller's active DRAFT order with default
	// parameters, creating the order lazily. Adding a gas already in the cart
	// is a no-op.
	AddToCart(ctx context.Context, gasID int64) (*CartSummaryResp, error)
	// RemoveFromCart drops a gas from the caller's active DRAFT order.
	RemoveFromCart(ctx context.Context, gasID int64) error
	// CartSummary returns the active draft id and line count for the cart icon.
	CartSummary(ctx context.Context) (*CartSummaryResp, error)
	// Cart returns the caller's active DRAFT order with lines, or OrderNotFound.
	Cart(ctx context.Context) (*OrderResp, error)

	// Get returns one order with its lines.
	Get(ctx context.Context, orderID int64) (*OrderResp, error)
	// List returns visible orders, filtered and paged. Plain users see only
	// their own orders; moderators see everyone's.
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*OrderResp], error)
	// UpdateOrder replaces the free-text description, DRAFT only.
	UpdateOrder(ctx context.Context, orderID int64, req *UpdateOrderReq) error

	// AddLine inserts a line with explicit parameters, DRAFT only.
	AddLine(ctx context.Context, orderID int64, req *AddLineReq) error
	// GetLine returns one line of an order.
	GetLine(ctx context.Context, orderID, gasID int64) (*LineResp, error)
	// UpdateLine changes concentration and/or temperature, DRAFT only.
	UpdateLine(ctx context.Context, orderID, gasID int64, req *UpdateLineReq) error
	// RemoveLine deletes a line, DRAFT only.
	RemoveLine(ctx context.Context, orderID, gasID int64) error

	// Form moves DRAFT to FORMED. The order must have at least one line.
	Form(ctx context.Context, orderID int64) (*OrderResp, error)
	// Approve moves FORMED to COMPLETED (moderator only) and triggers the
	// worker dispatch. The aggregate stays null until results arrive unless
	// the dispatch path falls back to the local aggregation.
	Approve(ctx context.Context, orderID int64, req *ModerateReq) (*OrderResp, error)
	// Reject moves FORMED to CANCELLED, moderator only.
	Reject(ctx context.Context, orderID int64, req *ModerateReq) (*OrderResp, error)
	// Delete soft-deletes a DRAFT or FORMED order. COMPLETED orders never
	// delete.
	Delete(ctx context.Context, orderID int64) error

	// Preview computes the local aggregate over current lines without
	// persisting anything.
	Preview(ctx context.Context, orderID int64) (*PreviewResp, error)

	// Reconcile ingests a worker result batch in one transaction: overwrite
	// matched line results, skip unmatched tuples, then recompute the
	// aggregate of every touched order.
	Reconcile(ctx context.Context, req *ReconcileReq) (*ReconcileResp, error)
}
