package order

import (
	"context"
	"sort"

	core "github.com/atmolab/gascalc/pkg/core/order"
	calc "github.com/atmolab/gascalc/pkg/core/order/calc"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
)

// Reconcile applies a worker result batch. The whole batch is one transaction:
// line updates and order re-aggregations commit together or not at all.
// Duplicate tuples overwrite each other (last write wins) and unmatched tuples
// are skipped, so batches may repeat and arrive in any order.
func (o *orderImpl) Reconcile(ctx context.Context, req *core.ReconcileReq) (*core.ReconcileResp, error) {
	if len(req.Results) == 0 {
		return &core.ReconcileResp{}, nil
	}

	resp := &core.ReconcileResp{}
	err := o.orderStore.ExecTx(ctx, func(txCtx context.Context) error {
		touched := map[int64]struct{}{}

		for _, tuple := range req.Results {
			if tuple == nil || tuple.OrderID <= 0 || tuple.GasID <= 0 || tuple.Result == nil {
				logger.Warnf(txCtx, "reconcile skipping malformed tuple %+v", tuple)
				resp.Skipped++
				continue
			}

			affected, err := o.orderStore.SetLineResult(txCtx, tuple.OrderID, tuple.GasID, *tuple.Result)
			if err != nil {
				return err
			}
			if affected == 0 {
				logger.Warnf(txCtx, "reconcile no line for order=%d gas=%d, skipping",
					tuple.OrderID, tuple.GasID)
				resp.Skipped++
				continue
			}
			resp.Updated++
			touched[tuple.OrderID] = struct{}{}
		}

		// Stable iteration keeps lock acquisition ordered across concurrent
		// batches touching the same orders.
		orderIDs := make([]int64, 0, len(touched))
		for id := range touched {
			orderIDs = append(orderIDs, id)
		}
		sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })

		for _, orderID := range orderIDs {
			if err := o.reaggregate(txCtx, orderID); err != nil {
				return err
			}
			resp.Orders++
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "reconcile batch err: %+v", err)
		return nil, err
	}
	return resp, nil
}

// reaggregate recomputes one order's aggregate under a row lock so concurrent
// batches serialize their writes per order.
func (o *orderImpl) reaggregate(ctx context.Context, orderID int64) error {
	if _, err := o.orderStore.GetOrderForUpdate(ctx, orderID); err != nil {
		return err
	}

	lines, err := o.orderStore.ListLines(ctx, orderID)
	if err != nil {
		return err
	}

	result := calc.FromResults(lines)
	return o.orderStore.UpdateOrder(ctx, orderID, map[string]any{"temp_result": result})
}
