package order

import (
	"context"
	"sync"

	calc "github.com/atmolab/gascalc/pkg/core/order/calc"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
	utils "github.com/atmolab/gascalc/pkg/utils"
)

// dispatch hands the order's lines to the external worker after approval.
// Every failure path degrades to computing the local aggregate so a COMPLETED
// order is never left unresolved; approval itself already committed and is
// unaffected by anything that happens here.
func (o *orderImpl) dispatch(ctx context.Context, orderID int64, lines []*model.OrderLine) {
	if !o.workerEnabled {
		logger.Infof(ctx, "dispatch order=%d worker disabled, aggregating locally", orderID)
		o.aggregateLocally(ctx, orderID, lines)
		return
	}

	if err := o.worker.Health(ctx); err != nil {
		logger.Warnf(ctx, "dispatch order=%d worker unreachable, aggregating locally: %v", orderID, err)
		o.aggregateLocally(ctx, orderID, lines)
		return
	}

	// The request context dies with the HTTP response; background submits
	// run on a detached context. A failed submit triggers the local fallback
	// at most once per dispatch.
	bgCtx := context.WithoutCancel(ctx)
	fallback := &sync.Once{}
	for _, line := range lines {
		o.submitTask(bgCtx, orderID, line, lines, fallback)
	}
}

func (o *orderImpl) submitTask(ctx context.Context, orderID int64, line *model.OrderLine, lines []*model.OrderLine, fallback *sync.Once) {
	task := func() {
		if err := o.worker.SubmitTask(ctx, orderID, line.GasID, line.Concentration); err != nil {
			logger.Errorf(ctx, "submit task order=%d gas=%d err: %v", orderID, line.GasID, err)
			fallback.Do(func() {
				o.aggregateLocallyIfUnset(ctx, orderID, lines)
			})
		}
	}

	if err := o.pool.Submit(task); err != nil {
		logger.Warnf(ctx, "dispatch pool submit order=%d err: %v", orderID, err)
		utils.SafelyGo(task, func(err error) {
			logger.Errorf(ctx, "submit task order=%d panic: %v", orderID, err)
		})
	}
}

// aggregateLocally persists the synchronous fallback result.
func (o *orderImpl) aggregateLocally(ctx context.Context, orderID int64, lines []*model.OrderLine) {
	result := calc.Local(lines)
	err := o.orderStore.UpdateOrder(ctx, orderID, map[string]any{"temp_result": result})
	if err != nil {
		logger.Errorf(ctx, "aggregateLocally order=%d err: %+v", orderID, err)
	}
}

// aggregateLocallyIfUnset persists the local fallback only while the
// aggregate is still null, so worker results that already reconciled are
// never clobbered by a late failing submit.
func (o *orderImpl) aggregateLocallyIfUnset(ctx context.Context, orderID int64, lines []*model.OrderLine) {
	err := o.orderStore.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := o.orderStore.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.TempResult != nil {
			return nil
		}
		return o.orderStore.UpdateOrder(txCtx, orderID, map[string]any{"temp_result": calc.Local(lines)})
	})
	if err != nil {
		logger.Errorf(ctx, "aggregateLocallyIfUnset order=%d err: %+v", orderID, err)
	}
}
