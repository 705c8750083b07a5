package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	ants "github.com/panjf2000/ants/v2"

	config "github.com/atmolab/gascalc/internal/config"
	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	core "github.com/atmolab/gascalc/pkg/core/order"
	calc "github.com/atmolab/gascalc/pkg/core/order/calc"
	auth "github.com/atmolab/gascalc/pkg/middleware/auth"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
	repoGas "github.com/atmolab/gascalc/pkg/repo/gas"
	repoOrder "github.com/atmolab/gascalc/pkg/repo/order"
	repoWorker "github.com/atmolab/gascalc/pkg/repo/worker"
)

type orderImpl struct {
	orderStore    repo.OrderRepo
	gasStore      repo.GasRepo
	worker        repo.WorkerRepo
	workerEnabled bool
	pool          *ants.Pool
}

func New() core.Service {
	pool, _ := ants.NewPool(8, ants.WithExpiryDuration(30*time.Second))
	return &orderImpl{
		orderStore:    repoOrder.NewOrderRepo(),
		gasStore:      repoGas.NewGasRepo(),
		worker:        repoWorker.NewWorkerRepo(),
		workerEnabled: config.Global().Worker.Enabled,
		pool:          pool,
	}
}

// NewWithDeps wires explicit collaborators, test use.
func NewWithDeps(orderStore repo.OrderRepo, gasStore repo.GasRepo, worker repo.WorkerRepo, workerEnabled bool) core.Service {
	pool, _ := ants.NewPool(4)
	return &orderImpl{
		orderStore:    orderStore,
		gasStore:      gasStore,
		worker:        worker,
		workerEnabled: workerEnabled,
		pool:          pool,
	}
}

func (o *orderImpl) AddToCart(ctx context.Context, gasID int64) (*core.CartSummaryResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	if _, err := o.gasStore.GetGas(ctx, gasID); err != nil {
		return nil, err
	}

	order, err := o.activeDraftOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	line := &model.OrderLine{
		OrderID:       order.ID,
		GasID:         gasID,
		Concentration: core.DefaultConcentration,
		Temperature:   core.DefaultTemperature,
	}
	if _, err := o.orderStore.CreateLine(ctx, line); err != nil {
		return nil, err
	}

	count, err := o.orderStore.CountLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &core.CartSummaryResp{OrderID: &order.ID, Count: count}, nil
}

// activeDraftOrCreate finds the caller's DRAFT order or inserts one. A lost
// race on the partial unique index shows up as an insert error, after which
// the winner's row is re-read.
func (o *orderImpl) activeDraftOrCreate(ctx context.Context, userID int64) (*model.Order, error) {
	order, err := o.orderStore.FindActiveDraft(ctx, userID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, code.RecordNotFound) {
		return nil, err
	}

	order = &model.Order{UserID: userID, Status: model.OrderDraft}
	if createErr := o.orderStore.CreateOrder(ctx, order); createErr != nil {
		order, err = o.orderStore.FindActiveDraft(ctx, userID)
		if err != nil {
			logger.Errorf(ctx, "activeDraftOrCreate user=%d err: %+v", userID, createErr)
			return nil, createErr
		}
	}
	return order, nil
}

func (o *orderImpl) RemoveFromCart(ctx context.Context, gasID int64) error {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return code.UnLogin
	}

	order, err := o.orderStore.FindActiveDraft(ctx, user.ID)
	if err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return code.OrderNotFound.WithMsg("no active cart")
		}
		return err
	}

	affected, err := o.orderStore.DeleteLine(ctx, order.ID, gasID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return code.LineNotFound
	}
	return nil
}

func (o *orderImpl) CartSummary(ctx context.Context) (*core.CartSummaryResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	order, err := o.orderStore.FindActiveDraft(ctx, user.ID)
	if err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return &core.CartSummaryResp{}, nil
		}
		return nil, err
	}

	count, err := o.orderStore.CountLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &core.CartSummaryResp{OrderID: &order.ID, Count: count}, nil
}

func (o *orderImpl) Cart(ctx context.Context) (*core.OrderResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	order, err := o.orderStore.FindActiveDraft(ctx, user.ID)
	if err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return nil, code.OrderNotFound.WithMsg("no active cart")
		}
		return nil, err
	}
	return o.toOrderResp(ctx, order)
}

func (o *orderImpl) Get(ctx context.Context, orderID int64) (*core.OrderResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	order, err := o.loadVisible(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	return o.toOrderResp(ctx, order)
}

func (o *orderImpl) List(ctx context.Context, req *core.ListReq) (*common.PageResp[[]*core.OrderResp], error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	req.Normalize()

	if req.Status != nil && !req.Status.Valid() {
		return nil, code.ParamErr.WithMsgf("unknown status %q", *req.Status)
	}

	q := repo.OrderQuery{
		Status:     req.Status,
		FormedFrom: req.FormedFrom,
		FormedTo:   req.FormedTo,
		Offset:     req.Offset(),
		Limit:      req.PageSize,
	}
	if !user.Role.CanModerate() {
		q.UserID = &user.ID
	}

	orders, total, err := o.orderStore.ListOrders(ctx, q)
	if err != nil {
		logger.Errorf(ctx, "ListOrders err: %+v", err)
		return nil, err
	}

	list := make([]*core.OrderResp, 0, len(orders))
	for _, order := range orders {
		resp, err := o.toOrderResp(ctx, order)
		if err != nil {
			return nil, err
		}
		list = append(list, resp)
	}

	return &common.PageResp[[]*core.OrderResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     list,
	}, nil
}

func (o *orderImpl) UpdateOrder(ctx context.Context, orderID int64, req *core.UpdateOrderReq) error {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return code.UnLogin
	}

	order, err := o.loadVisible(ctx, user, orderID)
	if err != nil {
		return err
	}
	if err := requireDraft(order); err != nil {
		return err
	}

	return o.orderStore.UpdateOrder(ctx, orderID, map[string]any{"description": req.Description})
}

func (o *orderImpl) AddLine(ctx context.Context, orderID int64, req *core.AddLineReq) error {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return code.UnLogin
	}

	order, err := o.loadVisible(ctx, user, orderID)
	if err != nil {
		return err
	}
	if err := requireDraft(order); err != nil {
		return err
	}
	if err := validateConcentration(req.Concentration); err != nil {
		return err
	}
	if err := validateTemperature(req.Temperature); err != nil {
		return err
	}
	if _, err := o.gasStore.GetGas(ctx, req.GasID); err != nil {
		return err
	}

	inserted, err := o.orderStore.CreateLine(ctx, &model.OrderLine{
		OrderID:       orderID,
		GasID:         req.GasID,
		Concentration: req.Concentration,
		Temperature:   req.Temperature,
	})
	if err != nil {
		return err
	}
	if !inserted {
		return code.ValidationErr.WithMsg("gas already present in order")
	}
	return nil
}

func (o *orderImpl) GetLine(ctx context.Context, orderID, gasID int64) (*core.LineResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	if _, err := o.loadVisible(ctx, user, orderID); err != nil {
		return nil, err
	}

	line, err := o.orderStore.GetLine(ctx, orderID, gasID)
	if err != nil {
		return nil, err
	}

	gases, err := o.gasStore.BatchGetGases(ctx, []int64{gasID})
	if err != nil {
		return nil, err
	}
	return toLineResp(line, gases[gasID]), nil
}

func (o *orderImpl) UpdateLine(ctx context.Context, orderID, gasID int64, req *core.UpdateLineReq) error {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return code.UnLogin
	}

	order, err := o.loadVisible(ctx, user, orderID)
	if err != nil {
		return err
	}
	if err := requireDraft(order); err != nil {
		return err
	}

	updates := map[string]any{}
	if req.Concentration != nil {
		if err := validateConcentration(*req.Concentration); err != nil {
			return err
		}
		updates["concentration"] = *req.Concentration
	}
	if req.Temperature != nil {
		if err := validateTemperature(*req.Temperature); err != nil {
			return err
		}
		updates["temperature"] = *req.Temperature
	}
	if len(updates) == 0 {
		return code.ParamErr.WithMsg("nothing to update")
	}

	return o.orderStore.UpdateLine(ctx, orderID, gasID, updates)
}

func (o *orderImpl) RemoveLine(ctx context.Context, orderID, gasID int64) error {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return code.UnLogin
	}

	order, err := o.loadVisible(ctx, user, orderID)
	if err != nil {
		return err
	}
	if err := requireDraft(order); err != nil {
		return err
	}

	affected, err := o.orderStore.DeleteLine(ctx, orderID, gasID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return code.LineNotFound
	}
	return nil
}

func (o *orderImpl) Form(ctx context.Context, orderID int64) (*core.OrderResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	err := o.orderStore.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := o.lockVisible(txCtx, user, orderID)
		if err != nil {
			return err
		}
		if err := requireDraft(order); err != nil {
			return err
		}

		count, err := o.orderStore.CountLines(txCtx, orderID)
		if err != nil {
			return err
		}
		if count == 0 {
			return code.ValidationErr.WithMsg("cannot form an empty order")
		}

		return o.orderStore.UpdateOrder(txCtx, orderID, map[string]any{
			"status":    model.OrderFormed,
			"formed_at": time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return o.Get(ctx, orderID)
}

func (o *orderImpl) Approve(ctx context.Context, orderID int64, req *core.ModerateReq) (*core.OrderResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	if !user.Role.CanModerate() {
		return nil, code.AccessDenied
	}

	var lines []*model.OrderLine
	err := o.orderStore.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := o.orderStore.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderFormed {
			return code.InvalidStateTransition.
				WithMsgf("cannot approve order in status %s", order.Status)
		}

		if lines, err = o.orderStore.ListLines(txCtx, orderID); err != nil {
			return err
		}

		return o.orderStore.UpdateOrder(txCtx, orderID, map[string]any{
			"status":      model.OrderCompleted,
			"description": annotate(order.Description, user.Login, "approved", req.Comment),
		})
	})
	if err != nil {
		return nil, err
	}

	// The transition is committed; the aggregate is filled in by the worker
	// callback or, on any dispatch failure, by the local fallback.
	o.dispatch(ctx, orderID, lines)

	return o.Get(ctx, orderID)
}

func (o *orderImpl) Reject(ctx context.Context, orderID int64, req *core.ModerateReq) (*core.OrderResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	if !user.Role.CanModerate() {
		return nil, code.AccessDenied
	}

	err := o.orderStore.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := o.orderStore.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderFormed {
			return code.InvalidStateTransition.
				WithMsgf("cannot reject order in status %s", order.Status)
		}

		return o.orderStore.UpdateOrder(txCtx, orderID, map[string]any{
			"status":      model.OrderCancelled,
			"description": annotate(order.Description, user.Login, "rejected", req.Comment),
		})
	})
	if err != nil {
		return nil, err
	}
	return o.Get(ctx, orderID)
}

func (o *orderImpl) Delete(ctx context.Context, orderID int64) error {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return code.UnLogin
	}

	return o.orderStore.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := o.lockVisible(txCtx, user, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderDraft && order.Status != model.OrderFormed {
			return code.InvalidStateTransition.
				WithMsgf("cannot delete order in status %s", order.Status)
		}

		return o.orderStore.UpdateOrder(txCtx, orderID, map[string]any{
			"status": model.OrderDeleted,
		})
	})
}

func (o *orderImpl) Preview(ctx context.Context, orderID int64) (*core.PreviewResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	if _, err := o.loadVisible(ctx, user, orderID); err != nil {
		return nil, err
	}

	lines, err := o.orderStore.ListLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &core.PreviewResp{
		OrderID:     orderID,
		Temperature: calc.Local(lines),
	}, nil
}

// loadVisible fetches an order and applies the visibility rules: DELETED rows
// are gone for everyone, plain users only reach their own orders.
func (o *orderImpl) loadVisible(ctx context.Context, user *model.UserData, orderID int64) (*model.Order, error) {
	order, err := o.orderStore.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return checkVisible(user, order)
}

// lockVisible is loadVisible with a FOR UPDATE lock, tx use only.
func (o *orderImpl) lockVisible(ctx context.Context, user *model.UserData, orderID int64) (*model.Order, error) {
	order, err := o.orderStore.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return checkVisible(user, order)
}

func checkVisible(user *model.UserData, order *model.Order) (*model.Order, error) {
	if order.Status == model.OrderDeleted {
		return nil, code.OrderNotFound
	}
	if order.UserID != user.ID && !user.Role.CanModerate() {
		return nil, code.AccessDenied
	}
	return order, nil
}

func requireDraft(order *model.Order) error {
	if order.Status != model.OrderDraft {
		return code.InvalidStateTransition.
			WithMsgf("order is %s, only DRAFT orders can be modified", order.Status)
	}
	return nil
}

func validateConcentration(v float64) error {
	if v < 0 || v > 100 {
		return code.ValidationErr.WithMsgf("concentration %v out of range [0, 100]", v)
	}
	return nil
}

func validateTemperature(v float64) error {
	if v < -273.15 || v > 1000 {
		return code.ValidationErr.WithMsgf("temperature %v out of range [-273.15, 1000]", v)
	}
	return nil
}

// annotate appends a moderator note to the order description.
func annotate(current *string, login, action, comment string) string {
	note := fmt.Sprintf("Moderator %s: %s", login, action)
	if comment != "" {
		note += " (" + comment + ")"
	}
	if current == nil || *current == "" {
		return note
	}
	return *current + "\n" + note
}

func (o *orderImpl) toOrderResp(ctx context.Context, order *model.Order) (*core.OrderResp, error) {
	lines, err := o.orderStore.ListLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	gasIDs := make([]int64, 0, len(lines))
	for _, line := range lines {
		gasIDs = append(gasIDs, line.GasID)
	}
	gases, err := o.gasStore.BatchGetGases(ctx, gasIDs)
	if err != nil {
		return nil, err
	}

	resp := &core.OrderResp{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TempResult:  order.TempResult,
		Description: order.Description,
		CreatedAt:   order.CreatedAt,
		FormedAt:    order.FormedAt,
		Lines:       make([]*core.LineResp, 0, len(lines)),
	}
	for _, line := range lines {
		if line.Result != nil {
			resp.ResolvedLines++
		}
		resp.Lines = append(resp.Lines, toLineResp(line, gases[line.GasID]))
	}
	return resp, nil
}

func toLineResp(line *model.OrderLine, gas *model.Gas) *core.LineResp {
	resp := &core.LineResp{
		GasID:         line.GasID,
		Concentration: line.Concentration,
		Temperature:   line.Temperature,
		Result:        line.Result,
	}
	if gas != nil {
		resp.Name = gas.Name
		resp.Formula = gas.Formula
	}
	return resp
}
