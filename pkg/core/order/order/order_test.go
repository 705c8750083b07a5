package order

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	core "github.com/atmolab/gascalc/pkg/core/order"
	calc "github.com/atmolab/gascalc/pkg/core/order/calc"
	model "github.com/atmolab/gascalc/pkg/model"
)

func newTestService(workerEnabled bool, worker *fakeWorker) (core.Service, *fakeOrderStore) {
	store := newFakeOrderStore()
	if worker == nil {
		worker = &fakeWorker{}
	}
	return NewWithDeps(store, newFakeGasStore(), worker, workerEnabled), store
}

func mustAddToCart(t *testing.T, svc core.Service, userID, gasID int64) int64 {
	t.Helper()
	resp, err := svc.AddToCart(ctxWithUser(userID, "owner", common.User), gasID)
	require.NoError(t, err)
	require.NotNil(t, resp.OrderID)
	return *resp.OrderID
}

func TestAddToCart_CreatesDraftWithDefaults(t *testing.T) {
	svc, store := newTestService(false, nil)

	orderID := mustAddToCart(t, svc, 1, 1)

	order, err := store.GetOrder(t.Context(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDraft, order.Status)
	assert.Equal(t, int64(1), order.UserID)

	line, err := store.GetLine(t.Context(), orderID, 1)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConcentration, line.Concentration)
	assert.Equal(t, core.DefaultTemperature, line.Temperature)
	assert.Nil(t, line.Result)
}

func TestAddToCart_SameGasTwiceIsNoop(t *testing.T) {
	svc, _ := newTestService(false, nil)

	orderID := mustAddToCart(t, svc, 1, 1)
	resp, err := svc.AddToCart(ctxWithUser(1, "owner", common.User), 1)
	require.NoError(t, err)
	assert.Equal(t, orderID, *resp.OrderID)
	assert.Equal(t, int64(1), resp.Count)
}

func TestAddToCart_ReusesActiveDraft(t *testing.T) {
	svc, _ := newTestService(false, nil)

	first := mustAddToCart(t, svc, 1, 1)
	second := mustAddToCart(t, svc, 1, 2)
	assert.Equal(t, first, second, "second add lands in the same draft")
}

func TestAddToCart_UnknownGas(t *testing.T) {
	svc, _ := newTestService(false, nil)

	_, err := svc.AddToCart(ctxWithUser(1, "owner", common.User), 99)
	assert.True(t, errors.Is(err, code.GasNotFound))
}

func TestAddToCart_Unauthenticated(t *testing.T) {
	svc, _ := newTestService(false, nil)

	_, err := svc.AddToCart(t.Context(), 1)
	assert.True(t, errors.Is(err, code.UnLogin))
}

func TestAddToCart_ConcurrentSameGas(t *testing.T) {
	svc, store := newTestService(false, nil)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddToCart(ctxWithUser(1, "owner", common.User), 1)
		}()
	}
	wg.Wait()

	order, err := store.FindActiveDraft(t.Context(), 1)
	require.NoError(t, err)
	count, err := store.CountLines(t.Context(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "one line per (order, gas) survives the race")

	drafts := 0
	for _, o := range store.orders {
		if o.UserID == 1 && o.Status == model.OrderDraft {
			drafts++
		}
	}
	assert.Equal(t, 1, drafts, "one active draft survives the race")
}

func TestRemoveFromCart(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)

	mustAddToCart(t, svc, 1, 1)
	require.NoError(t, svc.RemoveFromCart(ctx, 1))

	err := svc.RemoveFromCart(ctx, 1)
	assert.True(t, errors.Is(err, code.LineNotFound))
}

func TestRemoveFromCart_NoActiveCart(t *testing.T) {
	svc, _ := newTestService(false, nil)

	err := svc.RemoveFromCart(ctxWithUser(1, "owner", common.User), 1)
	assert.True(t, errors.Is(err, code.OrderNotFound))
}

func TestCartSummary_NoDraft(t *testing.T) {
	svc, _ := newTestService(false, nil)

	resp, err := svc.CartSummary(ctxWithUser(1, "owner", common.User))
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	assert.Zero(t, resp.Count)
}

func TestCart_JoinsGasData(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)

	mustAddToCart(t, svc, 1, 1)
	mustAddToCart(t, svc, 1, 4)

	resp, err := svc.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 2)
	for _, line := range resp.Lines {
		assert.NotEmpty(t, line.Name)
		assert.NotEmpty(t, line.Formula)
	}
}

func TestMutationsRequireDraft(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)

	orderID := mustAddToCart(t, svc, 1, 1)
	_, err := svc.Form(ctx, orderID)
	require.NoError(t, err)

	conc := 10.0
	tests := []struct {
		name string
		call func() error
	}{
		{"update description", func() error {
			return svc.UpdateOrder(ctx, orderID, &core.UpdateOrderReq{Description: "x"})
		}},
		{"add line", func() error {
			return svc.AddLine(ctx, orderID, &core.AddLineReq{GasID: 2, Concentration: 1, Temperature: 15})
		}},
		{"update line", func() error {
			return svc.UpdateLine(ctx, orderID, 1, &core.UpdateLineReq{Concentration: &conc})
		}},
		{"remove line", func() error {
			return svc.RemoveLine(ctx, orderID, 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.call(), code.InvalidStateTransition))
		})
	}
}

func TestAddLine_Validation(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)

	err := svc.AddLine(ctx, orderID, &core.AddLineReq{GasID: 2, Concentration: 101, Temperature: 15})
	assert.True(t, errors.Is(err, code.ValidationErr))

	err = svc.AddLine(ctx, orderID, &core.AddLineReq{GasID: 2, Concentration: 50, Temperature: -300})
	assert.True(t, errors.Is(err, code.ValidationErr))

	err = svc.AddLine(ctx, orderID, &core.AddLineReq{GasID: 1, Concentration: 50, Temperature: 15})
	assert.True(t, errors.Is(err, code.ValidationErr), "duplicate gas rejected")
}

func TestUpdateLine(t *testing.T) {
	svc, store := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)

	conc, temp := 42.5, -10.0
	require.NoError(t, svc.UpdateLine(ctx, orderID, 1, &core.UpdateLineReq{
		Concentration: &conc,
		Temperature:   &temp,
	}))

	line, err := store.GetLine(t.Context(), orderID, 1)
	require.NoError(t, err)
	assert.Equal(t, 42.5, line.Concentration)
	assert.Equal(t, -10.0, line.Temperature)

	err = svc.UpdateLine(ctx, orderID, 1, &core.UpdateLineReq{})
	assert.True(t, errors.Is(err, code.ParamErr), "empty update rejected")
}

func TestForm(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)

	resp, err := svc.Form(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderFormed, resp.Status)
	assert.NotNil(t, resp.FormedAt)
	assert.WithinDuration(t, time.Now(), *resp.FormedAt, time.Minute)

	_, err = svc.Form(ctx, orderID)
	assert.True(t, errors.Is(err, code.InvalidStateTransition), "forming twice fails")
}

func TestForm_EmptyOrder(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	require.NoError(t, svc.RemoveFromCart(ctx, 1))

	_, err := svc.Form(ctx, orderID)
	assert.True(t, errors.Is(err, code.ValidationErr))
}

func TestForm_OtherUsersOrder(t *testing.T) {
	svc, _ := newTestService(false, nil)
	orderID := mustAddToCart(t, svc, 1, 1)

	_, err := svc.Form(ctxWithUser(2, "intruder", common.User), orderID)
	assert.True(t, errors.Is(err, code.AccessDenied))
}

func TestApprove_RequiresModerator(t *testing.T) {
	svc, _ := newTestService(false, nil)
	ctx := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	_, err := svc.Form(ctx, orderID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, orderID, &core.ModerateReq{})
	assert.True(t, errors.Is(err, code.AccessDenied))
}

func TestApprove_RequiresFormed(t *testing.T) {
	svc, _ := newTestService(false, nil)
	orderID := mustAddToCart(t, svc, 1, 1)

	_, err := svc.Approve(ctxWithUser(9, "admin", common.Admin), orderID, &core.ModerateReq{})
	assert.True(t, errors.Is(err, code.InvalidStateTransition))
}

func TestApprove_WorkerDisabled_LocalFallback(t *testing.T) {
	svc, _ := newTestService(false, nil)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)

	conc, temp := 50.0, 10.0
	require.NoError(t, svc.UpdateLine(owner, orderID, 1, &core.UpdateLineReq{Concentration: &conc, Temperature: &temp}))
	require.NoError(t, svc.AddLine(owner, orderID, &core.AddLineReq{GasID: 2, Concentration: 50, Temperature: 30}))
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)

	resp, err := svc.Approve(ctxWithUser(9, "admin", common.Admin), orderID, &core.ModerateReq{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCompleted, resp.Status)

	w1 := calc.HeatCapacity(1) * 0.5
	w2 := calc.HeatCapacity(2) * 0.5
	want := (w1*10 + w2*30) / (w1 + w2)
	require.NotNil(t, resp.TempResult)
	assert.InDelta(t, want, *resp.TempResult, 1e-9)
}

func TestApprove_WorkerUnreachable_LocalFallback(t *testing.T) {
	worker := &fakeWorker{healthErr: code.UpstreamUnavailable}
	svc, _ := newTestService(true, worker)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)

	resp, err := svc.Approve(ctxWithUser(9, "admin", common.Admin), orderID, &core.ModerateReq{})
	require.NoError(t, err, "unreachable worker never fails the approval")
	assert.Equal(t, model.OrderCompleted, resp.Status)
	require.NotNil(t, resp.TempResult)
	assert.InDelta(t, core.DefaultTemperature, *resp.TempResult, 1e-9)
	assert.Zero(t, worker.taskCount())
}

func TestApprove_WorkerHealthy_Dispatches(t *testing.T) {
	worker := &fakeWorker{}
	svc, store := newTestService(true, worker)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	mustAddToCart(t, svc, 1, 2)
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)

	resp, err := svc.Approve(ctxWithUser(9, "admin", common.Admin), orderID, &core.ModerateReq{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCompleted, resp.Status)
	assert.Nil(t, resp.TempResult, "aggregate stays null until the worker responds")

	assert.Eventually(t, func() bool {
		return worker.taskCount() == 2
	}, 2*time.Second, 10*time.Millisecond, "one task per line reaches the worker")

	order, err := store.GetOrder(t.Context(), orderID)
	require.NoError(t, err)
	assert.Nil(t, order.TempResult)
}

func TestApprove_SubmitFailure_LocalFallback(t *testing.T) {
	worker := &fakeWorker{submitErr: code.RPCHttpErr}
	svc, store := newTestService(true, worker)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)

	conc, temp := 50.0, 10.0
	require.NoError(t, svc.UpdateLine(owner, orderID, 1, &core.UpdateLineReq{Concentration: &conc, Temperature: &temp}))
	require.NoError(t, svc.AddLine(owner, orderID, &core.AddLineReq{GasID: 2, Concentration: 50, Temperature: 30}))
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)

	resp, err := svc.Approve(ctxWithUser(9, "admin", common.Admin), orderID, &core.ModerateReq{})
	require.NoError(t, err, "failing submits never fail the approval")
	assert.Equal(t, model.OrderCompleted, resp.Status)

	// The health probe passed but every submit fails in the background; the
	// order must still end up with the local aggregate.
	w1 := calc.HeatCapacity(1) * 0.5
	w2 := calc.HeatCapacity(2) * 0.5
	want := (w1*10 + w2*30) / (w1 + w2)
	assert.Eventually(t, func() bool {
		order, err := store.GetOrder(t.Context(), orderID)
		return err == nil && order.TempResult != nil
	}, 2*time.Second, 10*time.Millisecond, "submit failure falls back to the local aggregate")

	order, err := store.GetOrder(t.Context(), orderID)
	require.NoError(t, err)
	assert.InDelta(t, want, *order.TempResult, 1e-9)
}

func TestAggregateLocallyIfUnset_KeepsExistingAggregate(t *testing.T) {
	svc, store := newTestService(true, &fakeWorker{})
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)
	_, err = svc.Approve(ctxWithUser(9, "admin", common.Admin), orderID, &core.ModerateReq{})
	require.NoError(t, err)

	// Worker results landed first; a late failing submit must not overwrite
	// the reconciled aggregate with a local estimate.
	require.NoError(t, store.UpdateOrder(t.Context(), orderID, map[string]any{"temp_result": 42.0}))

	lines, err := store.ListLines(t.Context(), orderID)
	require.NoError(t, err)
	svc.(*orderImpl).aggregateLocallyIfUnset(t.Context(), orderID, lines)

	order, err := store.GetOrder(t.Context(), orderID)
	require.NoError(t, err)
	require.NotNil(t, order.TempResult)
	assert.Equal(t, 42.0, *order.TempResult)
}

func TestApprove_AppendsModeratorAnnotation(t *testing.T) {
	svc, _ := newTestService(false, nil)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	require.NoError(t, svc.UpdateOrder(owner, orderID, &core.UpdateOrderReq{Description: "rush order"}))
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)

	resp, err := svc.Approve(ctxWithUser(9, "boss", common.Admin), orderID, &core.ModerateReq{Comment: "looks fine"})
	require.NoError(t, err)
	require.NotNil(t, resp.Description)
	assert.Contains(t, *resp.Description, "rush order")
	assert.Contains(t, *resp.Description, "Moderator boss: approved (looks fine)")
}

func TestReject(t *testing.T) {
	svc, _ := newTestService(false, nil)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)

	resp, err := svc.Reject(ctxWithUser(9, "mod", common.Moderator), orderID, &core.ModerateReq{Comment: "wrong mix"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, resp.Status)
	assert.Nil(t, resp.TempResult)
	require.NotNil(t, resp.Description)
	assert.Contains(t, *resp.Description, "rejected (wrong mix)")
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(false, nil)
	owner := ctxWithUser(1, "owner", common.User)

	orderID := mustAddToCart(t, svc, 1, 1)
	require.NoError(t, svc.Delete(owner, orderID))

	order, err := store.GetOrder(t.Context(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDeleted, order.Status)

	_, err = svc.Get(owner, orderID)
	assert.True(t, errors.Is(err, code.OrderNotFound), "deleted orders vanish")
}

func TestDelete_CompletedNever(t *testing.T) {
	svc, _ := newTestService(false, nil)
	owner := ctxWithUser(1, "owner", common.User)
	admin := ctxWithUser(9, "admin", common.Admin)

	orderID := mustAddToCart(t, svc, 1, 1)
	_, err := svc.Form(owner, orderID)
	require.NoError(t, err)
	_, err = svc.Approve(admin, orderID, &core.ModerateReq{})
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(owner, orderID), code.InvalidStateTransition))
	assert.True(t, errors.Is(svc.Delete(admin, orderID), code.InvalidStateTransition),
		"not even an admin deletes a completed order")
}

func TestDelete_OtherUsersOrder(t *testing.T) {
	svc, _ := newTestService(false, nil)
	orderID := mustAddToCart(t, svc, 1, 1)

	assert.True(t, errors.Is(svc.Delete(ctxWithUser(2, "other", common.User), orderID), code.AccessDenied))
	assert.NoError(t, svc.Delete(ctxWithUser(9, "mod", common.Moderator), orderID))
}

func TestList_VisibilityByRole(t *testing.T) {
	svc, _ := newTestService(false, nil)

	mustAddToCart(t, svc, 1, 1)
	mustAddToCart(t, svc, 2, 2)

	own, err := svc.List(ctxWithUser(1, "owner", common.User), &core.ListReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), own.Total)
	for _, o := range own.List {
		assert.Equal(t, int64(1), o.UserID)
	}

	all, err := svc.List(ctxWithUser(9, "mod", common.Moderator), &core.ListReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestGet_OtherUsersOrderByModerator(t *testing.T) {
	svc, _ := newTestService(false, nil)
	orderID := mustAddToCart(t, svc, 1, 1)

	_, err := svc.Get(ctxWithUser(2, "other", common.User), orderID)
	assert.True(t, errors.Is(err, code.AccessDenied))

	resp, err := svc.Get(ctxWithUser(9, "mod", common.Moderator), orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, resp.ID)
}

func TestPreview(t *testing.T) {
	svc, _ := newTestService(false, nil)
	owner := ctxWithUser(1, "owner", common.User)
	orderID := mustAddToCart(t, svc, 1, 1)

	conc, temp := 100.0, 20.0
	require.NoError(t, svc.UpdateLine(owner, orderID, 1, &core.UpdateLineReq{Concentration: &conc, Temperature: &temp}))

	resp, err := svc.Preview(owner, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, resp.OrderID)
	assert.InDelta(t, 20.0, resp.Temperature, 1e-9)

	// Preview persists nothing.
	order, err := svc.Get(owner, orderID)
	require.NoError(t, err)
	assert.Nil(t, order.TempResult)
}
