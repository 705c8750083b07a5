package order

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"time"

	gin "github.com/gin-gonic/gin"
	gorm "gorm.io/gorm"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	auth "github.com/atmolab/gascalc/pkg/middleware/auth"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
)

func ctxWithUser(id int64, login string, role common.Role) *gin.Context {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/", nil)
	ctx.Set(auth.USERKEY, &model.UserData{ID: id, Login: login, Role: role})
	return ctx
}

// fakeOrderStore mirrors the persistence semantics the service relies on:
// unique (order_id, gas_id) lines, one DRAFT per user, row counts on
// update/delete.
type fakeOrderStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*model.Order
	lines  map[int64]map[int64]*model.OrderLine
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: map[int64]*model.Order{},
		lines:  map[int64]map[int64]*model.OrderLine{},
	}
}

func (f *fakeOrderStore) DBWithContext(context.Context) *gorm.DB { return nil }

func (f *fakeOrderStore) ExecTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if order.Status == model.OrderDraft {
		for _, existing := range f.orders {
			if existing.UserID == order.UserID && existing.Status == model.OrderDraft {
				return code.CreateDataErr.WithErr(fmt.Errorf("duplicate active draft for user %d", order.UserID))
			}
		}
	}

	f.nextID++
	order.ID = f.nextID
	order.CreatedAt = time.Now()
	cp := *order
	f.orders[order.ID] = &cp
	f.lines[order.ID] = map[int64]*model.OrderLine{}
	return nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id int64) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return nil, code.OrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderStore) GetOrderForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	return f.GetOrder(ctx, id)
}

func (f *fakeOrderStore) FindActiveDraft(_ context.Context, userID int64) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *model.Order
	for _, order := range f.orders {
		if order.UserID == userID && order.Status == model.OrderDraft {
			if latest == nil || order.ID > latest.ID {
				latest = order
			}
		}
	}
	if latest == nil {
		return nil, code.RecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeOrderStore) UpdateOrder(_ context.Context, id int64, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return code.OrderNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			order.Status = value.(model.OrderStatus)
		case "description":
			s := value.(string)
			order.Description = &s
		case "temp_result":
			v := value.(float64)
			order.TempResult = &v
		case "formed_at":
			t := value.(time.Time)
			order.FormedAt = &t
		}
	}
	return nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context, q repo.OrderQuery) ([]*model.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]*model.Order, 0, len(f.orders))
	for _, order := range f.orders {
		if order.Status == model.OrderDeleted {
			continue
		}
		if q.UserID != nil && order.UserID != *q.UserID {
			continue
		}
		if q.Status != nil && order.Status != *q.Status {
			continue
		}
		cp := *order
		matched = append(matched, &cp)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeOrderStore) CreateLine(_ context.Context, line *model.OrderLine) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byGas, ok := f.lines[line.OrderID]
	if !ok {
		return false, code.CreateDataErr.WithErr(fmt.Errorf("order %d missing", line.OrderID))
	}
	if _, exists := byGas[line.GasID]; exists {
		return false, nil
	}

	f.nextID++
	line.ID = f.nextID
	cp := *line
	byGas[line.GasID] = &cp
	return true, nil
}

func (f *fakeOrderStore) GetLine(_ context.Context, orderID, gasID int64) (*model.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, ok := f.lines[orderID][gasID]
	if !ok {
		return nil, code.LineNotFound
	}
	cp := *line
	return &cp, nil
}

func (f *fakeOrderStore) ListLines(_ context.Context, orderID int64) ([]*model.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*model.OrderLine, 0, len(f.lines[orderID]))
	for _, line := range f.lines[orderID] {
		cp := *line
		list = append(list, &cp)
	}
	return list, nil
}

func (f *fakeOrderStore) CountLines(_ context.Context, orderID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.lines[orderID])), nil
}

func (f *fakeOrderStore) UpdateLine(_ context.Context, orderID, gasID int64, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, ok := f.lines[orderID][gasID]
	if !ok {
		return code.LineNotFound
	}
	for key, value := range updates {
		switch key {
		case "concentration":
			line.Concentration = value.(float64)
		case "temperature":
			line.Temperature = value.(float64)
		}
	}
	return nil
}

func (f *fakeOrderStore) DeleteLine(_ context.Context, orderID, gasID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.lines[orderID][gasID]; !ok {
		return 0, nil
	}
	delete(f.lines[orderID], gasID)
	return 1, nil
}

func (f *fakeOrderStore) SetLineResult(_ context.Context, orderID, gasID int64, result float64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, ok := f.lines[orderID][gasID]
	if !ok {
		return 0, nil
	}
	v := result
	line.Result = &v
	return 1, nil
}

type fakeGasStore struct {
	gases map[int64]*model.Gas
}

func newFakeGasStore() *fakeGasStore {
	gases := map[int64]*model.Gas{}
	for id, meta := range map[int64][2]string{
		1: {"Carbon dioxide", "CO2"},
		2: {"Oxygen", "O2"},
		3: {"Argon", "Ar"},
		4: {"Nitrogen", "N2"},
		5: {"Water vapor", "H2O"},
	} {
		gas := &model.Gas{Name: meta[0], Formula: meta[1]}
		gas.ID = id
		gases[id] = gas
	}
	return &fakeGasStore{gases: gases}
}

func (f *fakeGasStore) ListGases(_ context.Context, _ repo.GasQuery) ([]*model.Gas, int64, error) {
	list := make([]*model.Gas, 0, len(f.gases))
	for _, gas := range f.gases {
		list = append(list, gas)
	}
	return list, int64(len(list)), nil
}

func (f *fakeGasStore) GetGas(_ context.Context, id int64) (*model.Gas, error) {
	gas, ok := f.gases[id]
	if !ok {
		return nil, code.GasNotFound
	}
	return gas, nil
}

func (f *fakeGasStore) BatchGetGases(_ context.Context, ids []int64) (map[int64]*model.Gas, error) {
	result := map[int64]*model.Gas{}
	for _, id := range ids {
		if gas, ok := f.gases[id]; ok {
			result[id] = gas
		}
	}
	return result, nil
}

type fakeWorker struct {
	mu        sync.Mutex
	healthErr error
	submitErr error
	tasks     []string
}

func (f *fakeWorker) Health(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

func (f *fakeWorker) SubmitTask(_ context.Context, orderID, gasID int64, concentration float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.tasks = append(f.tasks, fmt.Sprintf("%d:%d:%v", orderID, gasID, concentration))
	return nil
}

func (f *fakeWorker) taskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}
