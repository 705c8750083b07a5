package gas

import (
	"context"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	core "github.com/atmolab/gascalc/pkg/core/gas"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
	repoGas "github.com/atmolab/gascalc/pkg/repo/gas"
	utils "github.com/atmolab/gascalc/pkg/utils"
)

type gasImpl struct {
	gasStore repo.GasRepo
}

func New() core.Service {
	return &gasImpl{gasStore: repoGas.NewGasRepo()}
}

// NewWithRepo wires an explicit store, test use.
func NewWithRepo(store repo.GasRepo) core.Service {
	return &gasImpl{gasStore: store}
}

func (g *gasImpl) List(ctx context.Context, req *core.ListReq) (*common.PageResp[[]*core.GasResp], error) {
	req.Normalize()

	q := repo.GasQuery{
		Offset: req.Offset(),
		Limit:  req.PageSize,
	}
	if req.Name != "" {
		q.NameLike = &req.Name
	}

	gases, total, err := g.gasStore.ListGases(ctx, q)
	if err != nil {
		logger.Errorf(ctx, "ListGases err: %+v", err)
		return nil, err
	}

	return &common.PageResp[[]*core.GasResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List: utils.FilterSlice(gases, func(m *model.Gas) (*core.GasResp, bool) {
			return toResp(m), true
		}),
	}, nil
}

func (g *gasImpl) Get(ctx context.Context, id int64) (*core.GasResp, error) {
	if id <= 0 {
		return nil, code.ParamErr.WithMsg("gas id must be positive")
	}

	gas, err := g.gasStore.GetGas(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResp(gas), nil
}

func toResp(m *model.Gas) *core.GasResp {
	return &core.GasResp{
		ID:          m.ID,
		Name:        m.Name,
		Formula:     m.Formula,
		Description: m.Description,
		ImageURL:    m.ImageURL,
	}
}
