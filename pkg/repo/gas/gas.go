package gas

import (
	"context"
	"errors"

	gorm "gorm.io/gorm"

	code "github.com/atmolab/gascalc/pkg/common/code"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
	utils "github.com/atmolab/gascalc/pkg/utils"
)

type gasImpl struct {
	repo.BaseDB
}

func NewGasRepo() repo.GasRepo {
	return &gasImpl{BaseDB: repo.NewBaseDB()}
}

func (g *gasImpl) ListGases(ctx context.Context, q repo.GasQuery) ([]*model.Gas, int64, error) {
	db := g.DBWithContext(ctx).Model(&model.Gas{})

	if q.NameLike != nil && *q.NameLike != "" {
		like := "%" + *q.NameLike + "%"
		db = db.Where("name ILIKE ? OR formula ILIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	q.Limit = utils.Or(q.Limit, 20)

	list := make([]*model.Gas, 0, q.Limit)
	if err := db.Order("id asc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (g *gasImpl) GetGas(ctx context.Context, id int64) (*model.Gas, error) {
	data := &model.Gas{}
	if err := g.DBWithContext(ctx).First(data, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.GasNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (g *gasImpl) BatchGetGases(ctx context.Context, ids []int64) (map[int64]*model.Gas, error) {
	if len(ids) == 0 {
		return map[int64]*model.Gas{}, nil
	}

	list := make([]*model.Gas, 0, len(ids))
	if err := g.DBWithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	result := make(map[int64]*model.Gas, len(list))
	for _, item := range list {
		result[item.ID] = item
	}
	return result, nil
}
