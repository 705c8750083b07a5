package order

import (
	"context"
	"errors"

	gorm "gorm.io/gorm"
	clause "gorm.io/gorm/clause"

	code "github.com/atmolab/gascalc/pkg/common/code"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
	utils "github.com/atmolab/gascalc/pkg/utils"
)

type orderImpl struct {
	repo.BaseDB
}

func NewOrderRepo() repo.OrderRepo {
	return &orderImpl{BaseDB: repo.NewBaseDB()}
}

func (o *orderImpl) CreateOrder(ctx context.Context, order *model.Order) error {
	if err := o.DBWithContext(ctx).Create(order).Error; err != nil {
		logger.Errorf(ctx, "CreateOrder err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	data := &model.Order{}
	if err := o.DBWithContext(ctx).First(data, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.OrderNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) GetOrderForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	data := &model.Order{}
	err := o.DBWithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(data, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.OrderNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) FindActiveDraft(ctx context.Context, userID int64) (*model.Order, error) {
	data := &model.Order{}
	err := o.DBWithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.OrderDraft).
		Order("id desc").
		First(data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.RecordNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) UpdateOrder(ctx context.Context, id int64, updates map[string]any) error {
	res := o.DBWithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateOrder err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.OrderNotFound
	}
	return nil
}

func (o *orderImpl) ListOrders(ctx context.Context, q repo.OrderQuery) ([]*model.Order, int64, error) {
	db := o.DBWithContext(ctx).Model(&model.Order{}).
		Where("status != ?", model.OrderDeleted)

	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.FormedFrom != nil {
		db = db.Where("formed_at >= ?", *q.FormedFrom)
	}
	if q.FormedTo != nil {
		db = db.Where("formed_at <= ?", *q.FormedTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	q.Limit = utils.Or(q.Limit, 20)

	list := make([]*model.Order, 0, q.Limit)
	if err := db.Order("created_at desc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (o *orderImpl) CreateLine(ctx context.Context, line *model.OrderLine) (bool, error) {
	// The unique index on (order_id, gas_id) is the authority; conflicting
	// inserts under concurrency degrade to a no-op instead of a duplicate.
	res := o.DBWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "gas_id"}},
			DoNothing: true,
		}).
		Create(line)
	if res.Error != nil {
		logger.Errorf(ctx, "CreateLine err: %+v", res.Error)
		return false, code.CreateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (o *orderImpl) GetLine(ctx context.Context, orderID, gasID int64) (*model.OrderLine, error) {
	data := &model.OrderLine{}
	err := o.DBWithContext(ctx).
		Where("order_id = ? AND gas_id = ?", orderID, gasID).
		First(data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.LineNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (o *orderImpl) ListLines(ctx context.Context, orderID int64) ([]*model.OrderLine, error) {
	list := make([]*model.OrderLine, 0, 8)
	err := o.DBWithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (o *orderImpl) CountLines(ctx context.Context, orderID int64) (int64, error) {
	var count int64
	err := o.DBWithContext(ctx).Model(&model.OrderLine{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return count, nil
}

func (o *orderImpl) UpdateLine(ctx context.Context, orderID, gasID int64, updates map[string]any) error {
	res := o.DBWithContext(ctx).Model(&model.OrderLine{}).
		Where("order_id = ? AND gas_id = ?", orderID, gasID).
		Updates(updates)
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateLine err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.LineNotFound
	}
	return nil
}

func (o *orderImpl) DeleteLine(ctx context.Context, orderID, gasID int64) (int64, error) {
	res := o.DBWithContext(ctx).
		Where("order_id = ? AND gas_id = ?", orderID, gasID).
		Delete(&model.OrderLine{})
	if res.Error != nil {
		logger.Errorf(ctx, "DeleteLine err: %+v", res.Error)
		return 0, code.DeleteDataErr.WithErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (o *orderImpl) SetLineResult(ctx context.Context, orderID, gasID int64, result float64) (int64, error) {
	res := o.DBWithContext(ctx).Model(&model.OrderLine{}).
		Where("order_id = ? AND gas_id = ?", orderID, gasID).
		Update("result", result)
	if res.Error != nil {
		logger.Errorf(ctx, "SetLineResult err: %+v", res.Error)
		return 0, code.UpdateDataErr.WithErr(res.Error)
	}
	return res.RowsAffected, nil
}
