package user

import (
	"context"
	"errors"
	"strings"

	gorm "gorm.io/gorm"

	code "github.com/atmolab/gascalc/pkg/common/code"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
)

type userImpl struct {
	repo.BaseDB
}

func NewUserRepo() repo.UserRepo {
	return &userImpl{BaseDB: repo.NewBaseDB()}
}

func (u *userImpl) CreateUser(ctx context.Context, user *model.User) error {
	if err := u.DBWithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "uniq_users_login") {
			return code.LoginExists
		}
		logger.Errorf(ctx, "CreateUser err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (u *userImpl) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	data := &model.User{}
	if err := u.DBWithContext(ctx).First(data, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.UserNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (u *userImpl) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	data := &model.User{}
	if err := u.DBWithContext(ctx).Where("login = ?", login).First(data).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.UserNotFound
		}
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}
