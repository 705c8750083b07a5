package user

import (
	"context"
	"errors"

	bcrypt "golang.org/x/crypto/bcrypt"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	core "github.com/atmolab/gascalc/pkg/core/user"
	auth "github.com/atmolab/gascalc/pkg/middleware/auth"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
	repo "github.com/atmolab/gascalc/pkg/repo"
	repoUser "github.com/atmolab/gascalc/pkg/repo/user"
)

type userImpl struct {
	userStore repo.UserRepo
}

func New() core.Service {
	return &userImpl{userStore: repoUser.NewUserRepo()}
}

// NewWithRepo wires an explicit store, test use.
func NewWithRepo(store repo.UserRepo) core.Service {
	return &userImpl{userStore: store}
}

func (u *userImpl) Register(ctx context.Context, req *core.RegisterReq) (*core.UserResp, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Errorf(ctx, "Register hash err: %v", err)
		return nil, code.UnDefineErr.WithErr(err)
	}

	data := &model.User{
		Login:        req.Login,
		PasswordHash: string(hash),
		Role:         common.User,
	}
	if err := u.userStore.CreateUser(ctx, data); err != nil {
		return nil, err
	}

	return toResp(data), nil
}

func (u *userImpl) Login(ctx context.Context, req *core.LoginReq) (*core.LoginResp, error) {
	data, err := u.userStore.GetUserByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, code.UserNotFound) {
			// Same failure as a wrong password, logins are not probeable.
			return nil, code.LoginFailed
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(data.PasswordHash), []byte(req.Password)) != nil {
		return nil, code.LoginFailed
	}

	token, expiresAt, err := auth.GenerateToken(data)
	if err != nil {
		return nil, err
	}

	return &core.LoginResp{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toResp(data),
	}, nil
}

func (u *userImpl) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token)
	if err != nil {
		return err
	}
	return auth.BlacklistToken(ctx, token, claims.ExpiresAt.Time)
}

func (u *userImpl) Me(ctx context.Context) (*core.UserResp, error) {
	current := auth.GetCurrentUser(ctx)
	if current == nil {
		return nil, code.UnLogin
	}

	data, err := u.userStore.GetUserByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	return toResp(data), nil
}

func toResp(m *model.User) *core.UserResp {
	return &core.UserResp{
		ID:    m.ID,
		Login: m.Login,
		Role:  m.Role,
	}
}
