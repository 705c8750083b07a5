package user

import (
	"strings"

	gin "github.com/gin-gonic/gin"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	coreUser "github.com/atmolab/gascalc/pkg/core/user"
	userImpl "github.com/atmolab/gascalc/pkg/core/user/user"
)

type Handle struct{ svc coreUser.Service }

func NewHandle() *Handle { return &Handle{svc: userImpl.New()} }

func (h *Handle) Register(ctx *gin.Context) {
	in := &coreUser.RegisterReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Register(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Login(ctx *gin.Context) {
	in := &coreUser.LoginReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Login(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Logout(ctx *gin.Context) {
	token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		common.ReplyErr(ctx, code.UnLogin)
		return
	}

	common.Reply(ctx, h.svc.Logout(ctx, token))
}

func (h *Handle) Me(ctx *gin.Context) {
	resp, err := h.svc.Me(ctx)
	common.Reply(ctx, err, resp)
}
