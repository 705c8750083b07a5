package gas

import (
	gin "github.com/gin-gonic/gin"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	coreGas "github.com/atmolab/gascalc/pkg/core/gas"
	gasImpl "github.com/atmolab/gascalc/pkg/core/gas/gas"
)

type Handle struct{ svc coreGas.Service }

func NewHandle() *Handle { return &Handle{svc: gasImpl.New()} }

type idURI struct {
	ID int64 `uri:"id" binding:"required"`
}

func (h *Handle) List(ctx *gin.Context) {
	in := &coreGas.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.List(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	in := &idURI{}
	if err := ctx.ShouldBindUri(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Get(ctx, in.ID)
	common.Reply(ctx, err, resp)
}
