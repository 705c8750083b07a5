package order

import (
	gin "github.com/gin-gonic/gin"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	coreOrder "github.com/atmolab/gascalc/pkg/core/order"
	orderImpl "github.com/atmolab/gascalc/pkg/core/order/order"
)

type Handle struct{ svc coreOrder.Service }

func NewHandle() *Handle { return &Handle{svc: orderImpl.New()} }

type orderURI struct {
	ID int64 `uri:"id" binding:"required"`
}

type lineURI struct {
	ID    int64 `uri:"id" binding:"required"`
	GasID int64 `uri:"gasId" binding:"required"`
}

type cartGasURI struct {
	GasID int64 `uri:"gasId" binding:"required"`
}

func (h *Handle) AddToCart(ctx *gin.Context) {
	in := &cartGasURI{}
	if err := ctx.ShouldBindUri(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.AddToCart(ctx, in.GasID)
	common.Reply(ctx, err, resp)
}

func (h *Handle) RemoveFromCart(ctx *gin.Context) {
	in := &cartGasURI{}
	if err := ctx.ShouldBindUri(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	common.Reply(ctx, h.svc.RemoveFromCart(ctx, in.GasID))
}

func (h *Handle) Cart(ctx *gin.Context) {
	resp, err := h.svc.Cart(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) CartSummary(ctx *gin.Context) {
	resp, err := h.svc.CartSummary(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) List(ctx *gin.Context) {
	in := &coreOrder.ListReq{}
	if err := ctx.ShouldBindQuery(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.List(ctx, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	in := &orderURI{}
	if err := ctx.ShouldBindUri(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Get(ctx, in.ID)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Update(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	in := &coreOrder.UpdateOrderReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	common.Reply(ctx, h.svc.UpdateOrder(ctx, uri.ID, in))
}

func (h *Handle) AddLine(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	in := &coreOrder.AddLineReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	common.Reply(ctx, h.svc.AddLine(ctx, uri.ID, in))
}

func (h *Handle) GetLine(ctx *gin.Context) {
	uri := &lineURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.GetLine(ctx, uri.ID, uri.GasID)
	common.Reply(ctx, err, resp)
}

func (h *Handle) UpdateLine(ctx *gin.Context) {
	uri := &lineURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	in := &coreOrder.UpdateLineReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	common.Reply(ctx, h.svc.UpdateLine(ctx, uri.ID, uri.GasID, in))
}

func (h *Handle) RemoveLine(ctx *gin.Context) {
	uri := &lineURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	common.Reply(ctx, h.svc.RemoveLine(ctx, uri.ID, uri.GasID))
}

func (h *Handle) Form(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Form(ctx, uri.ID)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Approve(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	in := &coreOrder.ModerateReq{}
	// The body is optional, an empty comment is fine.
	_ = ctx.ShouldBindJSON(in)

	resp, err := h.svc.Approve(ctx, uri.ID, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Reject(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	in := &coreOrder.ModerateReq{}
	_ = ctx.ShouldBindJSON(in)

	resp, err := h.svc.Reject(ctx, uri.ID, in)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	common.Reply(ctx, h.svc.Delete(ctx, uri.ID))
}

func (h *Handle) Preview(ctx *gin.Context) {
	uri := &orderURI{}
	if err := ctx.ShouldBindUri(uri); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Preview(ctx, uri.ID)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Reconcile(ctx *gin.Context) {
	in := &coreOrder.ReconcileReq{}
	if err := ctx.ShouldBindJSON(in); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}

	resp, err := h.svc.Reconcile(ctx, in)
	common.Reply(ctx, err, resp)
}
