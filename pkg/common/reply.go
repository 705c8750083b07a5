package common

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	code "github.com/atmolab/gascalc/pkg/common/code"
)

type Error struct {
	Msg string `json:"msg"`
}

// Resp is the uniform response envelope.
type Resp struct {
	Code  int    `json:"code"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Reply writes data on success, or the mapped error envelope otherwise.
// Usage: common.Reply(ctx, err) or common.Reply(ctx, err, resp).
func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}

	resp := &Resp{Code: 0}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

func ReplyErr(ctx *gin.Context, err error) {
	ec, ok := err.(*code.ErrCode)
	if !ok {
		ec = code.UnDefineErr.WithErr(err)
	}
	ctx.JSON(ec.Status, &Resp{
		Code:  ec.Code,
		Error: &Error{Msg: ec.String()},
	})
}
