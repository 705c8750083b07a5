package user

import (
	"time"

	common "github.com/atmolab/gascalc/pkg/common"
)

type RegisterReq struct {
	Login    string `json:"login" binding:"required,min=3,max=120"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserResp `json:"user"`
}

type UserResp struct {
	ID    int64       `json:"id"`
	Login string      `json:"login"`
	Role  common.Role `json:"role"`
}
