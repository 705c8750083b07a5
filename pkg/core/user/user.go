package user

import (
	"context"
)

// Service covers account registration and session management.
type Service interface {
	// Register creates an account with the USER role.
	Register(ctx context.Context, req *RegisterReq) (*UserResp, error)
	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, req *LoginReq) (*LoginResp, error)
	// Logout voids the presented token until its natural expiry.
	Logout(ctx context.Context, token string) error
	// Me returns the authenticated caller's account.
	Me(ctx context.Context) (*UserResp, error)
}
