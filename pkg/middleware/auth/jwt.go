package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	config "github.com/atmolab/gascalc/internal/config"
	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	model "github.com/atmolab/gascalc/pkg/model"
)

// Claims carried in the access token. Subject duplicates UID as a string so
// standard claim introspection keeps working.
type Claims struct {
	UID   int64       `json:"uid"`
	Login string      `json:"login"`
	Role  common.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the user with the configured lifetime.
func GenerateToken(user *model.User) (string, time.Time, error) {
	conf := config.Global().JWT
	now := time.Now()
	expiresAt := now.Add(time.Duration(conf.ExpireHours) * time.Hour)

	claims := &Claims{
		UID:   user.ID,
		Login: user.Login,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(conf.Secret))
	if err != nil {
		return "", time.Time{}, code.UnDefineErr.WithErr(err)
	}
	return token, expiresAt, nil
}

// ParseToken validates signature and expiry and returns the claims.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, code.InvalidToken.WithMsgf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(config.Global().JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, code.InvalidToken.WithErr(err)
	}
	return claims, nil
}
