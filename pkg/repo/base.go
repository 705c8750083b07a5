package repo

import (
	"context"

	gorm "gorm.io/gorm"

	db "github.com/atmolab/gascalc/pkg/middleware/db"
)

// BaseDB is the datastore access every repo implementation embeds.
type BaseDB interface {
	DBWithContext(ctx context.Context) *gorm.DB
	ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

func NewBaseDB() BaseDB {
	return db.DB()
}
