package repo

import (
	"context"

	model "github.com/atmolab/gascalc/pkg/model"
)

// GasQuery filters the catalog listing.
type GasQuery struct {
	NameLike *string
	Offset   int
	Limit    int
}

type GasRepo interface {
	// ListGases returns the matching page plus the unpaged total.
	ListGases(ctx context.Context, q GasQuery) ([]*model.Gas, int64, error)
	GetGas(ctx context.Context, id int64) (*model.Gas, error)
	// BatchGetGases resolves ids to rows; missing ids are simply absent.
	BatchGetGases(ctx context.Context, ids []int64) (map[int64]*model.Gas, error)
}
