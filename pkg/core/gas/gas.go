package gas

import (
	"context"

	common "github.com/atmolab/gascalc/pkg/common"
)

// Service exposes the read-only gas catalog.
type Service interface {
	// List returns a page of the catalog, optionally filtered by name or
	// formula substring.
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*GasResp], error)
	// Get returns one gas by id.
	Get(ctx context.Context, id int64) (*GasResp, error)
}
