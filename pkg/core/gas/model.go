package gas

import (
	common "github.com/atmolab/gascalc/pkg/common"
)

type ListReq struct {
	common.PageReq
	// Name matches name or formula, case-insensitive substring.
	Name string `form:"name" json:"name"`
}

type GasResp struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Formula     string  `json:"formula"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
}
