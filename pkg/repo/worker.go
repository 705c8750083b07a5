package repo

import (
	"context"
)

// WorkerRepo is the outbound client for the external calculation service.
type WorkerRepo interface {
	// Health probes GET /api/health; nil means the worker answered 200.
	Health(ctx context.Context) error
	// SubmitTask posts one per-line compute task. The task data string is the
	// colon-joined "<orderId>:<gasId>:<concentration>" contract the worker
	// parses on its side.
	SubmitTask(ctx context.Context, orderID, gasID int64, concentration float64) error
}
