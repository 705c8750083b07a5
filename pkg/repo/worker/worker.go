package worker

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	resty "github.com/go-resty/resty/v2"

	config "github.com/atmolab/gascalc/internal/config"
	code "github.com/atmolab/gascalc/pkg/common/code"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	repo "github.com/atmolab/gascalc/pkg/repo"
)

const (
	healthTimeout = 2 * time.Second
	taskTimeout   = 10 * time.Second
)

// taskRequest is the worker's task envelope. Data carries the colon-joined
// "<orderId>:<gasId>:<concentration>" string the worker splits on its side;
// the encoding is a wire contract and must not change.
type taskRequest struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type workerImpl struct {
	client *resty.Client
}

func NewWorkerRepo() repo.WorkerRepo {
	baseURL := config.Global().Worker.Addr

	return &workerImpl{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
}

// NewWorkerRepoWithAddr builds a client against an explicit address, test use.
func NewWorkerRepoWithAddr(addr string) repo.WorkerRepo {
	return &workerImpl{
		client: resty.New().
			SetBaseURL(addr).
			SetHeader("Content-Type", "application/json"),
	}
}

func (w *workerImpl) Health(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	res, err := w.client.R().
		SetContext(healthCtx).
		Get("/api/health")
	if err != nil {
		return code.UpstreamUnavailable.WithErr(err)
	}
	if res.StatusCode() != http.StatusOK {
		return code.UpstreamUnavailable.WithMsgf("worker health status %d", res.StatusCode())
	}
	return nil
}

func (w *workerImpl) SubmitTask(ctx context.Context, orderID, gasID int64, concentration float64) error {
	taskCtx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	data := fmt.Sprintf("%d:%d:%s", orderID, gasID, strconv.FormatFloat(concentration, 'f', -1, 64))

	res, err := w.client.R().
		SetContext(taskCtx).
		SetBody(&taskRequest{Type: "calculate", Data: data}).
		Post("/api/tasks")
	if err != nil {
		logger.Errorf(ctx, "SubmitTask order=%d gas=%d err: %v", orderID, gasID, err)
		return code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() != http.StatusCreated {
		logger.Errorf(ctx, "SubmitTask order=%d gas=%d status=%d body=%s",
			orderID, gasID, res.StatusCode(), res.String())
		return code.RPCHttpCodeErr.WithMsgf("worker task status %d", res.StatusCode())
	}
	return nil
}
