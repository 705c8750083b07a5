package code

import (
	"fmt"
	"net/http"
)

// ErrCode is the error type used across the service. Business and repo layers
// return ErrCode values; the web layer maps them onto the response envelope.
type ErrCode struct {
	Code   int    `json:"code"`
	Status int    `json:"-"`
	Msg    string `json:"msg"`
	cause  error
}

func New(codeVal int, status int, msg string) *ErrCode {
	return &ErrCode{Code: codeVal, Status: status, Msg: msg}
}

func (e *ErrCode) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *ErrCode) String() string {
	return e.Msg
}

// WithMsg returns a copy carrying a more specific message.
func (e *ErrCode) WithMsg(msg string) *ErrCode {
	return &ErrCode{Code: e.Code, Status: e.Status, Msg: msg, cause: e.cause}
}

func (e *ErrCode) WithMsgf(format string, args ...any) *ErrCode {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

// WithErr returns a copy wrapping the underlying cause.
func (e *ErrCode) WithErr(err error) *ErrCode {
	return &ErrCode{Code: e.Code, Status: e.Status, Msg: e.Msg, cause: err}
}

func (e *ErrCode) Unwrap() error {
	return e.cause
}

// Is makes errors.Is match any derivative of the same code.
func (e *ErrCode) Is(target error) bool {
	t, ok := target.(*ErrCode)
	return ok && t.Code == e.Code
}

var (
	// Generic
	ParamErr    = New(10001, http.StatusBadRequest, "invalid request parameter")
	UnDefineErr = New(10002, http.StatusInternalServerError, "internal error")

	// Auth
	UnLogin       = New(11001, http.StatusUnauthorized, "authorization required")
	InvalidToken  = New(11002, http.StatusUnauthorized, "invalid or expired token")
	AccessDenied  = New(11003, http.StatusForbidden, "access denied")
	LoginFailed   = New(11004, http.StatusUnauthorized, "wrong login or password")
	LoginExists   = New(11005, http.StatusConflict, "login already taken")
	AsyncTokenErr = New(11006, http.StatusUnauthorized, "invalid async service token")

	// Records
	RecordNotFound = New(12001, http.StatusNotFound, "record not found")
	OrderNotFound  = New(12002, http.StatusNotFound, "order not found")
	GasNotFound    = New(12003, http.StatusNotFound, "gas not found")
	LineNotFound   = New(12004, http.StatusNotFound, "gas not found in order")
	UserNotFound   = New(12005, http.StatusNotFound, "user not found")

	// Order state machine
	InvalidStateTransition = New(13001, http.StatusConflict, "operation not allowed in current order status")
	ValidationErr          = New(13002, http.StatusBadRequest, "validation failed")

	// Persistence
	CreateDataErr  = New(14001, http.StatusInternalServerError, "create record failed")
	UpdateDataErr  = New(14002, http.StatusInternalServerError, "update record failed")
	DeleteDataErr  = New(14003, http.StatusInternalServerError, "delete record failed")
	QueryRecordErr = New(14004, http.StatusInternalServerError, "query record failed")

	// Outbound worker. Recovered internally, never returned to API callers.
	UpstreamUnavailable = New(15001, http.StatusBadGateway, "async worker unavailable")
	RPCHttpErr          = New(15002, http.StatusBadGateway, "outbound http request failed")
	RPCHttpCodeErr      = New(15003, http.StatusBadGateway, "outbound http unexpected status")
)
