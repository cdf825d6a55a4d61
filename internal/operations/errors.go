package operations

import (
	"errors"
	"fmt"

	"todosync/internal/service"
	"todosync/internal/store"
)

// DefaultErrorMessage is shown when a failure carries no usable message.
const DefaultErrorMessage = "Some error occurred"

// ErrRejected matches every failed operation via errors.Is.
var ErrRejected = errors.New("operation rejected")

// Kind classifies why an operation was rejected.
type Kind int

const (
	// KindNetwork is a transport failure: network, non-2xx, decoding, timeout.
	KindNetwork Kind = iota
	// KindApp is a failure declared by the API through a non-zero result code.
	KindApp
	// KindLocal is a precondition checked before any network call.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindApp:
		return "app"
	case KindLocal:
		return "local"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RejectedError is returned by an operation that did not succeed.
type RejectedError struct {
	Op         string
	Kind       Kind
	Message    string
	ResultCode service.ResultCode
	Err        error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RejectedError) Unwrap() error { return e.Err }

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// IsKind reports whether err is a RejectedError of kind k.
func IsKind(err error, k Kind) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected) && rejected.Kind == k
}

// appErrorMessage picks the first server message, then the first field
// error, then the default.
func appErrorMessage(messages []string, fields []service.FieldError) string {
	for _, m := range messages {
		if m != "" {
			return m
		}
	}
	for _, f := range fields {
		if f.Error != "" {
			return f.Error
		}
	}
	return DefaultErrorMessage
}

func (r *Runner) fail(msg string) {
	r.store.Dispatch(store.AppErrorSet{Error: &msg})
	r.store.Dispatch(store.AppStatusChanged{Status: store.StatusFailed})
}

// handleServerAppError records a declared failure and builds the rejection.
func (r *Runner) handleServerAppError(op string, code service.ResultCode, messages []string, fields []service.FieldError) error {
	msg := appErrorMessage(messages, fields)
	r.fail(msg)
	r.log.Warn("operation rejected by server", "op", op, "result_code", int(code), "message", msg)
	return &RejectedError{Op: op, Kind: KindApp, Message: msg, ResultCode: code}
}

// handleServerNetworkError records a transport failure and builds the rejection.
func (r *Runner) handleServerNetworkError(op string, err error) error {
	msg := DefaultErrorMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	r.fail(msg)
	r.log.Warn("operation failed", "op", op, "error", msg)
	return &RejectedError{Op: op, Kind: KindNetwork, Message: msg, Err: err}
}
