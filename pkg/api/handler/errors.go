package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/LENAX/task-order/pkg/core/dag"
	"github.com/LENAX/task-order/pkg/core/input"
	"github.com/LENAX/task-order/pkg/service"
	"github.com/LENAX/task-order/pkg/storage"
)

// statusFor 错误到HTTP状态码的映射
func statusFor(err error) int {
	var parseErr *input.ParseError
	switch {
	case errors.As(err, &parseErr),
		errors.Is(err, dag.ErrInvalidSize),
		errors.Is(err, dag.ErrOutOfRange),
		errors.Is(err, service.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, dag.ErrCycleDetected):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
