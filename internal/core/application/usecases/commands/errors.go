package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderNotFound matches errs.ErrObjectNotFound as well.
	ErrOrderNotFound = fmt.Errorf("order %w", errs.ErrObjectNotFound)

	// ErrNoDriverAvailable is returned when no driver can take the order right now.
	ErrNoDriverAvailable = services.ErrNoDriverAvailable

	// ErrConcurrencyConflict means another dispatch claimed the chosen driver or
	// changed the order between the search and the write.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrNotReady matches every NotReadyError.
	ErrNotReady = errors.New("order is not ready to collect")
)

// NotReadyError is returned when a dispatch finds the order outside ReadyToCollect.
type NotReadyError struct {
	OrderID kernel.UUID
	Status  order.Status
}

func NewNotReadyError(orderID kernel.UUID, status order.Status) *NotReadyError {
	return &NotReadyError{OrderID: orderID, Status: status}
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s: order %s is %s", ErrNotReady, e.OrderID, e.Status)
}

func (e *NotReadyError) Unwrap() error {
	return ErrNotReady
}

// IsSettled reports whether the order can never become ready again, so
// retrying the dispatch is pointless.
func (e *NotReadyError) IsSettled() bool {
	return e.Status.IsPastReadiness()
}

// IsRetryable classifies dispatch errors. Validation errors, invalid
// transitions and settled orders are final; everything else, including
// storage failures, may succeed later.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errs.IsValidation(err) || errors.Is(err, order.ErrInvalidTransition) {
		return false
	}
	var notReady *NotReadyError
	if errors.As(err, &notReady) {
		return !notReady.IsSettled()
	}
	return true
}

func orderNotFound(id kernel.UUID) error {
	return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}
