package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetDispatchFailuresQueryIsNotConstructed = errors.New(
	"GetDispatchFailuresQuery must be created via NewGetDispatchFailuresQuery constructor",
)

// GetDispatchFailuresQuery is the operator view of dispatches that gave up.
type GetDispatchFailuresQuery struct {
	includeResolved bool

	guard guard.ConstructorGuard
}

func NewGetDispatchFailuresQuery(includeResolved bool) GetDispatchFailuresQuery {
	return GetDispatchFailuresQuery{
		includeResolved: includeResolved,
		guard:           guard.NewConstructorGuard(),
	}
}

func (q GetDispatchFailuresQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchFailuresQueryIsNotConstructed)
}

func (q GetDispatchFailuresQuery) IncludeResolved() bool {
	return q.includeResolved
}

type GetDispatchFailuresQueryResponse struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	OrderStatus string
	Attempts    int
	LastError   string
	FailedAt    time.Time
	ResolvedAt  *time.Time
}
