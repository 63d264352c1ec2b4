package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDispatchFailuresQueryHandler struct {
	db *gorm.DB
}

func NewGetDispatchFailuresQueryHandler(db *gorm.DB) GetDispatchFailuresQueryHandler {
	return GetDispatchFailuresQueryHandler{db: db}
}

// Handle lists failures newest first, with the current status of each order.
func (h GetDispatchFailuresQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchFailuresQuery,
) ([]GetDispatchFailuresQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	failures := make([]GetDispatchFailuresQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			f.id,
			f.order_id,
			COALESCE(o.status, ''),
			f.attempts,
			f.last_error,
			f.failed_at,
			f.resolved_at
		FROM dispatch_failures f
		LEFT JOIN orders o ON o.id = f.order_id
		WHERE ? OR f.resolved_at IS NULL
		ORDER BY f.failed_at DESC, f.id
	`, query.IncludeResolved()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp        GetDispatchFailuresQueryResponse
			id, orderID uuid.UUID
			resolvedAt  *time.Time
		)

		err = rows.Scan(
			&id,
			&orderID,
			&resp.OrderStatus,
			&resp.Attempts,
			&resp.LastError,
			&resp.FailedAt,
			&resolvedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		resp.FailedAt = resp.FailedAt.UTC()
		if resolvedAt != nil {
			at := resolvedAt.UTC()
			resp.ResolvedAt = &at
		}
		failures = append(failures, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return failures, nil
}
