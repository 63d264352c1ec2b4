package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns active orders, oldest first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			shop_id,
			driver_id,
			status,
			total_amount,
			total_weight,
			updated_at
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY created_at, id
	`, order.Delivered.String(), order.Cancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp           GetActiveOrdersQueryResponse
			id, shopID     uuid.UUID
			driverID       *uuid.UUID
			status         string
			amount, weight decimal.Decimal
		)

		err = rows.Scan(
			&id,
			&shopID,
			&driverID,
			&status,
			&amount,
			&weight,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.ShopID, err = kernel.UUIDFromBytes(shopID[:]); err != nil {
			return nil, err
		}
		if resp.DriverID, err = optionalID(driverID); err != nil {
			return nil, err
		}
		if resp.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if resp.TotalAmount, err = kernel.NewMoney(amount); err != nil {
			return nil, err
		}
		if resp.TotalWeight, err = kernel.NewWeight(weight); err != nil {
			return nil, err
		}
		resp.UpdatedAt = resp.UpdatedAt.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
