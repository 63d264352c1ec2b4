package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for unknown ids.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	row := db.Raw(`
		SELECT
			id,
			shop_id,
			customer_id,
			driver_id,
			pickup_address,
			dropoff_address,
			status,
			total_amount,
			total_weight,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		resp                 GetOrderQueryResponse
		id, shopID           uuid.UUID
		customerID, driverID *uuid.UUID
		status               string
		amount, weight       decimal.Decimal
	)
	err := row.Scan(
		&id,
		&shopID,
		&customerID,
		&driverID,
		&resp.Pickup,
		&resp.Dropoff,
		&status,
		&amount,
		&weight,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.ShopID, err = kernel.UUIDFromBytes(shopID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = optionalID(customerID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.DriverID, err = optionalID(driverID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Status, err = order.ParseStatus(status); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.TotalAmount, err = kernel.NewMoney(amount); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.TotalWeight, err = kernel.NewWeight(weight); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()

	resp.Items, err = h.items(db, id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) items(db *gorm.DB, orderID uuid.UUID) ([]OrderItemResponse, error) {
	rows, err := db.Raw(`
		SELECT
			id,
			product_id,
			quantity,
			unit_price,
			unit_weight,
			line_total
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	for rows.Next() {
		var (
			item                         OrderItemResponse
			id, productID                uuid.UUID
			unitPrice, unitWeight, total decimal.Decimal
		)
		if err = rows.Scan(&id, &productID, &item.Quantity, &unitPrice, &unitWeight, &total); err != nil {
			return nil, err
		}
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = kernel.NewMoney(unitPrice); err != nil {
			return nil, err
		}
		if item.UnitWeight, err = kernel.NewWeight(unitWeight); err != nil {
			return nil, err
		}
		if item.LineTotal, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
