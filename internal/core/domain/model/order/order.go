package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order did not come from NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsNotEditable is returned when items or the drop-off address are
	// changed after the order left the Created status.
	ErrOrderIsNotEditable = errors.New("order is not editable")
)

// Order is the aggregate root of one delivery: a shop's goods, bought by a
// customer, carried by a driver.
//
// Invariants:
//   - the shop is always set; the pickup address is the shop's address
//   - totalAmount and totalWeight are always the sums over the items and
//     have no setters
//   - status only moves along the lifecycle graph (see Status)
//   - a driver is set exactly in Assigned, InTransit and Delivered
//
// Every failed operation leaves the order unchanged.
type Order struct {
	id          kernel.UUID
	shopID      kernel.UUID
	customerID  *kernel.UUID
	driverID    *kernel.UUID
	pickup      kernel.Address
	dropoff     kernel.Address
	status      Status
	totalAmount kernel.Money
	totalWeight kernel.Weight
	items       []*Item
	createdAt   time.Time
	updatedAt   time.Time

	events []StatusChanged
	guard  guard.ConstructorGuard
}

// NewOrder opens an empty order in Created status. The drop-off address may
// still be empty; it has to be resolved before the order is submitted.
func NewOrder(id, shopID, customerID kernel.UUID, pickup, dropoff kernel.Address) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:    Created,
		pickup:    pickup,
		dropoff:   dropoff,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	var pickupErr error
	if pickup.IsEmpty() {
		pickupErr = errs.NewValueIsRequiredError("pickup address")
	}

	if err := errors.Join(
		o.setID(id),
		o.setShop(shopID),
		o.setCustomer(&customerID),
		pickupErr,
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the stored state of an order for RestoreOrder.
type Snapshot struct {
	ID         kernel.UUID
	ShopID     kernel.UUID
	CustomerID *kernel.UUID
	DriverID   *kernel.UUID
	Pickup     kernel.Address
	Dropoff    kernel.Address
	Status     Status
	Items      []*Item
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RestoreOrder rebuilds an order from storage. Totals are derived from the items.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		pickup:    s.Pickup,
		dropoff:   s.Dropoff,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	var itemsErr error
	for _, item := range s.Items {
		if err := item.Validate(); err != nil {
			itemsErr = errors.Join(itemsErr, err)
		}
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setShop(s.ShopID),
		o.setCustomer(s.CustomerID),
		o.setDriver(s.DriverID),
		s.Status.Validate(),
		s.Status.CanHaveDriver(s.DriverID != nil),
		itemsErr,
	); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.items = append(make([]*Item, 0, len(s.Items)), s.Items...)
	o.recalculate()
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ShopID() kernel.UUID {
	return o.shopID
}

// CustomerID is nil when the customer account was removed.
func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

// DriverID is nil until the matcher assigns a driver.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

func (o *Order) Pickup() kernel.Address {
	return o.pickup
}

func (o *Order) Dropoff() kernel.Address {
	return o.dropoff
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

func (o *Order) TotalWeight() kernel.Weight {
	return o.totalWeight
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Items returns the order lines in insertion order.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// Item finds a line by identifier.
func (o *Order) Item(itemID kernel.UUID) (*Item, bool) {
	for _, item := range o.items {
		if item.id.IsEqual(itemID) {
			return item, true
		}
	}
	return nil, false
}

// IsEditable reports whether items and the drop-off address can still change.
func (o *Order) IsEditable() bool {
	return o.status == Created
}

// AddItem appends a product line and recomputes the totals.
func (o *Order) AddItem(itemID, productID kernel.UUID, quantity int, unitPrice kernel.Money, unitWeight kernel.Weight) (*Item, error) {
	if !o.IsEditable() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderIsNotEditable, o.id, o.status)
	}

	item, err := NewItem(itemID, productID, quantity, unitPrice, unitWeight)
	if err != nil {
		return nil, err
	}
	if err = o.checkTotals(item, nil); err != nil {
		return nil, err
	}

	o.items = append(o.items, item)
	o.recalculate()
	o.touch()
	return item, nil
}

// UpdateItemQuantity changes the quantity of a line and re-snapshots it from
// the product's current price and weight.
func (o *Order) UpdateItemQuantity(itemID kernel.UUID, quantity int, unitPrice kernel.Money, unitWeight kernel.Weight) (*Item, error) {
	if !o.IsEditable() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderIsNotEditable, o.id, o.status)
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	item, ok := o.Item(itemID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("item", itemID.String())
	}
	next := &Item{quantity: quantity, unitWeight: unitWeight, lineTotal: unitPrice.Mul(quantity)}
	if err := o.checkTotals(next, item); err != nil {
		return nil, err
	}

	item.snapshot(quantity, unitPrice, unitWeight)
	o.recalculate()
	o.touch()
	return item, nil
}

// SetDropoff resolves where the order is delivered to.
func (o *Order) SetDropoff(dropoff kernel.Address) error {
	if !o.IsEditable() {
		return fmt.Errorf("%w: order %s is %s", ErrOrderIsNotEditable, o.id, o.status)
	}
	if dropoff.IsEmpty() {
		return errs.NewValueIsRequiredError("dropoff address")
	}
	o.dropoff = dropoff
	o.touch()
	return nil
}

// Advance moves the order to target on behalf of actor.
//
// Assigned is never reachable through Advance: only the driver matcher
// assigns, through Assign. Submitting requires at least one item and a
// drop-off address.
func (o *Order) Advance(target Status, actor Actor) error {
	if target == Assigned {
		return NewInvalidTransitionError(o.status, target, actor, "drivers are assigned by dispatch only")
	}
	if !o.status.CanTransition(target, actor) {
		return NewInvalidTransitionError(o.status, target, actor, "")
	}

	if target == Submitted {
		if len(o.items) == 0 {
			return NewInvalidTransitionError(o.status, target, actor, "order has no items")
		}
		if o.dropoff.IsEmpty() {
			return NewInvalidTransitionError(o.status, target, actor, "drop-off address is not resolved")
		}
	}

	o.changeStatus(target, actor)
	return nil
}

// Cancel is Advance(Cancelled, actor).
func (o *Order) Cancel(actor Actor) error {
	return o.Advance(Cancelled, actor)
}

// Assign hands a ReadyToCollect order to a driver. Driver eligibility is
// checked by services.DriverMatcher before the call.
func (o *Order) Assign(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransition(Assigned, ActorSystem) {
		return NewInvalidTransitionError(o.status, Assigned, ActorSystem, "")
	}

	o.driverID = &driverID
	o.changeStatus(Assigned, ActorSystem)
	return nil
}

// PullEvents returns the events recorded since the last call and forgets them.
func (o *Order) PullEvents() []StatusChanged {
	events := o.events
	o.events = nil
	return events
}

// recalculate derives the totals from the items. Running it twice gives the same result.
// checkTotals rejects a line that would push the order totals past what a
// stored order can hold. replaced is the line being changed, if any.
func (o *Order) checkTotals(line, replaced *Item) error {
	amount := line.lineTotal
	weight := line.LineWeight()
	for _, item := range o.items {
		if item == replaced {
			continue
		}
		amount = amount.Add(item.lineTotal)
		weight = weight.Add(item.LineWeight())
	}
	if amount.IsGreaterThan(kernel.MaxMoney) {
		return errs.NewValueIsOutOfRangeError("total amount", amount, 0, kernel.MaxMoney)
	}
	if weight.IsGreaterThan(kernel.MaxWeight) {
		return errs.NewValueIsOutOfRangeError("total weight", weight, 0, kernel.MaxWeight)
	}
	return nil
}

func (o *Order) recalculate() {
	var amount kernel.Money
	var weight kernel.Weight
	for _, item := range o.items {
		amount = amount.Add(item.lineTotal)
		weight = weight.Add(item.LineWeight())
	}
	o.totalAmount = amount
	o.totalWeight = weight
}

func (o *Order) changeStatus(target Status, actor Actor) {
	from := o.status
	o.status = target
	o.touch()

	o.events = append(o.events, StatusChanged{
		EventID:    kernel.NewUUID(),
		OrderID:    o.id,
		ShopID:     o.shopID,
		CustomerID: o.customerID,
		DriverID:   o.driverID,
		From:       from,
		To:         target,
		Actor:      actor,
		OccurredAt: o.updatedAt,
	})
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setShop(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shop", err)
	}
	o.shopID = shopID
	return nil
}

func (o *Order) setCustomer(customerID *kernel.UUID) error {
	if customerID == nil {
		return nil
	}
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customer", err)
	}
	id := *customerID
	o.customerID = &id
	return nil
}

func (o *Order) setDriver(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driver", err)
	}
	id := *driverID
	o.driverID = &id
	return nil
}
