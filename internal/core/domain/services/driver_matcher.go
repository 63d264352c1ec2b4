package services

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
)

// ErrNoDriverAvailable is returned when no candidate can take the order.
var ErrNoDriverAvailable = errors.New("no driver available")

// DriverCandidate is a directory entry seen by the matcher: the driver and
// the statuses of the orders it currently holds.
type DriverCandidate struct {
	Driver           *user.User
	ActiveDeliveries []order.Status
}

// IsBusy reports whether the driver holds an order in an active delivery status.
func (c DriverCandidate) IsBusy() bool {
	for _, s := range c.ActiveDeliveries {
		if s.IsActiveDelivery() {
			return true
		}
	}
	return false
}

// DriverMatcher picks drivers for orders that are ready to collect.
//
// A driver is eligible when it is an active user with role driver, its
// capacity is at least the order's total weight, and it holds no order in
// Assigned or InTransit. Among eligible drivers the lowest identifier wins, so
// the choice does not depend on the order candidates arrive in.
type DriverMatcher struct{}

func NewDriverMatcher() DriverMatcher {
	return DriverMatcher{}
}

// IsEligible applies the eligibility rules to one candidate.
func (m DriverMatcher) IsEligible(o *order.Order, c DriverCandidate) bool {
	d := c.Driver
	if d == nil || d.Validate() != nil {
		return false
	}
	if !d.HasRole(user.RoleDriver) || !d.IsActive() {
		return false
	}
	capacity, ok := d.Capacity()
	if !ok || !capacity.AtLeast(o.TotalWeight()) {
		return false
	}
	return !c.IsBusy()
}

// SelectDriver returns the eligible candidate with the lowest identifier
// without touching the order.
func (m DriverMatcher) SelectDriver(o *order.Order, candidates []DriverCandidate) (*user.User, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.ReadyToCollect {
		return nil, order.NewInvalidTransitionError(o.Status(), order.Assigned, order.ActorSystem, "")
	}

	var best *user.User
	for _, c := range candidates {
		if !m.IsEligible(o, c) {
			continue
		}
		if best == nil || c.Driver.ID().Compare(best.ID()) < 0 {
			best = c.Driver
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: order %s weighs %s kg", ErrNoDriverAvailable, o.ID(), o.TotalWeight())
	}
	return best, nil
}

// Dispatch selects a driver and assigns the order to it.
func (m DriverMatcher) Dispatch(o *order.Order, candidates []DriverCandidate) (*user.User, error) {
	driver, err := m.SelectDriver(o, candidates)
	if err != nil {
		return nil, err
	}

	if err = o.Assign(driver.ID()); err != nil {
		return nil, err
	}
	return driver, nil
}
