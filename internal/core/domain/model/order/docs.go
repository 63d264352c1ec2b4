// Package order holds the Order aggregate: its line items, the totals derived
// from them, and the lifecycle state machine.
//
// Items can only change while the order is Created. Every item change
// recomputes totalAmount (Σ line totals) and totalWeight (Σ quantity × unit
// weight) in the same call, so a stored order never carries stale totals.
//
// Status changes go through Advance (customer, shop and driver actions) or
// Assign (the driver matcher). Both record a StatusChanged event that the
// unit of work publishes after commit.
package order
