package order

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Created ─> Submitted ─> Pending ─> ReadyToCollect ─> Assigned ─> InTransit ─> Delivered
//	   │           │           │              │
//	   └───────────┴───────────┴──────────────┴──> Cancelled
//
// Steps are never skipped and never reversed. Cancelled and Delivered are final.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Created
	Submitted
	Pending
	ReadyToCollect
	Assigned
	InTransit
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Created:        "created",
	Submitted:      "submitted",
	Pending:        "pending",
	ReadyToCollect: "ready_to_collect",
	Assigned:       "assigned",
	InTransit:      "in_transit",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Created, Submitted, Pending, ReadyToCollect, Assigned, InTransit, Delivered, Cancelled}
}

// ActiveDeliveryStatuses are the statuses in which an order occupies its driver.
func ActiveDeliveryStatuses() []Status {
	return []Status{Assigned, InTransit}
}

// ParseStatus converts the stored name of a status, e.g. "ready_to_collect".
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsFinal reports whether no transition leaves s.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// IsActiveDelivery reports whether an order in s blocks its driver from new work.
func (s Status) IsActiveDelivery() bool {
	return s == Assigned || s == InTransit
}

// IsPastReadiness reports whether s can no longer become ReadyToCollect.
func (s Status) IsPastReadiness() bool {
	return s == Assigned || s == InTransit || s == Delivered || s == Cancelled
}

// CanHaveDriver rejects a driver on an order that was never assigned. An
// assigned order may have lost its driver reference when the driver's
// account was removed, so a missing driver is accepted there.
func (s Status) CanHaveDriver(hasDriver bool) error {
	assigned := s == Assigned || s == InTransit || s == Delivered
	if hasDriver && !assigned {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s order cannot have a driver", s))
	}
	return nil
}

// Actor is who requests a status change.
type Actor int

const (
	ActorUnknown Actor = iota
	ActorCustomer
	ActorShop
	ActorDriver
	// ActorSystem is the driver matcher.
	ActorSystem
)

var actorNames = map[Actor]string{
	ActorCustomer: "customer",
	ActorShop:     "shop",
	ActorDriver:   "driver",
	ActorSystem:   "system",
}

// ParseActor converts an actor name such as "shop".
func ParseActor(s string) (Actor, error) {
	for actor, name := range actorNames {
		if name == s {
			return actor, nil
		}
	}
	return ActorUnknown, errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%q is not a valid actor", s))
}

func (a Actor) Validate() error {
	if _, ok := actorNames[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%d is not a valid actor", a))
	}
	return nil
}

func (a Actor) String() string {
	if name, ok := actorNames[a]; ok {
		return name
	}
	return "unknown"
}

type edge struct {
	from Status
	to   Status
}

// transitions is the whole lifecycle graph with the actors allowed on each edge.
// Anything not listed is an invalid transition.
var transitions = map[edge][]Actor{
	{Created, Submitted}:        {ActorCustomer},
	{Submitted, Pending}:        {ActorShop},
	{Pending, ReadyToCollect}:   {ActorShop},
	{ReadyToCollect, Assigned}:  {ActorSystem},
	{Assigned, InTransit}:       {ActorDriver},
	{InTransit, Delivered}:      {ActorDriver},
	{Created, Cancelled}:        {ActorCustomer, ActorShop},
	{Submitted, Cancelled}:      {ActorCustomer, ActorShop},
	{Pending, Cancelled}:        {ActorCustomer, ActorShop},
	{ReadyToCollect, Cancelled}: {ActorCustomer, ActorShop},
}

// CanTransition reports whether actor may move an order from s to target.
// It is defined for every (state, target, actor) triple.
func (s Status) CanTransition(target Status, actor Actor) bool {
	for _, allowed := range transitions[edge{from: s, to: target}] {
		if allowed == actor {
			return true
		}
	}
	return false
}

// Next returns the status that follows s on the main path, or Unknown for
// final statuses.
func (s Status) Next() Status {
	switch s {
	case Created, Submitted, Pending, ReadyToCollect, Assigned, InTransit:
		return s + 1
	default:
		return Unknown
	}
}

// ErrInvalidTransition matches every InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError is returned when a status change is not allowed.
// The order is left untouched.
type InvalidTransitionError struct {
	From   Status
	To     Status
	Actor  Actor
	Reason string
}

func NewInvalidTransitionError(from, to Status, actor Actor, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Actor: actor, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s -> %s by %s", ErrInvalidTransition, e.From, e.To, e.Actor)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
