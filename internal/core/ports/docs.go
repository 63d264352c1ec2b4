// Package ports declares what the application core needs from the outside:
// repositories behind a unit of work, the dispatch queue, the operator
// channel for dispatch failures and the order event publisher.
package ports
