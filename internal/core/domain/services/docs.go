// Package services holds domain logic that spans aggregates.
//
// DriverMatcher decides which driver gets a ready order. It works on data the
// caller loaded (candidates with their current delivery load) and never talks
// to storage; the command handler provides locking and the conditional write.
package services
