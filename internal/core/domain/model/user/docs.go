// Package user is the read model of the user directory consumed by the order core.
//
// A User has exactly one Role and, except for administrators, a role-specific
// Profile: DriverProfile (vehicle, capacity), CustomerProfile (drop-off address,
// payment methods) or ShopProfile (pickup address, accepted payments, categories).
// Profile is a closed variant; the kind must match the role.
//
// Registration and authentication live outside this service; users reach the
// core through the directory repository.
package user
