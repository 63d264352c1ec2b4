// Package kernel provides the value objects shared by every aggregate of the
// marketplace domain.
//
// The package includes:
//   - UUID: identifier value object with validation and a total order
//   - Address: pickup / drop-off address, empty until resolved
//   - Money: non-negative amount rounded to cents (shopspring/decimal)
//   - Weight: non-negative mass in kilograms (shopspring/decimal)
//
// All values are immutable. Money and Weight use exact decimal arithmetic so that
// order totals are exact sums of their lines.
package kernel
