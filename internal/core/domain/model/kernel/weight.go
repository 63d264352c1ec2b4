package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// WeightScale is the number of decimal places kept for weights (grams precision).
const WeightScale = 3

// MaxWeight is the largest weight a stored total can hold, numeric(12,3).
var MaxWeight = MustWeight("999999999.999")

// Weight is a non-negative mass in kilograms. It is used both for product and
// order weights and for driver capacity. The zero value is 0 kg.
type Weight struct {
	kg decimal.Decimal
}

// NewWeight validates that kg is not negative.
func NewWeight(kg decimal.Decimal) (Weight, error) {
	if kg.IsNegative() {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%s is negative", kg))
	}
	return Weight{kg: kg.Round(WeightScale)}, nil
}

// WeightFromString parses a decimal string such as "2.5".
func WeightFromString(s string) (Weight, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight", err)
	}
	return NewWeight(d)
}

// MustWeight is WeightFromString for constants known to be valid.
func MustWeight(s string) Weight {
	w, err := WeightFromString(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Weight) Decimal() decimal.Decimal {
	return w.kg
}

func (w Weight) Add(other Weight) Weight {
	return Weight{kg: w.kg.Add(other.kg)}
}

func (w Weight) Mul(quantity int) Weight {
	return Weight{kg: w.kg.Mul(decimal.NewFromInt(int64(quantity))).Round(WeightScale)}
}

// AtLeast reports whether w >= other. A driver with capacity c can carry an
// order of weight o when c.AtLeast(o).
func (w Weight) AtLeast(other Weight) bool {
	return w.kg.GreaterThanOrEqual(other.kg)
}

func (w Weight) IsGreaterThan(other Weight) bool {
	return w.kg.GreaterThan(other.kg)
}

func (w Weight) IsEqual(other Weight) bool {
	return w.kg.Equal(other.kg)
}

func (w Weight) String() string {
	return w.kg.String()
}
