package kernel

import (
	"strings"
	"unicode/utf8"

	"marketplace/internal/pkg/errs"
)

// AddressMaxLength is the longest accepted address, in runes.
const AddressMaxLength = 255

// Address is a free-form postal address used for pickup and drop-off points.
// Surrounding whitespace is trimmed. The zero value is the empty (unresolved) address.
type Address struct {
	value string
}

// NewAddress validates and normalizes a non-empty address.
func NewAddress(value string) (Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Address{}, errs.NewValueIsRequiredError("address")
	}
	if n := utf8.RuneCountInString(value); n > AddressMaxLength {
		return Address{}, errs.NewValueIsOutOfRangeError("address length", n, 1, AddressMaxLength)
	}
	return Address{value: value}, nil
}

// RestoreAddress rebuilds an address read from storage. An empty value yields
// the empty address.
func RestoreAddress(value string) (Address, error) {
	if strings.TrimSpace(value) == "" {
		return Address{}, nil
	}
	return NewAddress(value)
}

// IsEmpty reports whether the address has not been resolved yet.
func (a Address) IsEmpty() bool {
	return a.value == ""
}

func (a Address) String() string {
	return a.value
}

func (a Address) IsEqual(other Address) bool {
	return a.value == other.value
}
