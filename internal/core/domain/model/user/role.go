package user

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role is the kind of marketplace account.
type Role string

const (
	RoleShop     Role = "shop"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a stored or transported role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleShop, RoleDriver, RoleCustomer, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}
