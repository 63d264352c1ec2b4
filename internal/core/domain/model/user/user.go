package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrUserIsNotConstructed is returned when a User did not come from NewUser or RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")
	// ErrProfileDoesNotMatchRole is returned when a profile kind is attached to the wrong role.
	ErrProfileDoesNotMatchRole = errors.New("profile does not match role")
)

// User is a directory entry. The core only reads users: it checks roles when
// linking them to orders and reads driver capacity and customer/shop addresses.
type User struct {
	id       kernel.UUID
	email    string
	username string
	role     Role
	active   bool
	profile  Profile
	guard    guard.ConstructorGuard
}

// NewUser creates an active user. A nil profile is replaced with the role's
// default profile (drivers get DefaultDriverCapacity); admins never have one.
func NewUser(id kernel.UUID, email, username string, role Role, profile Profile) (*User, error) {
	if profile == nil {
		profile = defaultProfile(role)
	}
	return RestoreUser(id, email, username, role, true, profile)
}

// RestoreUser rebuilds a user from storage.
func RestoreUser(
	id kernel.UUID,
	email, username string,
	role Role,
	active bool,
	profile Profile,
) (*User, error) {
	u := &User{
		active: active,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setUsername(username),
		u.setRoleAndProfile(role, profile),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate ensures the user was built by a constructor.
func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Username() string {
	return u.username
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) IsActive() bool {
	return u.active
}

func (u *User) Profile() Profile {
	return u.profile
}

// HasRole reports whether the user holds role r.
func (u *User) HasRole(r Role) bool {
	return u.role == r
}

// DriverProfile returns the driver profile when the user is a driver.
func (u *User) DriverProfile() (DriverProfile, bool) {
	p, ok := u.profile.(DriverProfile)
	return p, ok
}

// CustomerProfile returns the customer profile when the user is a customer.
func (u *User) CustomerProfile() (CustomerProfile, bool) {
	p, ok := u.profile.(CustomerProfile)
	return p, ok
}

// ShopProfile returns the shop profile when the user is a shop.
func (u *User) ShopProfile() (ShopProfile, bool) {
	p, ok := u.profile.(ShopProfile)
	return p, ok
}

// Capacity returns the declared capacity of a driver, or false for other roles.
func (u *User) Capacity() (kernel.Weight, bool) {
	p, ok := u.DriverProfile()
	if !ok {
		return kernel.Weight{}, false
	}
	return p.Capacity(), true
}

// Address returns the shop's pickup or the customer's drop-off address.
// It is empty for drivers, admins and users that never set one.
func (u *User) Address() kernel.Address {
	switch p := u.profile.(type) {
	case CustomerProfile:
		return p.Address()
	case ShopProfile:
		return p.Address()
	default:
		return kernel.Address{}
	}
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not an email address", email))
	}
	u.email = strings.ToLower(email)
	return nil
}

func (u *User) setUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}
	if len(username) > 150 {
		return errs.NewValueIsOutOfRangeError("username length", len(username), 1, 150)
	}
	u.username = strings.ToLower(username)
	return nil
}

func (u *User) setRoleAndProfile(role Role, profile Profile) error {
	if err := role.Validate(); err != nil {
		return err
	}

	switch {
	case role == RoleAdmin && profile != nil:
		return fmt.Errorf("%w: admin cannot have a %s profile", ErrProfileDoesNotMatchRole, profile.Role())
	case role != RoleAdmin && profile == nil:
		return errs.NewValueIsRequiredError(role.String() + " profile")
	case profile != nil && profile.Role() != role:
		return fmt.Errorf("%w: %s profile on a %s", ErrProfileDoesNotMatchRole, profile.Role(), role)
	}

	u.role = role
	u.profile = profile
	return nil
}
