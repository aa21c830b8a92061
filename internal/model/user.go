package model

import "time"

// User roles carried in access tokens.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents an application user record as stored in the
// `users` table.  Registration and login live outside the booking core;
// the core only needs the identity and membership tier a user carries,
// and the seeding tool writes admin rows here.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name used on orders.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hashed password.
//	Membership   – guest, member or vip.
//	Role         – CUSTOMER or ADMIN.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64         // users.id
	Name         string         // users.name
	Email        string         // users.email
	PasswordHash string         // users.password_hash
	Membership   MembershipTier // users.membership
	Role         string         // users.role
	CreatedAt    time.Time      // users.created_at
}

// Customer returns the booking identity of u.
func (u User) Customer() Customer {
	return Customer{Name: u.Name, Email: u.Email, Membership: u.Membership}
}
