package model

import "strings"

// Role is the capability level attached to an authenticated user.  It
// mirrors the users.role column; only two roles exist in the hotel
// system.
type Role string

const (
    RoleCustomer Role = "CUSTOMER"
    RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a role claim.  Unknown values yield "" and false.
func ParseRole(s string) (Role, bool) {
    switch Role(strings.ToUpper(strings.TrimSpace(s))) {
    case RoleCustomer:
        return RoleCustomer, true
    case RoleAdmin:
        return RoleAdmin, true
    }
    return "", false
}

// Principal is the identity acting on a request as resolved from the
// access token.  It is the only input used for capability checks.
//
// Fields:
//  UserID – users.id of the caller.
//  Role   – role claim carried by the token.
type Principal struct {
    UserID uint64
    Role   Role
}

// IsAdmin reports whether the principal may bypass ownership checks.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Owns reports whether the booking belongs to the principal.
func (p Principal) Owns(b *Booking) bool { return b != nil && b.UserID == p.UserID }
