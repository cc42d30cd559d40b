package model

// Caller roles resolved by the identity middleware. The core trusts
// these values; how they are established is an auth concern outside
// this service.
const (
    RoleUser     = "USER"
    RoleEmployee = "EMPLOYEE"
    RoleAdmin    = "ADMIN"
)

// StaffRole reports whether the role may operate tables and cancel
// other users' reservations.
func StaffRole(role string) bool {
    return role == RoleEmployee || role == RoleAdmin
}
