package utils

import (
	"strings"
)

const (
	RoleChief    = "chief"
	RoleManager  = "manager"
	RoleSupplier = "supplier"
)

var ValidUserRoles = map[string]bool{
	RoleChief:    true,
	RoleManager:  true,
	RoleSupplier: true,
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// Returns the normalized role (lowercase) and a boolean indicating if it's valid.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	return normalized, ValidUserRoles[normalized]
}

// IsStaffRole reports whether role belongs to the store's own staff (chief or manager).
func IsStaffRole(role string) bool {
	role = strings.ToLower(role)
	return role == RoleChief || role == RoleManager
}
