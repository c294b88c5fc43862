package utils

import "strings"

// Role is the closed set of caller roles in the booking domain.
type Role string

const (
	RoleNutritionist Role = "NUTRITIONIST"
	RoleClient       Role = "CLIENT"
)

// ParseRole maps a stored or submitted role string onto the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleNutritionist:
		return RoleNutritionist, true
	case RoleClient:
		return RoleClient, true
	default:
		return "", false
	}
}

func (r Role) String() string {
	return string(r)
}
