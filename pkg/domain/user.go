package domain

// Role is the console role of a signed-in operator.
type Role string

const (
	// RoleAdmin manages users, QR codes and system settings.
	RoleAdmin Role = "admin"
	// RoleResident generates guest QR codes and reads household logs.
	RoleResident Role = "resident"
	// RoleSecurity scans QR codes at the gate and reads guest logs.
	RoleSecurity Role = "security"
)

// ParseRole maps a claim value to a Role. Unknown and empty values map to
// RoleResident, the least privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleSecurity:
		return Role(s)
	default:
		return RoleResident
	}
}

// User is the record of an authenticated operator as reported by the
// identity service. A nil *User means no session is active.
type User struct {
	// UID is the identity service user id (the ID token subject).
	UID string `json:"uid"`
	// Email is the sign-in email address.
	Email string `json:"email,omitempty"`
	// DisplayName is the optional profile name.
	DisplayName string `json:"displayName,omitempty"`
	// EmailVerified reports whether the identity service verified Email.
	EmailVerified bool `json:"emailVerified"`
	// Role selects dashboards and restricted views.
	Role Role `json:"role"`
}

// SameSession reports whether a and b describe the same session state:
// both absent, or both present with the same UID.
func SameSession(a, b *User) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.UID == b.UID
}
