package access

// RoleKind is the closed set of role names the identity data may carry.
// Role rows are matched by display name exactly once, here, instead of
// string-comparing names throughout the resolver.
type RoleKind int

const (
	RoleNone RoleKind = iota
	RoleUser
	RoleAuditor
	RoleModerator
	RoleAdmin
	RoleDistributor
)

func roleKindFromName(name string) RoleKind {
	switch name {
	case "User":
		return RoleUser
	case "Auditor":
		return RoleAuditor
	case "Moderator":
		return RoleModerator
	case "Admin":
		return RoleAdmin
	case "Distributor":
		return RoleDistributor
	default:
		return RoleNone
	}
}

func (k RoleKind) String() string {
	switch k {
	case RoleUser:
		return "User"
	case RoleAuditor:
		return "Auditor"
	case RoleModerator:
		return "Moderator"
	case RoleAdmin:
		return "Admin"
	case RoleDistributor:
		return "Distributor"
	default:
		return "None"
	}
}

// AccessType is the coarse routing category the route gate matches against.
type AccessType string

const (
	AccessUser      AccessType = "user"
	AccessAdmin     AccessType = "admin"
	AccessAuditor   AccessType = "auditor"
	AccessModerator AccessType = "moderator"
)

func ParseAccessType(s string) (AccessType, bool) {
	switch AccessType(s) {
	case AccessUser, AccessAdmin, AccessAuditor, AccessModerator:
		return AccessType(s), true
	default:
		return "", false
	}
}
