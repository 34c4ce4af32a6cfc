package internal

// Role is the employee role enum stored in the employees table and embedded
// in access tokens.
type Role string

const (
	RoleCEO       Role = "CEO"
	RoleDirector  Role = "Director"
	RoleHR        Role = "HR"
	RoleManager   Role = "Manager"
	RoleTeamLead  Role = "Team Lead"
	RoleDeveloper Role = "Developer"
)

// AllRoles is the enum membership list used by validation.
var AllRoles = []Role{RoleCEO, RoleDirector, RoleHR, RoleManager, RoleTeamLead, RoleDeveloper}

// AdminRoles may read and mutate other employees' records.
var AdminRoles = []Role{RoleCEO, RoleDirector, RoleHR}

func ValidRole(r Role) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role bypasses self-ownership checks.
func (r Role) IsAdmin() bool {
	return r.In(AdminRoles)
}

// ScopedToOwnTasks reports whether task listings must be restricted to rows
// where the caller is assignee or assigner.
func (r Role) ScopedToOwnTasks() bool {
	return r == RoleDeveloper || r == RoleTeamLead
}
