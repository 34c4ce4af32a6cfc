package auth

import "github.com/genzspace/genzflow/internal"

// Permission names a gated operation on a resource. Every role check in the
// router goes through the policy table below; handlers never hard-code role
// lists of their own.
type Permission struct {
	Resource string
	Action   string
}

const (
	ResourceEmployees = "employees"
	ResourceTasks     = "tasks"
	ResourceProjects  = "projects"
	ResourceDashboard = "dashboard"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionStats  = "stats"

	ActionViewCEO     = "view_ceo"
	ActionViewManager = "view_manager"
)

// policy is the single authorization source: permission to the roles that
// hold it. Operations absent from the table are open to any authenticated
// caller; row-level scoping (own tasks, self-or-admin) stays in the services.
var policy = map[Permission][]internal.Role{
	{ResourceEmployees, ActionCreate}: internal.AdminRoles,
	{ResourceEmployees, ActionDelete}: internal.AdminRoles,
	{ResourceEmployees, ActionStats}:  internal.AdminRoles,

	{ResourceTasks, ActionCreate}: {internal.RoleCEO, internal.RoleDirector, internal.RoleManager, internal.RoleTeamLead},
	{ResourceTasks, ActionUpdate}: {internal.RoleCEO, internal.RoleDirector, internal.RoleManager, internal.RoleTeamLead},
	{ResourceTasks, ActionDelete}: {internal.RoleCEO, internal.RoleDirector, internal.RoleManager},

	{ResourceProjects, ActionCreate}: {internal.RoleCEO, internal.RoleDirector, internal.RoleManager},
	{ResourceProjects, ActionUpdate}: {internal.RoleCEO, internal.RoleDirector, internal.RoleManager},
	{ResourceProjects, ActionDelete}: {internal.RoleCEO, internal.RoleDirector},

	{ResourceDashboard, ActionViewCEO}:     {internal.RoleCEO},
	{ResourceDashboard, ActionViewManager}: {internal.RoleDirector, internal.RoleManager, internal.RoleTeamLead},
}

// RolesFor returns the roles a permission is granted to. The second return
// is false when the permission is not in the table at all.
func RolesFor(resource, action string) ([]internal.Role, bool) {
	roles, ok := policy[Permission{Resource: resource, Action: action}]
	return roles, ok
}

// Allowed reports whether role holds the permission. Unknown permissions are
// denied; an unlisted operation should not be gated in the first place.
func Allowed(role internal.Role, resource, action string) bool {
	roles, ok := RolesFor(resource, action)
	if !ok {
		return false
	}
	return role.In(roles)
}
