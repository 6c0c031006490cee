package auth

import (
	"fmt"

	"github.com/epicevents/crm/internal/domain"
)

// Permission codenames follow the <action>_<model> convention.
const (
	PermViewClient     = "view_client"
	PermViewContract   = "view_contract"
	PermViewEvent      = "view_event"
	PermViewUser       = "view_user"
	PermAddUser        = "add_user"
	PermChangeUser     = "change_user"
	PermDeleteUser     = "delete_user"
	PermAddContract    = "add_contract"
	PermChangeContract = "change_contract"
	PermChangeEvent    = "change_event"
	PermAddClient      = "add_client"
	PermChangeClient   = "change_client"
	PermAddEvent       = "add_event"
)

var commonPermissions = []string{PermViewClient, PermViewContract, PermViewEvent, PermViewUser}

var departmentPermissions = map[domain.Department][]string{
	domain.DepartmentManagement: {
		PermAddUser,
		PermChangeUser,
		PermDeleteUser,
		PermAddContract,
		PermChangeContract,
		PermChangeEvent,
	},
	domain.DepartmentSales: {
		PermAddClient,
		PermAddEvent,
	},
	domain.DepartmentSupport: {},
}

// Permissions returns every codename granted to a department.
func Permissions(d domain.Department) []string {
	extra, ok := departmentPermissions[d]
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(commonPermissions)+len(extra))
	perms = append(perms, commonPermissions...)
	return append(perms, extra...)
}

// HasPerm reports whether the collaborator holds the permission. Superusers
// hold every permission.
func HasPerm(c *domain.Collaborator, perm string) bool {
	if c == nil {
		return false
	}
	if c.IsSuperuser {
		return true
	}
	for _, p := range Permissions(c.Department) {
		if p == perm {
			return true
		}
	}
	return false
}

// Codename builds the permission for a CLI command group and action; the
// collaborator group maps onto the user model.
func Codename(action, group string) string {
	if group == "collaborator" {
		group = "user"
	}
	return fmt.Sprintf("%s_%s", action, group)
}

// CanChangeClient reports whether c may edit client. change_client is never
// granted to a department; the client's sales contact owns it instead.
func CanChangeClient(c *domain.Collaborator, client *domain.Client) bool {
	if HasPerm(c, PermChangeClient) {
		return true
	}
	return c != nil && client != nil && client.ContactID != nil && *client.ContactID == c.ID
}
