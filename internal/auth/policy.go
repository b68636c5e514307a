package auth

import "jelpapharm/server/domain"

// Resources and actions known to the permission table.
const (
	ResourceSales     = "sales"
	ResourceInventory = "inventory"
	ResourceCustomers = "customers"
	ResourceReports   = "reports"
	ResourceUsers     = "users"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionVoid   = "void"
)

// Authorizer decides whether a principal may perform an action on a resource.
// Callers trust the boolean and do not re-derive permissions.
type Authorizer interface {
	Authorize(p Principal, resource, action string) bool
}

// RoleTable is a table-driven Authorizer: role → resource → permitted actions.
type RoleTable map[string]map[string][]string

func (t RoleTable) Authorize(p Principal, resource, action string) bool {
	actions, ok := t[p.Role][resource]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// DefaultPolicy is the shipped permission matrix. Voiding a sale is a
// distinct permission from creating one, held only by admins and pharmacists.
func DefaultPolicy() RoleTable {
	all := []string{ActionCreate, ActionRead, ActionUpdate, ActionVoid}
	return RoleTable{
		domain.RoleAdmin: {
			ResourceSales:     all,
			ResourceInventory: all,
			ResourceCustomers: all,
			ResourceReports:   {ActionRead},
			ResourceUsers:     all,
		},
		domain.RolePharmacist: {
			ResourceSales:     {ActionCreate, ActionRead, ActionUpdate, ActionVoid},
			ResourceInventory: {ActionCreate, ActionRead, ActionUpdate},
			ResourceCustomers: {ActionCreate, ActionRead, ActionUpdate},
			ResourceReports:   {ActionRead},
		},
		domain.RoleCashier: {
			ResourceSales:     {ActionCreate, ActionRead},
			ResourceInventory: {ActionRead},
			ResourceCustomers: {ActionCreate, ActionRead},
		},
	}
}
