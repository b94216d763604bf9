package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// NewEnforcer builds the route-level role gate. Policies are static: there
// are exactly two roles and the fine-grained ownership rules (owner-if-draft,
// named partner only, requester exclusion) live in the services as checks on
// explicit caller identity.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{RoleEmployee, "shift", "read"},
		{RoleEmployee, "shift", "create"},
		{RoleEmployee, "shift", "update"},
		{RoleEmployee, "shift", "delete"},
		{RoleEmployee, "swap", "read"},
		{RoleEmployee, "swap", "create"},
		{RoleEmployee, "swap", "respond"},
		{RoleEmployee, "coverbid", "read"},
		{RoleEmployee, "coverbid", "create"},
		{RoleEmployee, "availability", "read"},
		{RoleEmployee, "availability", "write"},
		{RoleEmployee, "user", "read"},
		{RoleEmployee, "user", "update_self"},
		{RoleEmployee, "company", "read"},

		{RoleManager, "shift", "publish"},
		{RoleManager, "swap", "decide"},
		{RoleManager, "coverbid", "decide"},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}

	// Managers can do everything employees can.
	if _, err := e.AddGroupingPolicy(RoleManager, RoleEmployee); err != nil {
		return nil, err
	}

	return e, nil
}

// RoleFor maps the token's manager flag to a policy subject.
func RoleFor(isManager bool) string {
	if isManager {
		return RoleManager
	}
	return RoleEmployee
}
