package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// policies map the food-ordering roles onto HR resources. ADMIN owns
// everything; the operational roles only read.
var policies = [][]string{
	{"ADMIN", "*", "*"},
	{"STAFF", "department", "read"},
	{"STAFF", "position", "read"},
	{"STAFF", "employee", "read"},
	{"STAFF", "benefit", "read"},
	{"STAFF", "salary", "read"},
	{"STAFF", "integration", "read"},
	{"CHEF", "department", "read"},
	{"CHEF", "position", "read"},
	{"CHEF", "employee", "read"},
	{"CHEF", "benefit", "read"},
	{"CHEF", "salary", "read"},
	{"CHEF", "integration", "read"},
}

// NewEnforcer builds the in-memory role enforcer. Roles come from the
// identity service token, so there is no per-tenant policy storage.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return enforcer, nil
}
