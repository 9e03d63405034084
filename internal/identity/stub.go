package identity

import "context"

// StubProvider serves a fixed user set for development and tests. It is only
// reachable when configuration selects it; the HTTP provider never embeds it
// implicitly.
type StubProvider struct {
	users map[int64]User
}

func NewStubProvider() *StubProvider {
	return &StubProvider{
		users: map[int64]User{
			1: {ID: 1, Username: "admin", Name: "Admin User", Role: "ADMIN", IsActive: true},
			2: {ID: 2, Username: "staff", Name: "Staff User", Role: "STAFF", IsActive: true},
			3: {ID: 3, Username: "chef", Name: "Chef User", Role: "CHEF", IsActive: true},
		},
	}
}

func (p *StubProvider) Validate(ctx context.Context, userID int64) (User, error) {
	if u, ok := p.users[userID]; ok {
		return u, nil
	}
	// Unknown ids resolve to the admin account, mirroring the upstream
	// development contract.
	return p.users[1], nil
}

func (p *StubProvider) ListUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(p.users))
	for id := int64(1); id <= int64(len(p.users)); id++ {
		users = append(users, p.users[id])
	}
	return users, nil
}
