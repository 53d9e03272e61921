package access

import "github.com/google/uuid"

type Role string

const (
	RoleAnonymous Role = ""
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// Principal is the identity a request acts as. The zero value is anonymous.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

func (p Principal) Authenticated() bool {
	return p.UserID != uuid.Nil
}

type Operation string

const (
	ProjectRead   Operation = "project:read"
	ProjectCreate Operation = "project:create"
	ProjectUpdate Operation = "project:update"
	ProjectDelete Operation = "project:delete"

	ThemeRead    Operation = "theme:read"
	ThemeCreate  Operation = "theme:create"
	ThemeUpdate  Operation = "theme:update"
	ThemeDelete  Operation = "theme:delete"
	ThemeMembers Operation = "theme:members"
	ThemeHead    Operation = "theme:head"
	ThemeProject Operation = "theme:project"

	TeamRead   Operation = "team:read"
	TeamCreate Operation = "team:create"
	TeamUpdate Operation = "team:update"
	TeamDelete Operation = "team:delete"

	AdminAccess Operation = "admin:access"
)

// Mutating reports whether op changes state.
func (op Operation) Mutating() bool {
	switch op {
	case ProjectRead, ThemeRead, TeamRead:
		return false
	}
	return true
}

// Gate decides whether a principal may perform an operation.
type Gate interface {
	IsAuthorized(p Principal, op Operation) bool
}

// RoleGate grants operations by role. Reads are open to everyone, including
// anonymous callers.
type RoleGate struct {
	grants map[Role]map[Operation]bool
}

var mutations = []Operation{
	ProjectCreate, ProjectUpdate, ProjectDelete,
	ThemeCreate, ThemeUpdate, ThemeDelete, ThemeMembers, ThemeHead, ThemeProject,
	TeamCreate, TeamUpdate, TeamDelete,
	AdminAccess,
}

func NewRoleGate() *RoleGate {
	admin := make(map[Operation]bool, len(mutations))
	for _, op := range mutations {
		admin[op] = true
	}
	return &RoleGate{grants: map[Role]map[Operation]bool{RoleAdmin: admin}}
}

func (g *RoleGate) IsAuthorized(p Principal, op Operation) bool {
	if !op.Mutating() {
		return true
	}
	return g.grants[p.Role][op]
}
