package domain

import "errors"

// Role is the canonical access class. Source documents carry bilingual
// spellings; everything past NormalizeRole works with these two values only.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOptometrist Role = "optometrist"
)

var ErrUnknownRole = errors.New("unknown role")

// roleSynonyms maps every accepted raw spelling (case-sensitive) to its
// canonical role. The canonical spellings map to themselves so that
// normalization is idempotent.
var roleSynonyms = map[string]Role{
	"admin":         RoleAdmin,
	"Administrador": RoleAdmin,
	"optometrist":   RoleOptometrist,
	"Optometrista":  RoleOptometrist,
}

// NormalizeRole resolves a raw role string to its canonical Role.
// Unknown spellings are a hard failure: callers must not default.
func NormalizeRole(raw string) (Role, error) {
	role, ok := roleSynonyms[raw]
	if !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

// Satisfies reports whether the role meets the required one. Matching is
// exact: admin does not imply optometrist access, nor the reverse.
func (r Role) Satisfies(required Role) bool {
	return r == required
}
