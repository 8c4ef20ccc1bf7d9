// Package predicate builds composable, not-yet-executed filter conditions
// over users. Store adapters translate the tree into their own query language;
// Match evaluates it in memory.
package predicate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

// Filter keys recognised by Build.
const (
	KeyRole    = "role"
	KeyGeneral = "general"
)

// Field is a searchable user attribute.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldRole  Field = "role"
)

// Predicate is a condition over a user. The concrete types are RoleEquals,
// ContainsFold and And.
type Predicate interface {
	Match(u *domain.User) bool
	predicate()
}

// RoleEquals holds when the user's role is exactly Role.
type RoleEquals struct {
	Role domain.Role
}

func (p RoleEquals) Match(u *domain.User) bool { return u.Role == p.Role }
func (RoleEquals) predicate()                  {}

// ContainsFold holds when any of Fields contains Value, ignoring case.
// Value is stored lower-cased.
type ContainsFold struct {
	Fields []Field
	Value  string
}

func (p ContainsFold) Match(u *domain.User) bool {
	for _, f := range p.Fields {
		if strings.Contains(strings.ToLower(fieldValue(u, f)), p.Value) {
			return true
		}
	}
	return false
}
func (ContainsFold) predicate() {}

// And holds when every member holds. An empty And matches everything.
type And []Predicate

func (a And) Match(u *domain.User) bool {
	for _, p := range a {
		if !p.Match(u) {
			return false
		}
	}
	return true
}
func (And) predicate() {}

func fieldValue(u *domain.User, f Field) string {
	switch f {
	case FieldName:
		return u.Name
	case FieldEmail:
		return u.Email
	case FieldRole:
		return u.Role.String()
	}
	return ""
}

// ForKey returns the predicate for a single filter. ok is false for keys that
// are not recognised; those are ignored rather than rejected.
func ForKey(key, value string) (p Predicate, ok bool, err error) {
	switch key {
	case KeyRole:
		role, err := domain.ParseRole(value)
		if err != nil {
			return nil, true, fmt.Errorf("%w: role %q", domain.ErrInvalidFilterValue, value)
		}
		return RoleEquals{Role: role}, true, nil
	case KeyGeneral:
		return ContainsFold{
			Fields: []Field{FieldName, FieldEmail, FieldRole},
			Value:  strings.ToLower(value),
		}, true, nil
	}
	return nil, false, nil
}

// Build combines the predicates of every recognised filter with AND. Keys are
// visited in sorted order so the result is deterministic.
func Build(filters map[string]string) (And, error) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := And{}
	for _, k := range keys {
		p, ok, err := ForKey(k, filters[k])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
