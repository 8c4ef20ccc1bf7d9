package sqlite

import (
	"testing"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/predicate"
)

func TestToWhere(t *testing.T) {
	cases := []struct {
		name  string
		p     predicate.Predicate
		where string
		nargs int
	}{
		{"nil", nil, "1=1", 0},
		{"empty and", predicate.And{}, "1=1", 0},
		{"role", predicate.RoleEquals{Role: domain.RoleAdmin}, "role = ?", 1},
		{
			"contains",
			predicate.ContainsFold{Fields: []predicate.Field{predicate.FieldName, predicate.FieldEmail}, Value: "ana"},
			`(unicode_lower(name) LIKE ? ESCAPE '\' OR unicode_lower(email) LIKE ? ESCAPE '\')`,
			2,
		},
		{
			"and",
			predicate.And{predicate.RoleEquals{Role: domain.RoleStaff}, predicate.RoleEquals{Role: domain.RoleAdmin}},
			"role = ? AND role = ?",
			2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			where, args, err := toWhere(tc.p)
			if err != nil {
				t.Fatalf("toWhere: %v", err)
			}
			if where != tc.where {
				t.Fatalf("where = %q, want %q", where, tc.where)
			}
			if len(args) != tc.nargs {
				t.Fatalf("got %d args, want %d", len(args), tc.nargs)
			}
		})
	}
}

func TestToWhere_EscapesPattern(t *testing.T) {
	_, args, err := toWhere(predicate.ContainsFold{Fields: []predicate.Field{predicate.FieldName}, Value: `a_b%c\`})
	if err != nil {
		t.Fatalf("toWhere: %v", err)
	}
	if args[0] != `%a\_b\%c\\%` {
		t.Fatalf("unexpected pattern %q", args[0])
	}
}
