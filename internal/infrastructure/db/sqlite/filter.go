package sqlite

import (
	"fmt"
	"strings"

	"github.com/99minutos/accounts-service/internal/core/predicate"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// toWhere translates a predicate tree into a WHERE clause and its arguments.
func toWhere(p predicate.Predicate) (string, []any, error) {
	switch p := p.(type) {
	case nil:
		return "1=1", nil, nil
	case predicate.RoleEquals:
		return "role = ?", []any{p.Role.String()}, nil
	case predicate.ContainsFold:
		if len(p.Fields) == 0 {
			return "1=0", nil, nil
		}
		pattern := "%" + likeEscaper.Replace(p.Value) + "%"
		clauses := make([]string, 0, len(p.Fields))
		args := make([]any, 0, len(p.Fields))
		for _, f := range p.Fields {
			col, err := column(f)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, foldFunc+"("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		return "(" + strings.Join(clauses, " OR ") + ")", args, nil
	case predicate.And:
		if len(p) == 0 {
			return "1=1", nil, nil
		}
		clauses := make([]string, 0, len(p))
		var args []any
		for _, q := range p {
			c, a, err := toWhere(q)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, c)
			args = append(args, a...)
		}
		return strings.Join(clauses, " AND "), args, nil
	}
	return "", nil, fmt.Errorf("sqlite: unsupported predicate %T", p)
}

func column(f predicate.Field) (string, error) {
	switch f {
	case predicate.FieldName:
		return "name", nil
	case predicate.FieldEmail:
		return "email", nil
	case predicate.FieldRole:
		return "role", nil
	}
	return "", fmt.Errorf("sqlite: unknown field %q", f)
}
