package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/accounts-service/internal/core/predicate"
)

// toFilter translates a predicate tree into a MongoDB query document.
// Substring matches become case-insensitive anchored-free regexes with the
// user input quoted.
func toFilter(p predicate.Predicate) (bson.M, error) {
	switch p := p.(type) {
	case nil:
		return bson.M{}, nil
	case predicate.RoleEquals:
		return bson.M{string(predicate.FieldRole): p.Role.String()}, nil
	case predicate.ContainsFold:
		if len(p.Fields) == 0 {
			return bson.M{"_id": bson.M{"$exists": false}}, nil
		}
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(p.Value), Options: "i"}
		or := make(bson.A, 0, len(p.Fields))
		for _, f := range p.Fields {
			or = append(or, bson.M{string(f): rx})
		}
		return bson.M{"$or": or}, nil
	case predicate.And:
		switch len(p) {
		case 0:
			return bson.M{}, nil
		case 1:
			return toFilter(p[0])
		}
		parts := make(bson.A, 0, len(p))
		for _, q := range p {
			f, err := toFilter(q)
			if err != nil {
				return nil, err
			}
			parts = append(parts, f)
		}
		return bson.M{"$and": parts}, nil
	}
	return nil, fmt.Errorf("mongo: unsupported predicate %T", p)
}
