package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/predicate"
)

func TestToFilter_Empty(t *testing.T) {
	for _, p := range []predicate.Predicate{nil, predicate.And{}} {
		f, err := toFilter(p)
		if err != nil {
			t.Fatalf("toFilter(%T): %v", p, err)
		}
		if len(f) != 0 {
			t.Fatalf("expected empty filter, got %v", f)
		}
	}
}

func TestToFilter_Role(t *testing.T) {
	f, err := toFilter(predicate.RoleEquals{Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("toFilter: %v", err)
	}
	if f["role"] != "ADMIN" {
		t.Fatalf("expected role=ADMIN, got %v", f)
	}
}

func TestToFilter_ContainsQuotesInput(t *testing.T) {
	f, err := toFilter(predicate.ContainsFold{
		Fields: []predicate.Field{predicate.FieldName, predicate.FieldEmail},
		Value:  "a.b+",
	})
	if err != nil {
		t.Fatalf("toFilter: %v", err)
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or with 2 clauses, got %v", f)
	}
	clause := or[1].(bson.M)
	rx, ok := clause["email"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected regex on email, got %v", clause)
	}
	if rx.Pattern != `a\.b\+` || rx.Options != "i" {
		t.Fatalf("unexpected regex %+v", rx)
	}
}

func TestToFilter_ContainsWithoutFieldsMatchesNothing(t *testing.T) {
	f, err := toFilter(predicate.ContainsFold{Value: "ana"})
	if err != nil {
		t.Fatalf("toFilter: %v", err)
	}
	if _, ok := f["$or"]; ok {
		t.Fatalf("empty $or is rejected by the server, got %v", f)
	}
	id, ok := f["_id"].(bson.M)
	if !ok || id["$exists"] != false {
		t.Fatalf("expected _id $exists false, got %v", f)
	}
}

func TestToFilter_And(t *testing.T) {
	p, err := predicate.Build(map[string]string{"role": "STAFF", "general": "ana"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f, err := toFilter(p)
	if err != nil {
		t.Fatalf("toFilter: %v", err)
	}
	parts, ok := f["$and"].(bson.A)
	if !ok || len(parts) != 2 {
		t.Fatalf("expected $and with 2 parts, got %v", f)
	}

	single, err := toFilter(predicate.And{predicate.RoleEquals{Role: domain.RoleStaff}})
	if err != nil {
		t.Fatalf("toFilter: %v", err)
	}
	if _, nested := single["$and"]; nested {
		t.Fatalf("single-member And should not nest, got %v", single)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	u := &domain.User{
		ID:        primitive.NewObjectID().Hex(),
		Name:      "Ana",
		Email:     "ana@x.com",
		Telephone: "600",
		Role:      domain.RoleCustomer,
		CreatedAt: created,
		UpdatedAt: created,
	}

	doc, err := toDocument(u)
	if err != nil {
		t.Fatalf("toDocument: %v", err)
	}
	got := doc.toDomain()
	if got.ID != u.ID || got.Role != u.Role || !got.CreatedAt.Equal(created) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := toDocument(&domain.User{ID: "not-hex"}); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}
