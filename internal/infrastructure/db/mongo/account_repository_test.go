package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

func dupKeyErr(index string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: blog.users index: " + index + " dup key: { x: 1 }",
	}}}
}

func TestDuplicateErr(t *testing.T) {
	if got := duplicateErr(dupKeyErr(emailIndex)); got != domain.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", got)
	}
	if got := duplicateErr(dupKeyErr(usernameIndex)); got != domain.ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", got)
	}
	if got := duplicateErr(errors.New("network down")); got != nil {
		t.Fatalf("expected nil for non-duplicate error, got %v", got)
	}
}

func TestStorageErr(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := storageErr("find account", cause)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected driver cause in chain")
	}
}

func TestListFilter(t *testing.T) {
	if f := listFilter(ports.ListAccountsFilter{}); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}

	banned := true
	f := listFilter(ports.ListAccountsFilter{Search: "a.b", Role: domain.RoleAdmin, Banned: &banned})
	if f["roles"] != "ADMIN" {
		t.Fatalf("unexpected roles filter: %v", f["roles"])
	}
	if f["banned"] != true {
		t.Fatalf("unexpected banned filter: %v", f["banned"])
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("expected 3 $or clauses, got %v", f["$or"])
	}
	re := or[0].(bson.M)["full_name"].(primitive.Regex)
	if re.Pattern != `a\.b` || re.Options != "i" {
		t.Fatalf("search must be quoted and case-insensitive, got %+v", re)
	}
}

func TestAccountRepository_MalformedID(t *testing.T) {
	// No collection is needed: malformed ids never reach the driver.
	r := &AccountRepository{}
	ctx := context.Background()

	if _, err := r.FindByID(ctx, "not-an-object-id"); err != domain.ErrAccountNotFound {
		t.Fatalf("FindByID: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := r.SetBanned(ctx, "xyz", true); err != domain.ErrAccountNotFound {
		t.Fatalf("SetBanned: expected ErrAccountNotFound, got %v", err)
	}
	if err := r.Delete(ctx, "xyz"); err != domain.ErrAccountNotFound {
		t.Fatalf("Delete: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := r.FindByUsername(ctx, "  "); err != domain.ErrAccountNotFound {
		t.Fatalf("FindByUsername: expected ErrAccountNotFound, got %v", err)
	}
	accounts, err := r.FindByIDs(ctx, []string{"a", "b"})
	if err != nil || len(accounts) != 0 {
		t.Fatalf("FindByIDs: expected empty result, got %v, %v", accounts, err)
	}
}

func TestAccountDocRoundTrip(t *testing.T) {
	a := domain.NewAccount("Ada", "ada@x.com", "ada", "hash", "", []domain.Role{domain.RoleAdmin}, primitive.NewObjectID().Timestamp())
	doc := toDoc(a)
	doc.ID = primitive.NewObjectID()
	back := doc.toDomain()

	if back.ID != doc.ID.Hex() || back.Email != a.Email || back.PasswordHash != "hash" {
		t.Fatalf("unexpected account: %+v", back)
	}
	if len(back.Roles) != 1 || back.Roles[0] != domain.RoleAdmin {
		t.Fatalf("unexpected roles: %v", back.Roles)
	}
}

func TestUpdateDoc(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	name, email := "Ada", " ADA@x.com "
	update := updateDoc(domain.AccountPatch{FullName: &name, Email: &email, Roles: []domain.Role{domain.RoleAdmin}}, now)

	set := update["$set"].(bson.M)
	if set["full_name"] != "Ada" || set["email"] != "ada@x.com" || set["updated_at"] != now {
		t.Fatalf("unexpected $set: %v", set)
	}
	if roles := set["roles"].([]string); len(roles) != 1 || roles[0] != "ADMIN" {
		t.Fatalf("unexpected roles: %v", set["roles"])
	}
	if _, ok := update["$unset"]; ok {
		t.Fatalf("no $unset expected: %v", update)
	}
}

func TestUpdateDoc_Username(t *testing.T) {
	renamed := " Ada.L "
	update := updateDoc(domain.AccountPatch{Username: &renamed}, time.Now())
	if got := update["$set"].(bson.M)["username"]; got != "ada.l" {
		t.Fatalf("expected normalized username, got %v", got)
	}

	cleared := ""
	update = updateDoc(domain.AccountPatch{Username: &cleared}, time.Now())
	if _, ok := update["$set"].(bson.M)["username"]; ok {
		t.Fatalf("cleared username must not be set: %v", update)
	}
	unset, ok := update["$unset"].(bson.M)
	if !ok {
		t.Fatalf("expected $unset, got %v", update)
	}
	if _, ok := unset["username"]; !ok {
		t.Fatalf("expected username in $unset, got %v", unset)
	}
}
