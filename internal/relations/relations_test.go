package relations

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"authrel-demo/internal/orm"
	"authrel-demo/internal/repository/sqlite"
)

// newTestQueries opens a named in-memory sqlite database with the schema migrated.
func newTestQueries(t *testing.T, name string) (*Queries, *gorm.DB, *bytes.Buffer) {
	t.Helper()
	sqlDB, err := sqlite.Open("file:"+name+"?mode=memory&cache=shared", 1)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := orm.Open("sqlite", sqlDB, nil, "silent")
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	if err := orm.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var out bytes.Buffer
	return New(db, &out), db, &out
}

func TestOneToOneAndOneToMany(t *testing.T) {
	q, _, out := newTestQueries(t, "relations_users")
	ctx := context.Background()

	if err := q.MainRelations(ctx, true); err != nil {
		t.Fatalf("MainRelations: %v", err)
	}

	users, err := q.ShowUsersWithProfiles(ctx)
	if err != nil {
		t.Fatalf("ShowUsersWithProfiles: %v", err)
	}
	if len(users) != 3 || users[0].Username != "ivan" || users[2].Username != "alice" {
		t.Fatalf("unexpected users: %v", users)
	}
	if users[0].Profile == nil || deref(users[0].Profile.FirstName) != "Ivan" {
		t.Fatalf("ivan profile not joined: %+v", users[0].Profile)
	}
	if users[1].Profile == nil || deref(users[1].Profile.LastName) != "Petrovich" {
		t.Fatalf("petr profile not joined: %+v", users[1].Profile)
	}
	if p := users[2].Profile; p != nil && p.ID != 0 {
		t.Fatalf("alice should have no profile, got %+v", p)
	}

	withPosts, err := q.GetUsersWithPosts(ctx)
	if err != nil {
		t.Fatalf("GetUsersWithPosts: %v", err)
	}
	if got := len(withPosts[0].Posts); got != 3 {
		t.Fatalf("ivan posts = %d", got)
	}
	if withPosts[0].Posts[0].Title != "SQLA 2.0" {
		t.Fatalf("posts not ordered by id: %v", withPosts[0].Posts)
	}
	if got := len(withPosts[2].Posts); got != 0 {
		t.Fatalf("alice posts = %d", got)
	}

	posts, err := q.GetPostsWithAuthors(ctx)
	if err != nil {
		t.Fatalf("GetPostsWithAuthors: %v", err)
	}
	if len(posts) != 6 {
		t.Fatalf("posts = %d", len(posts))
	}
	for _, p := range posts {
		if p.User == nil || p.User.ID != p.UserID {
			t.Fatalf("post %d author not joined: %+v", p.ID, p.User)
		}
	}

	profiles, err := q.GetProfilesWithUsersWithPosts(ctx, "ivan")
	if err != nil {
		t.Fatalf("GetProfilesWithUsersWithPosts: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles = %d", len(profiles))
	}
	if profiles[0].User == nil || profiles[0].User.Username != "ivan" || len(profiles[0].User.Posts) != 3 {
		t.Fatalf("nested load failed: %+v", profiles[0].User)
	}

	none, err := q.GetProfilesWithUsersWithPosts(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfilesWithUsersWithPosts(alice): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("alice has no profile, got %d", len(none))
	}

	printed := out.String()
	for _, want := range []string{"found user ivan", "--- Post(", "author User("} {
		if !strings.Contains(printed, want) {
			t.Fatalf("output missing %q:\n%s", want, printed)
		}
	}
}

func TestGetUserByUsername_Missing(t *testing.T) {
	q, _, out := newTestQueries(t, "relations_missing")
	ctx := context.Background()

	u, err := q.GetUserByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user, got %v", u)
	}
	if !strings.Contains(out.String(), "found user nobody <nil>") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	q, _, _ := newTestQueries(t, "relations_dup")
	ctx := context.Background()

	if _, err := q.CreateUser(ctx, "ivan"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := q.CreateUser(ctx, "ivan"); err == nil {
		t.Fatalf("expected unique violation on second create")
	}
}

func TestCreateUserProfile_OnePerUser(t *testing.T) {
	q, _, _ := newTestQueries(t, "relations_profile")
	ctx := context.Background()

	u, err := q.CreateUser(ctx, "petr")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := q.CreateUserProfile(ctx, u.ID, StrPtr("Petr"), nil); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := q.CreateUserProfile(ctx, u.ID, StrPtr("Again"), nil); err == nil {
		t.Fatalf("expected second profile for the same user to fail")
	}
}

func TestManyToMany(t *testing.T) {
	q, db, out := newTestQueries(t, "relations_m2m")
	ctx := context.Background()

	if err := q.DemoM2M(ctx, true); err != nil {
		t.Fatalf("DemoM2M: %v", err)
	}

	orders, err := q.GetOrdersWithProducts(ctx)
	if err != nil {
		t.Fatalf("GetOrdersWithProducts: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d", len(orders))
	}
	if orders[0].Promocode != nil || deref(orders[1].Promocode) != "Ivan" {
		t.Fatalf("unexpected promocodes: %v / %v", orders[0].Promocode, orders[1].Promocode)
	}

	names := func(i int) []string {
		var out []string
		for _, p := range orders[i].Products {
			out = append(out, p.Name)
		}
		return out
	}
	// the gift shows up through the plain relation too
	if got := strings.Join(names(0), ","); got != "Comp Mouse,Comp keyboard,Gift" {
		t.Fatalf("order 1 products = %s", got)
	}
	if got := strings.Join(names(1), ","); got != "Comp keyboard,Comp display,Gift" {
		t.Fatalf("order 2 products = %s", got)
	}

	detailed, err := q.GetOrdersWithProductsAssoc(ctx)
	if err != nil {
		t.Fatalf("GetOrdersWithProductsAssoc: %v", err)
	}
	for _, order := range detailed {
		if len(order.ProductsDetails) != 3 {
			t.Fatalf("order %d details = %d", order.ID, len(order.ProductsDetails))
		}
		for _, d := range order.ProductsDetails {
			if d.Product == nil {
				t.Fatalf("order %d detail %d has no product", order.ID, d.ID)
			}
			if d.Count != 1 {
				t.Fatalf("detail %d count = %d, want default 1", d.ID, d.Count)
			}
		}
		gift := order.ProductsDetails[2]
		if gift.Product.Name != "Gift" || gift.UnitPrice != 0 || gift.Product.Price != 0 {
			t.Fatalf("unexpected gift line: %+v", gift)
		}
	}

	var links int64
	if err := db.Table("order_product_association").Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 6 {
		t.Fatalf("association rows = %d", links)
	}

	if !strings.Contains(out.String(), "qty: 1") {
		t.Fatalf("association listing not printed:\n%s", out.String())
	}
}

func TestManyToMany_ReplaceDropsOldLinks(t *testing.T) {
	q, db, _ := newTestQueries(t, "relations_replace")
	ctx := context.Background()

	order, err := q.CreateOrder(ctx, nil)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	a, _ := q.CreateProduct(ctx, "A", "a", 1)
	b, _ := q.CreateProduct(ctx, "B", "b", 2)

	if err := db.Model(order).Association("Products").Append(a); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := db.Model(order).Association("Products").Replace(b); err != nil {
		t.Fatalf("replace: %v", err)
	}

	orders, err := q.GetOrdersWithProducts(ctx)
	if err != nil {
		t.Fatalf("GetOrdersWithProducts: %v", err)
	}
	if len(orders[0].Products) != 1 || orders[0].Products[0].Name != "B" {
		t.Fatalf("unexpected products after replace: %v", orders[0].Products)
	}
}

func TestCreateUserProfile_ForeignKeyOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := sqlite.Open(filepath.Join(t.TempDir(), "fk.db"), 4)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := orm.Open("sqlite", sqlDB, nil, "silent")
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	if err := orm.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	q := New(db, io.Discard)

	var pinned []*sql.Conn
	t.Cleanup(func() {
		for _, conn := range pinned {
			_ = conn.Close()
		}
	})

	for id := uint(9000); id < 9012; id++ {
		// hold connections open so later inserts run on fresh pool connections
		if id >= 9004 && len(pinned) < 3 {
			conn, err := sqlDB.Conn(ctx)
			if err != nil {
				t.Fatalf("pin connection: %v", err)
			}
			pinned = append(pinned, conn)
		}
		if _, err := q.CreateUserProfile(ctx, id, StrPtr("Ghost"), nil); err == nil {
			t.Fatalf("profile for missing user %d was accepted", id)
		}
	}
}
